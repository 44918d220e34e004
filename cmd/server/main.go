package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/database"
	"github.com/iliyamo/clinic-management/internal/handler"
	"github.com/iliyamo/clinic-management/internal/queue"
	"github.com/iliyamo/clinic-management/internal/repository"
	"github.com/iliyamo/clinic-management/internal/router"
	queue_publisher "github.com/iliyamo/clinic-management/internal/service"
)

func main() {
	// Load a local .env when present; real deployments set the environment
	// directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // fatal on missing required vars (incl. JWT settings)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Optional collaborators: a nil Redis client disables rate limiting and
	// response caching, and the broker consumer reconnects on its own.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	patients := repository.NewPatientRepo(db)
	doctors := repository.NewDoctorRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	prescriptions := repository.NewPrescriptionRepo(db)
	lab := repository.NewLabRepo(db)
	history := repository.NewHistoryRepo(db)

	h := router.Handlers{
		Account:       handler.NewAccountHandler(cfg, users, tokens),
		Patients:      handler.NewPatientHandler(patients, history),
		Doctors:       handler.NewDoctorHandler(doctors),
		Appointments:  handler.NewAppointmentHandler(appointments, patients, doctors, queue_publisher.PublishAppointmentBooked),
		Prescriptions: handler.NewPrescriptionHandler(prescriptions),
		Lab:           handler.NewLabHandler(lab),
	}

	e := echo.New()
	router.Register(e, cfg, h, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
