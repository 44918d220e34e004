package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/handler"
	"github.com/iliyamo/clinic-management/internal/middleware"
	"github.com/iliyamo/clinic-management/internal/model"
)

// Handlers collects the handler set the router wires up.
type Handlers struct {
	Account       *handler.AccountHandler
	Patients      *handler.PatientHandler
	Doctors       *handler.DoctorHandler
	Appointments  *handler.AppointmentHandler
	Prescriptions *handler.PrescriptionHandler
	Lab           *handler.LabHandler
}

// Register wires every route onto e.  The /api/account group is public but
// rate limited; everything else under /api requires a valid access token.
// Read-heavy list endpoints additionally sit behind the Redis response cache.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Account endpoints: no session required, but rate limited since these
	// are the brute-forceable surface.
	account := e.Group("/api/account", limiter)
	account.POST("/register", h.Account.Register)
	account.POST("/login", h.Account.Login)
	account.POST("/forget-password", h.Account.ForgetPassword)
	// Refresh reads the RefreshToken cookie; there is no request body.
	account.POST("/refresh-token", h.Account.RefreshToken)
	account.POST("/logout", h.Account.Logout)

	// Protected API: every route below requires a valid bearer token.
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg))

	api.GET("/account/me", h.Account.Me)

	staff := middleware.RequireRole(model.RoleAdmin, model.RoleDoctor)
	admin := middleware.RequireRole(model.RoleAdmin)
	doctor := middleware.RequireRole(model.RoleDoctor)

	// Patients: staff manage records; any authenticated user may read.
	api.GET("/patients", h.Patients.List, cache)
	api.GET("/patients/:id", h.Patients.Get)
	api.POST("/patients", h.Patients.Create, staff)
	api.PUT("/patients/:id", h.Patients.Update, staff)
	api.DELETE("/patients/:id", h.Patients.Delete, admin)
	api.GET("/patients/:id/history", h.Patients.ListHistory, staff)
	api.POST("/patients/:id/history", h.Patients.AddHistory, doctor)

	// Doctors: admin manages the roster; reads are cached.
	api.GET("/doctors", h.Doctors.List, cache)
	api.GET("/doctors/:id", h.Doctors.Get)
	api.POST("/doctors", h.Doctors.Create, admin)
	api.PUT("/doctors/:id", h.Doctors.Update, admin)
	api.DELETE("/doctors/:id", h.Doctors.Delete, admin)

	// Appointments.
	api.GET("/appointments", h.Appointments.List)
	api.GET("/appointments/:id", h.Appointments.Get)
	api.POST("/appointments", h.Appointments.Create)
	api.PUT("/appointments/:id", h.Appointments.Reschedule, staff)
	api.PATCH("/appointments/:id/status", h.Appointments.UpdateStatus, staff)

	// Prescriptions: only doctors write.
	api.GET("/prescriptions", h.Prescriptions.ListByPatient)
	api.GET("/prescriptions/:id", h.Prescriptions.Get)
	api.POST("/prescriptions", h.Prescriptions.Create, doctor)

	// Lab requests and reports.
	api.GET("/lab-requests", h.Lab.ListRequests)
	api.GET("/lab-requests/:id", h.Lab.GetRequest)
	api.POST("/lab-requests", h.Lab.CreateRequest, doctor)
	api.GET("/lab-requests/:id/report", h.Lab.GetReport)
	api.POST("/lab-requests/:id/report", h.Lab.AttachReport, staff)
}
