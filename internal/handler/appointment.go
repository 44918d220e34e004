package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/model"
    "github.com/iliyamo/clinic-management/internal/queue"
    "github.com/iliyamo/clinic-management/internal/repository"
    "github.com/iliyamo/clinic-management/internal/result"
)

// AppointmentHandler serves the /api/appointments routes.  Publish is called
// after a booking is created; failures are logged and ignored so the broker
// being down never fails the request.
type AppointmentHandler struct {
    Appointments *repository.AppointmentRepo
    Patients     *repository.PatientRepo
    Doctors      *repository.DoctorRepo
    Publish      func(ctx context.Context, ev queue.AppointmentBookedEvent) error
}

func NewAppointmentHandler(a *repository.AppointmentRepo, p *repository.PatientRepo, d *repository.DoctorRepo,
    publish func(ctx context.Context, ev queue.AppointmentBookedEvent) error) *AppointmentHandler {
    return &AppointmentHandler{Appointments: a, Patients: p, Doctors: d, Publish: publish}
}

type appointmentReq struct {
    PatientID   uint64 `json:"patientId"`
    DoctorID    uint64 `json:"doctorId"`
    ScheduledAt string `json:"scheduledAt"` // RFC 3339
    Notes       string `json:"notes"`
}

// Create handles POST /api/appointments: validates the references, books the
// slot in SCHEDULED state and publishes an appointment.booked event.
func (h *AppointmentHandler) Create(c echo.Context) error {
    var req appointmentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    if req.PatientID == 0 || req.DoctorID == 0 || anyBlank(req.ScheduledAt) {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    when, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
    if err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }

    ctx := c.Request().Context()
    patient, err := h.Patients.GetByID(ctx, req.PatientID)
    if err != nil {
        return storeFailure(c, err)
    }
    doctor, err := h.Doctors.GetByID(ctx, req.DoctorID)
    if err != nil {
        return storeFailure(c, err)
    }

    a := model.Appointment{
        Reference:   uuid.NewString(),
        PatientID:   req.PatientID,
        DoctorID:    req.DoctorID,
        ScheduledAt: when.UTC(),
        Notes:       strings.TrimSpace(req.Notes),
    }
    if err := h.Appointments.Create(ctx, &a); err != nil {
        return storeFailure(c, err)
    }

    if h.Publish != nil {
        ev := queue.AppointmentBookedEvent{
            AppointmentID: a.ID,
            Reference:     a.Reference,
            PatientID:     patient.ID,
            PatientName:   patient.FirstName + " " + patient.LastName,
            DoctorID:      doctor.ID,
            DoctorName:    doctor.FirstName + " " + doctor.LastName,
            Specialty:     doctor.Specialty,
            ScheduledAt:   a.ScheduledAt.Format(time.RFC3339),
            BookedAt:      time.Now().UTC().Format(time.RFC3339),
        }
        if err := h.Publish(ctx, ev); err != nil {
            c.Logger().Warnf("appointment event publish failed: %v", err)
        }
    }

    res := result.OKWithStatus(a, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// Get handles GET /api/appointments/:id.
func (h *AppointmentHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    a, err := h.Appointments.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(a)
    return c.JSON(res.StatusCode, res)
}

// List handles GET /api/appointments with optional ?patientId= and
// ?doctorId= filters.
func (h *AppointmentHandler) List(c echo.Context) error {
    items, err := h.Appointments.List(c.Request().Context(), queryID(c, "patientId"), queryID(c, "doctorId"))
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(items)
    return c.JSON(res.StatusCode, res)
}

// UpdateStatus handles PATCH /api/appointments/:id/status, moving a
// SCHEDULED appointment to COMPLETED or CANCELLED.
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    var req struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    status := strings.ToUpper(strings.TrimSpace(req.Status))
    if status != model.AppointmentCompleted && status != model.AppointmentCancelled {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    if err := h.Appointments.UpdateStatus(c.Request().Context(), id, status); err != nil {
        return storeFailure(c, err)
    }
    a, err := h.Appointments.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(a)
    return c.JSON(res.StatusCode, res)
}

// Reschedule handles PUT /api/appointments/:id.
func (h *AppointmentHandler) Reschedule(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    var req struct {
        ScheduledAt string `json:"scheduledAt"`
        Notes       string `json:"notes"`
    }
    if err := c.Bind(&req); err != nil || anyBlank(req.ScheduledAt) {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    when, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
    if err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    a := model.Appointment{ID: id, ScheduledAt: when.UTC(), Notes: strings.TrimSpace(req.Notes)}
    if err := h.Appointments.Reschedule(c.Request().Context(), &a); err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(a)
    return c.JSON(res.StatusCode, res)
}
