package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/model"
    "github.com/iliyamo/clinic-management/internal/repository"
    "github.com/iliyamo/clinic-management/internal/result"
)

// PrescriptionHandler serves the /api/prescriptions routes.  Creation is
// restricted to DOCTOR by route middleware.
type PrescriptionHandler struct {
    Prescriptions *repository.PrescriptionRepo
}

func NewPrescriptionHandler(p *repository.PrescriptionRepo) *PrescriptionHandler {
    return &PrescriptionHandler{Prescriptions: p}
}

type prescriptionReq struct {
    PatientID     uint64  `json:"patientId"`
    DoctorID      uint64  `json:"doctorId"`
    AppointmentID *uint64 `json:"appointmentId"`
    Medication    string  `json:"medication"`
    Dosage        string  `json:"dosage"`
    Instructions  string  `json:"instructions"`
}

// Create handles POST /api/prescriptions.
func (h *PrescriptionHandler) Create(c echo.Context) error {
    var req prescriptionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    if req.PatientID == 0 || req.DoctorID == 0 || anyBlank(req.Medication, req.Dosage) {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    p := model.Prescription{
        PatientID:     req.PatientID,
        DoctorID:      req.DoctorID,
        AppointmentID: req.AppointmentID,
        Medication:    strings.TrimSpace(req.Medication),
        Dosage:        strings.TrimSpace(req.Dosage),
        Instructions:  strings.TrimSpace(req.Instructions),
    }
    if err := h.Prescriptions.Create(c.Request().Context(), &p); err != nil {
        return storeFailure(c, err)
    }
    res := result.OKWithStatus(p, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// Get handles GET /api/prescriptions/:id.
func (h *PrescriptionHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    p, err := h.Prescriptions.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(p)
    return c.JSON(res.StatusCode, res)
}

// ListByPatient handles GET /api/prescriptions?patientId=N.
func (h *PrescriptionHandler) ListByPatient(c echo.Context) error {
    patientID := queryID(c, "patientId")
    if patientID == 0 {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    items, err := h.Prescriptions.ListByPatient(c.Request().Context(), patientID)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(items)
    return c.JSON(res.StatusCode, res)
}
