package handler // handler package contains the staff-facing patient endpoints

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/model"
    "github.com/iliyamo/clinic-management/internal/repository"
    "github.com/iliyamo/clinic-management/internal/result"
)

// PatientHandler bundles the repositories behind the /api/patients routes.
type PatientHandler struct {
    Patients *repository.PatientRepo
    History  *repository.HistoryRepo
}

func NewPatientHandler(p *repository.PatientRepo, h *repository.HistoryRepo) *PatientHandler {
    return &PatientHandler{Patients: p, History: h}
}

type patientReq struct {
    FirstName   string `json:"firstName"`
    LastName    string `json:"lastName"`
    Email       string `json:"email"`
    Phone       string `json:"phone"`
    Gender      string `json:"gender"`
    DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
    Address     string `json:"address"`
}

func (pr *patientReq) toModel() (model.Patient, bool) {
    if anyBlank(pr.FirstName, pr.LastName, pr.Email, pr.DateOfBirth) {
        return model.Patient{}, false
    }
    dob, err := time.Parse("2006-01-02", strings.TrimSpace(pr.DateOfBirth))
    if err != nil {
        return model.Patient{}, false
    }
    return model.Patient{
        FirstName:   strings.TrimSpace(pr.FirstName),
        LastName:    strings.TrimSpace(pr.LastName),
        Email:       strings.ToLower(strings.TrimSpace(pr.Email)),
        Phone:       strings.TrimSpace(pr.Phone),
        Gender:      strings.ToUpper(strings.TrimSpace(pr.Gender)),
        DateOfBirth: dob,
        Address:     strings.TrimSpace(pr.Address),
    }, true
}

// Create handles POST /api/patients.
func (h *PatientHandler) Create(c echo.Context) error {
    var req patientReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    p, ok := req.toModel()
    if !ok {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    if err := h.Patients.Create(c.Request().Context(), &p); err != nil {
        return storeFailure(c, err)
    }
    res := result.OKWithStatus(p, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// Get handles GET /api/patients/:id.
func (h *PatientHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    p, err := h.Patients.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(p)
    return c.JSON(res.StatusCode, res)
}

// List handles GET /api/patients.
func (h *PatientHandler) List(c echo.Context) error {
    items, err := h.Patients.List(c.Request().Context())
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(items)
    return c.JSON(res.StatusCode, res)
}

// Update handles PUT /api/patients/:id.
func (h *PatientHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    var req patientReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    p, ok := req.toModel()
    if !ok {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    p.ID = id
    if err := h.Patients.Update(c.Request().Context(), &p); err != nil {
        return storeFailure(c, err)
    }
    updated, err := h.Patients.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(updated)
    return c.JSON(res.StatusCode, res)
}

// Delete handles DELETE /api/patients/:id.
func (h *PatientHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    if err := h.Patients.Delete(c.Request().Context(), id); err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(GeneralResponse{Success: true, Message: "patient deleted."})
    return c.JSON(res.StatusCode, res)
}

// AddHistory handles POST /api/patients/:id/history.
func (h *PatientHandler) AddHistory(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    var req struct {
        Condition string `json:"condition"`
        Notes     string `json:"notes"`
    }
    if err := c.Bind(&req); err != nil || anyBlank(req.Condition) {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    entry := model.MedicalHistory{
        PatientID: id,
        Condition: strings.TrimSpace(req.Condition),
        Notes:     strings.TrimSpace(req.Notes),
    }
    if err := h.History.Add(c.Request().Context(), &entry); err != nil {
        return storeFailure(c, err)
    }
    res := result.OKWithStatus(entry, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// ListHistory handles GET /api/patients/:id/history.
func (h *PatientHandler) ListHistory(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    if _, err := h.Patients.GetByID(c.Request().Context(), id); err != nil {
        return storeFailure(c, err)
    }
    items, err := h.History.ListByPatient(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(items)
    return c.JSON(res.StatusCode, res)
}
