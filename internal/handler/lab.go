package handler

import (
    "net/http"
    "strings"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/model"
    "github.com/iliyamo/clinic-management/internal/repository"
    "github.com/iliyamo/clinic-management/internal/result"
)

// LabHandler serves the /api/lab-requests routes.
type LabHandler struct {
    Lab *repository.LabRepo
}

func NewLabHandler(l *repository.LabRepo) *LabHandler { return &LabHandler{Lab: l} }

// CreateRequest handles POST /api/lab-requests; DOCTOR only.
func (h *LabHandler) CreateRequest(c echo.Context) error {
    var req struct {
        PatientID uint64 `json:"patientId"`
        DoctorID  uint64 `json:"doctorId"`
        TestType  string `json:"testType"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    if req.PatientID == 0 || req.DoctorID == 0 || anyBlank(req.TestType) {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    lr := model.LabRequest{
        Reference: uuid.NewString(),
        PatientID: req.PatientID,
        DoctorID:  req.DoctorID,
        TestType:  strings.TrimSpace(req.TestType),
    }
    if err := h.Lab.CreateRequest(c.Request().Context(), &lr); err != nil {
        return storeFailure(c, err)
    }
    res := result.OKWithStatus(lr, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// GetRequest handles GET /api/lab-requests/:id.
func (h *LabHandler) GetRequest(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    lr, err := h.Lab.GetRequest(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(lr)
    return c.JSON(res.StatusCode, res)
}

// ListRequests handles GET /api/lab-requests with optional ?patientId= and
// ?status= filters.
func (h *LabHandler) ListRequests(c echo.Context) error {
    status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
    if status != "" && status != model.LabPending && status != model.LabCompleted {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    items, err := h.Lab.ListRequests(c.Request().Context(), queryID(c, "patientId"), status)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(items)
    return c.JSON(res.StatusCode, res)
}

// AttachReport handles POST /api/lab-requests/:id/report.  A report can be
// attached once; the request flips to COMPLETED with it.
func (h *LabHandler) AttachReport(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    var req struct {
        Findings   string `json:"findings"`
        ResultData string `json:"resultData"`
    }
    if err := c.Bind(&req); err != nil || anyBlank(req.Findings) {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    rep := model.LabReport{
        RequestID:  id,
        Findings:   strings.TrimSpace(req.Findings),
        ResultData: strings.TrimSpace(req.ResultData),
    }
    if err := h.Lab.AttachReport(c.Request().Context(), &rep); err != nil {
        return storeFailure(c, err)
    }
    res := result.OKWithStatus(rep, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// GetReport handles GET /api/lab-requests/:id/report.
func (h *LabHandler) GetReport(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    rep, err := h.Lab.GetReport(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(rep)
    return c.JSON(res.StatusCode, res)
}
