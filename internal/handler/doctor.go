package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/model"
    "github.com/iliyamo/clinic-management/internal/repository"
    "github.com/iliyamo/clinic-management/internal/result"
)

// DoctorHandler serves the /api/doctors routes.  Reads are open to any
// authenticated user; writes are restricted to ADMIN by route middleware.
type DoctorHandler struct {
    Doctors *repository.DoctorRepo
}

func NewDoctorHandler(d *repository.DoctorRepo) *DoctorHandler {
    return &DoctorHandler{Doctors: d}
}

type doctorReq struct {
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
    Email     string `json:"email"`
    Phone     string `json:"phone"`
    Specialty string `json:"specialty"`
}

func (dr *doctorReq) toModel() (model.Doctor, bool) {
    if anyBlank(dr.FirstName, dr.LastName, dr.Email, dr.Specialty) {
        return model.Doctor{}, false
    }
    return model.Doctor{
        FirstName: strings.TrimSpace(dr.FirstName),
        LastName:  strings.TrimSpace(dr.LastName),
        Email:     strings.ToLower(strings.TrimSpace(dr.Email)),
        Phone:     strings.TrimSpace(dr.Phone),
        Specialty: strings.TrimSpace(dr.Specialty),
    }, true
}

// Create handles POST /api/doctors.
func (h *DoctorHandler) Create(c echo.Context) error {
    var req doctorReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    d, ok := req.toModel()
    if !ok {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    if err := h.Doctors.Create(c.Request().Context(), &d); err != nil {
        return storeFailure(c, err)
    }
    res := result.OKWithStatus(d, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// Get handles GET /api/doctors/:id.
func (h *DoctorHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    d, err := h.Doctors.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(d)
    return c.JSON(res.StatusCode, res)
}

// List handles GET /api/doctors with an optional ?specialty= filter.  This
// endpoint sits behind the response cache.
func (h *DoctorHandler) List(c echo.Context) error {
    items, err := h.Doctors.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("specialty")))
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(items)
    return c.JSON(res.StatusCode, res)
}

// Update handles PUT /api/doctors/:id.
func (h *DoctorHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    var req doctorReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    d, ok := req.toModel()
    if !ok {
        return c.JSON(http.StatusBadRequest, result.Invalid[any](nil))
    }
    d.ID = id
    if err := h.Doctors.Update(c.Request().Context(), &d); err != nil {
        return storeFailure(c, err)
    }
    updated, err := h.Doctors.GetByID(c.Request().Context(), id)
    if err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(updated)
    return c.JSON(res.StatusCode, res)
}

// Delete handles DELETE /api/doctors/:id.
func (h *DoctorHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return invalidID(c)
    }
    if err := h.Doctors.Delete(c.Request().Context(), id); err != nil {
        return storeFailure(c, err)
    }
    res := result.OK(GeneralResponse{Success: true, Message: "doctor deleted."})
    return c.JSON(res.StatusCode, res)
}
