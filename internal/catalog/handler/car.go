package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"drively/internal/catalog/service"
	apperrors "drively/pkg/errors"
	httputil "drively/pkg/http"
	"drively/pkg/logger"
	"drively/pkg/middleware"
	"drively/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CarHandler struct {
	service service.CatalogService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewCarHandler(svc service.CatalogService, auth *middleware.Authenticator, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: svc,
		auth:    auth,
		log:     log,
	}
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/cars", h.List)
	router.GET("/api/v1/cars/:id", h.GetByID)

	router.POST("/api/v1/admin/cars", h.auth.Admin(h.Create))
	router.GET("/api/v1/admin/cars", h.auth.Admin(h.ListAll))
	router.PATCH("/api/v1/admin/cars/:id", h.auth.Admin(h.Update))
	router.DELETE("/api/v1/admin/cars/:id", h.auth.Admin(h.Delete))
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := &model.CarQuery{
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sort"),
	}
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			_ = httputil.WriteError(w, apperrors.InvalidInput("min_rating must be a number"))
			return
		}
		query.MinRating = rating
	}

	cars, err := h.service.ListActive(r.Context(), query)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteList(w, cars, len(cars))
}

func (h *CarHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	car, err := h.service.GetActiveByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, car)
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	var req model.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	car, err := h.service.CreateCar(r.Context(), principal.ID, &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteCreated(w, car)
}

func (h *CarHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cars, err := h.service.ListAll(r.Context())
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteList(w, cars, len(cars))
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.CarUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	car, err := h.service.UpdateCar(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteCar(r.Context(), ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}
