package handler

import (
	"encoding/json"
	"net/http"

	"drively/internal/bookings/service"
	apperrors "drively/pkg/errors"
	httputil "drively/pkg/http"
	"drively/pkg/logger"
	"drively/pkg/middleware"
	"drively/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(svc service.BookingService, auth *middleware.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		auth:    auth,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.auth.User(h.Create))
	router.GET("/api/v1/bookings", h.auth.User(h.GetMyBookings))
	router.GET("/api/v1/bookings/:id", h.auth.User(h.GetByID))
	router.PATCH("/api/v1/bookings/:id/cancel", h.auth.User(h.Cancel))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), principal.ID, &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	bookings, err := h.service.GetMyBookings(r.Context(), principal.ID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteList(w, bookings, len(bookings))
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), principal.ID, ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	booking, err := h.service.Cancel(r.Context(), principal.ID, ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, booking)
}
