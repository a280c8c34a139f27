package handler

import (
	"encoding/json"
	"net/http"

	"drively/internal/contact/service"
	apperrors "drively/pkg/errors"
	httputil "drively/pkg/http"
	"drively/pkg/logger"
	"drively/pkg/middleware"
	"drively/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ContactHandler struct {
	service service.ContactService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewContactHandler(svc service.ContactService, auth *middleware.Authenticator, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		auth:    auth,
		log:     log,
	}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/contact", h.Create)

	router.GET("/api/v1/admin/contact", h.auth.Admin(h.List))
	router.GET("/api/v1/admin/contact/:id", h.auth.Admin(h.GetByID))
	router.PATCH("/api/v1/admin/contact/:id/status", h.auth.Admin(h.UpdateStatus))
	router.DELETE("/api/v1/admin/contact/:id", h.auth.Admin(h.Delete))
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	msg, err := h.service.Create(r.Context(), &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteCreated(w, msg)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteList(w, messages, len(messages))
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	msg, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, msg)
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ContactStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	msg, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, msg)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}
