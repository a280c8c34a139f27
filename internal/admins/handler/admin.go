package handler

import (
	"encoding/json"
	"net/http"

	"drively/internal/admins/service"
	apperrors "drively/pkg/errors"
	httputil "drively/pkg/http"
	"drively/pkg/logger"
	"drively/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service service.AdminService
	log     *logger.Logger
}

func NewAdminHandler(svc service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		log:     log,
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/admin/signup", h.Signup)
	router.POST("/api/v1/admin/signin", h.Signin)
}

func (h *AdminHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AdminSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteCreated(w, resp)
}

func (h *AdminHandler) Signin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	resp, err := h.service.Signin(r.Context(), &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, resp)
}
