package handler

import (
	"encoding/json"
	"net/http"

	"drively/internal/users/service"
	apperrors "drively/pkg/errors"
	httputil "drively/pkg/http"
	"drively/pkg/logger"
	"drively/pkg/middleware"
	"drively/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewUserHandler(svc service.UserService, auth *middleware.Authenticator, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		auth:    auth,
		log:     log,
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users/signup", h.Signup)
	router.POST("/api/v1/users/signin", h.Signin)
	router.GET("/api/v1/users/me", h.auth.User(h.Me))
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.UserSignupRequest
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

func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), principal.ID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, user)
}
