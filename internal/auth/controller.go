package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", c.Login)
	r.Post("/auth/logout", c.Logout)
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
		return
	}

	token, err := c.service.Login(req.Username, req.Password)
	if err != nil {
		c.logger.Warn("login rejected", zap.String("username", req.Username))
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	c.writeJSON(w, http.StatusOK, LoginResponse{Token: token, Username: req.Username})
}

func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token != "" && token != authHeader {
		c.service.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
