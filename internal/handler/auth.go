package handler

import (
	"net/http"

	"leadhub/internal/apierror"
	"leadhub/internal/dto"
	"leadhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Agent login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Agents Handler ───────────────────────────────────────────────────────────

type AgentsHandler struct{ svc service.AuthService }

func NewAgentsHandler(svc service.AuthService) *AgentsHandler {
	return &AgentsHandler{svc: svc}
}

func (h *AgentsHandler) Create(c *gin.Context) {
	var req dto.CreateAgentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAgent(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AgentsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListAgents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list agents"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
