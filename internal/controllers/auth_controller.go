package controllers

import (
	"net/http"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/services"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type AuthController struct {
	userService *services.UserService
}

func NewAuthController(us *services.UserService) *AuthController {
	return &AuthController{userService: us}
}

// POST /api/v1/auth/signup
func (c *AuthController) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.userService.Signup(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// POST /api/v1/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.userService.Login(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/auth/me
func (c *AuthController) MeHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	user, err := c.userService.GetByID(r.Context(), actor.ID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
