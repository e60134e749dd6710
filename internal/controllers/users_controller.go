package controllers

import (
	"net/http"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/services"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// UsersController exposes admin account management.
type UsersController struct {
	userService *services.UserService
}

func NewUsersController(us *services.UserService) *UsersController {
	return &UsersController{userService: us}
}

// POST /api/v1/admin/users/search
func (c *UsersController) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.UserListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.userService.List(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/v1/admin/users/{id}
func (c *UsersController) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.userService.Update(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// DELETE /api/v1/admin/users/{id}
func (c *UsersController) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.userService.Delete(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}
