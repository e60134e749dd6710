package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/middleware"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

var validate = validator.New()

// requireActor pulls the authenticated identity out of the context.
// Routes behind AuthMiddleware always have one; a miss means the route
// is wired wrong, and the caller gets a 401 rather than a panic.
func requireActor(w http.ResponseWriter, r *http.Request) (dtos.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No identity in context", nil,
		)
	}
	return actor, ok
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation. Writes the error response itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil,
		)
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid "+name, nil,
		)
		return uuid.Nil, false
	}
	return id, true
}
