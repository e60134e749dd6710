package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type contextKey string

const ContextKeyActor = contextKey("actor")

// AuthMiddleware validates the Bearer token and stashes the caller's
// identity in the request context. Tokens are HMAC-signed; anything
// else is rejected outright.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearer(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !tok.Valid {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, err,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, err,
				)
				return
			}

			actor, err := actorFromClaims(tok.Claims)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyActor, *actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errors.New("missing Authorization header")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed Authorization header")
	}
	return parts[1], nil
}

func actorFromClaims(claims jwt.Claims) (*dtos.Actor, error) {
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	idStr, _ := mc["id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("missing subject")
	}
	name, _ := mc["name"].(string)
	roleStr, _ := mc["role"].(string)
	role := models.RoleType(roleStr)
	if !role.Valid() {
		return nil, errors.New("unknown role")
	}
	return &dtos.Actor{ID: id, Name: name, Role: role}, nil
}

// ActorFromContext retrieves the identity placed by AuthMiddleware.
func ActorFromContext(ctx context.Context) (dtos.Actor, bool) {
	actor, ok := ctx.Value(ContextKeyActor).(dtos.Actor)
	return actor, ok
}

// RequireRoles short-circuits requests whose actor is outside the
// allowed set. Fine-grained checks (ownership, per-phase gating) stay
// in the service layer.
func RequireRoles(roles ...models.RoleType) func(http.Handler) http.Handler {
	allowed := map[models.RoleType]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil,
				)
				return
			}
			if !allowed[actor.Role] {
				utils.RespondErrorWithCode(
					w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient role", nil,
				)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
