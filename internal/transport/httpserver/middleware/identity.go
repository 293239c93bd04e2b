package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	fridgedomain "fridge-app-go/internal/domain/fridge"
	"fridge-app-go/pkg/logger"
)

type contextKey int

const (
	userKey contextKey = iota
)

type CurrentUserProvider interface {
	GetCurrentUser(ctx context.Context) (*fridgedomain.User, error)
}

type CurrentUser struct {
	users CurrentUserProvider
	log   logger.Logger
}

func NewCurrentUser(users CurrentUserProvider, log logger.Logger) *CurrentUser {
	return &CurrentUser{users: users, log: log}
}

// Middleware resolves the device's current user and rejects the request
// when there is none.
func (c *CurrentUser) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := c.users.GetCurrentUser(r.Context())
		if err != nil {
			if errors.Is(err, fridgedomain.ErrNoCurrentUser) {
				c.log.BusinessError("identity: no current user", err, "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "no_current_user", "no current user")
				return
			}
			c.log.InternalError("identity: resolve current user failed", err, "path", r.URL.Path)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
	})
}

func WithUser(ctx context.Context, user fridgedomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (fridgedomain.User, bool) {
	user, ok := ctx.Value(userKey).(fridgedomain.User)
	if !ok || user.ID <= 0 {
		return fridgedomain.User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
