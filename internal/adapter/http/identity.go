package httpadapter

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
)

// Identity headers set by the auth gateway in front of the service.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type actorKey struct{}

// identify resolves the caller from the gateway headers. A missing or
// malformed identity yields the zero actor and the use cases answer
// unauthenticated.
func identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var actor domain.Actor
		if id, err := uuid.Parse(r.Header.Get(HeaderUserID)); err == nil {
			actor.UserID = id
			actor.Role = domain.Role(r.Header.Get(HeaderUserRole))
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(domain.Actor)
	return actor
}
