package middleware

import (
	"context"
	"errors"
	"net/http"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

var ErrRevokedToken = errors.New("revoked token")

// authenticate verifies the access cookie and rejects tokens revoked by logout.
func (mw *Middleware) authenticate(r *http.Request) (*structs.AuthClaims, error) {
	claims, err := lib.ExtractClaims(r, mw.authService.GetAccessTokenSecret())
	if err != nil {
		return nil, err
	}
	if mw.authService.IsRevoked(r.Context(), claims.Jti) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// UserAuthMiddleware admits any logged-in user and puts the claims in the request context.
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := mw.authenticate(r)
		if err != nil {
			if errors.Is(err, ErrRevokedToken) {
				mw.logger.Warn("Revoked access token used", gecho.Field("path", r.URL.Path))
			}
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// AdminAuthMiddleware admits admins only. It runs after UserAuthMiddleware.
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin {
			if ok {
				mw.logger.Warn("Admin route denied", gecho.Field("user_id", claims.Sub), gecho.Field("path", r.URL.Path))
			}
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok && claims != nil
}

func WithClaims(ctx context.Context, claims *structs.AuthClaims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}
