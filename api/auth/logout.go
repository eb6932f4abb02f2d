package auth

import (
	"net/http"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleLogout revokes the access token when one is present. Both cookies are cleared either way.
func (ar *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, err := lib.ExtractClaims(r, ar.authService.GetAccessTokenSecret()); err == nil {
		if err := ar.authService.Logout(r.Context(), claims); err != nil {
			ar.logger.Error("Failed to revoke access token", gecho.Field("user_id", claims.Sub), gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("Failed to logout"),
				gecho.Send(),
			)
			return
		}
	}

	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.CSRFCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out"),
		gecho.Send(),
	)
}
