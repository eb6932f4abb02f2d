package auth

import (
	"net/http"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleCSRF issues the token that every later POST, PUT and DELETE must echo.
func (ar *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.IssueCSRF(w)
	if err != nil {
		ar.logger.Error("Failed to issue CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to generate CSRF token"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"csrf_token": token,
			"header":     lib.CSRFHeaderName,
			"expires_in": int(lib.CSRFTokenTTL.Seconds()),
		}),
		gecho.Send(),
	)
}
