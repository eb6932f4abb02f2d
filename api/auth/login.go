package auth

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleLogin sets the access cookie and rotates the csrf token for the new session.
func (ar *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	user, err := ar.authService.Login(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to log in right now", ar.logger, w)
		return
	}

	token, claims, err := ar.authService.GenerateAccessToken(user)
	if err != nil {
		handling.HandleError(err, "Unable to log in right now", ar.logger, w)
		return
	}
	lib.SetCookie(lib.AccessCookieName, token, claims.Exp, w)

	csrf, err := lib.IssueCSRF(w)
	if err != nil {
		handling.HandleError(err, "Unable to log in right now", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Logged in"),
		gecho.WithData(map[string]any{"user": user, "csrf_token": csrf}),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	user, err := ar.authService.GetUserByID(r.Context(), claims.Sub)
	if lib.IsNotFound(err) {
		// account removed after the token was issued
		gecho.Unauthorized(w, gecho.WithMessage("Not logged in"), gecho.Send())
		return
	}
	if err != nil {
		handling.HandleError(err, "Failed to load user", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}
