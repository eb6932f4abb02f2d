package handling

import (
	"errors"
	"net/http"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// HandleError answers with the status that matches err. Unknown errors are logged and become a 500 carrying msg.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	if ve, ok := lib.IsValidationError(err); ok {
		gecho.BadRequest(w,
			gecho.WithMessage("Please check the highlighted fields"),
			gecho.WithData(ve),
			gecho.Send(),
		)
		return
	}

	switch {
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("Not found"), gecho.Send())
	case errors.Is(err, tables.ErrArchivedProduct):
		gecho.Conflict(w, gecho.WithMessage("Archived products cannot be published or unpublished"), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("The change conflicts with existing data"), gecho.Send())
	case errors.Is(err, services.ErrPurchaseClosed):
		gecho.Forbidden(w,
			gecho.WithMessage("This week's purchase is already completed"),
			gecho.WithData(map[string]string{"redirect": "/"}),
			gecho.Send(),
		)
	case errors.Is(err, services.ErrNoDraft):
		gecho.Conflict(w,
			gecho.WithMessage("Please enter your payment details first"),
			gecho.WithData(map[string]string{"redirect": "/payment"}),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
	default:
		logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
		gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
	}
}
