package payment

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (pr *PaymentRoutesManager) HandleEdit(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	view, err := pr.paymentService.Edit(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to load payment details", pr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}

// HandleProceed keeps the submitted details as a draft and points the client at the confirmation step
func (pr *PaymentRoutesManager) HandleProceed(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	form, err := lib.DecodeBody[structs.PaymentForm](r)
	if err != nil {
		pr.logger.Debug("Failed to decode payment form", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your payment details and try again"), gecho.Send())
		return
	}

	if err := pr.paymentService.Proceed(r.Context(), claims.Sub, form); err != nil {
		handling.HandleError(err, "Failed to keep payment details", pr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Please confirm your payment details"),
		gecho.WithData(map[string]string{"redirect": "/payment/confirm"}),
		gecho.Send(),
	)
}

func (pr *PaymentRoutesManager) HandleReview(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	draft, err := pr.paymentService.Review(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to load payment details", pr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(draft),
		gecho.Send(),
	)
}

func (pr *PaymentRoutesManager) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	profile, err := pr.paymentService.Confirm(r.Context(), claims.Sub, claims.Email)
	if err != nil {
		handling.HandleError(err, "Failed to save payment details", pr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Payment details saved"),
		gecho.WithData(profile),
		gecho.Send(),
	)
}
