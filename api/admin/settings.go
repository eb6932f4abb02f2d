package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) GetSettings(w http.ResponseWriter, r *http.Request) {
	view, err := ar.settings(r)
	if err != nil {
		handling.HandleError(err, "Failed to load settings", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}

// SetPurchaseCompleted closes or reopens this week's purchase
func (ar *AdminRoutesManager) SetPurchaseCompleted(w http.ResponseWriter, r *http.Request) {
	body, err := lib.DecodeBody[structs.PurchaseCompletedRequest](r)
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	if err := ar.settingService.SetPurchaseCompleted(r.Context(), body.Completed); err != nil {
		handling.HandleError(err, "Failed to save settings", ar.logger, w)
		return
	}

	ar.logger.Info("Purchase completed flag changed",
		gecho.Field("completed", body.Completed),
		gecho.Field("user_id", editor(r)))

	view, err := ar.settings(r)
	if err != nil {
		handling.HandleError(err, "Failed to load settings", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Settings saved"),
		gecho.WithData(view),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) settings(r *http.Request) (*structs.SettingsView, error) {
	currentID, err := ar.settingService.CurrentProductID(r.Context())
	if err != nil {
		return nil, err
	}
	completed, err := ar.settingService.PurchaseCompleted(r.Context(), false)
	if err != nil {
		return nil, err
	}
	return &structs.SettingsView{CurrentProductID: currentID, PurchaseCompleted: completed}, nil
}
