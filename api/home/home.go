package home

import (
	"net/http"
	"storefront_server/handling"

	"github.com/MonkyMars/gecho"
)

// HandleHome renders the current product, its gallery and the visible artists.
func (hr *HomeRoutesManager) HandleHome(w http.ResponseWriter, r *http.Request) {
	view, err := hr.homeService.Home(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to load the storefront", hr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}

func (hr *HomeRoutesManager) HandleShowArtist(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.NotFound(w, gecho.WithMessage("Artist not found"), gecho.Send())
		return
	}

	card, err := hr.artistService.Show(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to load artist", hr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(card),
		gecho.Send(),
	)
}
