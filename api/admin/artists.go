package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func (ar *AdminRoutesManager) ListArtists(w http.ResponseWriter, r *http.Request) {
	view, err := ar.artistService.List(r.Context(), editor(r))
	if err != nil {
		handling.HandleError(err, "Failed to retrieve artists", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}

// NewArtistEdit resets the editor's form to a blank artist
func (ar *AdminRoutesManager) NewArtistEdit(w http.ResponseWriter, r *http.Request) {
	state, err := ar.artistService.NewEdit(r.Context(), editor(r))
	if err != nil {
		handling.HandleError(err, "Failed to reset artist form", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(state),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) EditArtist(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	state, err := ar.artistService.StartEdit(r.Context(), editor(r), id)
	if err != nil {
		handling.HandleError(err, "Failed to open artist", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(state),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateArtist(w http.ResponseWriter, r *http.Request) {
	ar.saveArtist(w, r, nil)
}

func (ar *AdminRoutesManager) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}
	ar.saveArtist(w, r, &id)
}

// saveArtist accepts the artist fields plus an optional "portrait" file
func (ar *AdminRoutesManager) saveArtist(w http.ResponseWriter, r *http.Request, id *uuid.UUID) {
	form, err := handling.DecodeRequest[structs.ArtistForm](r)
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	portrait, err := handling.Upload(r, "portrait")
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	artist, err := ar.artistService.Save(r.Context(), editor(r), id, form, portrait)
	if err != nil {
		handling.HandleError(err, "Failed to save artist", ar.logger, w)
		return
	}

	if id == nil {
		gecho.Created(w,
			gecho.WithMessage("Artist created"),
			gecho.WithData(artist),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Artist updated"),
		gecho.WithData(artist),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UploadPortrait(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	if err := handling.ParseMultipart(r); err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	portrait, err := handling.Upload(r, "portrait")
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}
	if portrait == nil {
		gecho.BadRequest(w, gecho.WithMessage("Please choose a portrait image"), gecho.Send())
		return
	}

	artist, err := ar.artistService.UploadPortrait(r.Context(), id, *portrait)
	if err != nil {
		handling.HandleError(err, "Failed to upload portrait", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Portrait uploaded"),
		gecho.WithData(artist),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) ToggleArtistVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	artist, err := ar.artistService.ToggleVisible(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to change visibility", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Visibility changed"),
		gecho.WithData(artist),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	if err := ar.artistService.DeleteArtist(r.Context(), editor(r), id); err != nil {
		handling.HandleError(err, "Failed to delete artist", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Artist deleted"),
		gecho.Send(),
	)
}
