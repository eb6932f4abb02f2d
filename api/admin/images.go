package admin

import (
	"net/http"
	"storefront_server/api/health"
	"storefront_server/handling"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// AddImages stores the files sent under "images". Files past the gallery cap are skipped.
func (ar *AdminRoutesManager) AddImages(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	if err := handling.ParseMultipart(r); err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	uploads, err := handling.Uploads(r, "images")
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	accepted, err := ar.productService.AddImages(r.Context(), id, uploads)
	if err != nil {
		handling.HandleError(err, "Failed to upload images", ar.logger, w)
		return
	}
	health.ObserveUpload(accepted, len(uploads)-accepted)

	gecho.Success(w,
		gecho.WithMessage("Images uploaded"),
		gecho.WithData(map[string]int{
			"accepted": accepted,
			"ignored":  len(uploads) - accepted,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateImageAlt(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}
	imageID, err := handling.URLParamUUID(r, "imageID")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	body, err := handling.DecodeRequest[structs.ImageAltRequest](r)
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	if err := ar.productService.UpdateImageAlt(r.Context(), productID, imageID, body.AltText); err != nil {
		handling.HandleError(err, "Failed to update alt text", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Alt text updated"),
		gecho.Send(),
	)
}

// DeleteImage removes one image and renumbers the rest
func (ar *AdminRoutesManager) DeleteImage(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}
	imageID, err := handling.URLParamUUID(r, "imageID")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	if err := ar.productService.DeleteImage(r.Context(), productID, imageID); err != nil {
		handling.HandleError(err, "Failed to delete image", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Image deleted"),
		gecho.Send(),
	)
}
