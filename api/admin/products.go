package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListProducts returns the admin overview with the editor's open product
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	view, err := ar.productService.List(r.Context(), editor(r))
	if err != nil {
		handling.HandleError(err, "Failed to retrieve products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, err := ar.productService.CreateDraft(r.Context(), editor(r))
	if err != nil {
		handling.HandleError(err, "Failed to create product", ar.logger, w)
		return
	}

	gecho.Created(w,
		gecho.WithMessage("Draft product created"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	product, images, err := ar.productService.StartEdit(r.Context(), editor(r), id)
	if err != nil {
		handling.HandleError(err, "Failed to open product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
			"images":  images,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	form, err := handling.DecodeRequest[structs.ProductForm](r)
	if err != nil {
		handling.BadInput(err, ar.logger, w)
		return
	}

	product, err := ar.productService.Update(r.Context(), id, form)
	if err != nil {
		handling.HandleError(err, "Failed to update product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	product, err := ar.productService.TogglePublish(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to change publish state", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Publish state changed"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) SetCurrentProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	product, err := ar.productService.SetCurrent(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to set current product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Current product set"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.HandleError(err, "", ar.logger, w)
		return
	}

	if err := ar.productService.DeleteProduct(r.Context(), editor(r), id); err != nil {
		handling.HandleError(err, "Failed to delete product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product deleted"),
		gecho.Send(),
	)
}
