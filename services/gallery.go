package services

import (
	"storefront_server/structs"
	"storefront_server/structs/tables"
)

// ResolveGallery turns the first 10 image rows into the public gallery. Rows whose file is gone
// are dropped; when none survive, products/{id}/ and then products/ are scanned for image files instead.
func ResolveGallery(disk PublicDisk, product *tables.Product, rows []tables.ProductImage) []structs.GalleryImage {
	images := make([]structs.GalleryImage, 0, tables.MaxProductImages)

	if len(rows) > tables.MaxProductImages {
		rows = rows[:tables.MaxProductImages]
	}
	for _, row := range rows {
		if !disk.Exists(row.Path) {
			continue
		}

		id := row.ID
		alt := row.AltText
		if alt == "" {
			alt = product.Title
		}
		images = append(images, structs.GalleryImage{
			ID:       &id,
			Path:     row.Path,
			URL:      disk.URL(row.Path),
			AltText:  alt,
			Position: row.Position,
		})
	}

	if len(images) > 0 {
		return images
	}

	for _, dir := range []string{"products/" + product.ID.String(), "products"} {
		files := disk.ImageFiles(dir)
		if len(files) == 0 {
			continue
		}

		if len(files) > tables.MaxProductImages {
			files = files[:tables.MaxProductImages]
		}
		for i, f := range files {
			images = append(images, structs.GalleryImage{
				Path:     f,
				URL:      disk.URL(f),
				AltText:  product.Title,
				Position: i + 1,
			})
		}
		break
	}

	return images
}
