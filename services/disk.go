package services

import (
	"fmt"
	"storefront_server/lib"
	"storefront_server/storage"
)

// PublicDisk is the part of the storage disk that read-side resolution needs.
type PublicDisk interface {
	Exists(path string) bool
	ImageFiles(dir string) []string
	URL(path string) string
}

// Disk adds the write side used by the admin managers.
type Disk interface {
	PublicDisk
	Delete(path string) error
	StoreImage(dir string, upload storage.Upload) (string, error)
}

// checkUploads rejects the whole batch when any file is oversized or not an image.
func checkUploads(field string, uploads []storage.Upload, maxSize int64) error {
	out := &lib.ValidationError{}
	for i, upload := range uploads {
		name := field
		if len(uploads) > 1 {
			name = fmt.Sprintf("%s.%d", field, i)
		}

		switch {
		case maxSize > 0 && int64(len(upload.Data)) > maxSize:
			out.Errors = append(out.Errors, lib.FieldError{
				Field:   name,
				Message: fmt.Sprintf("must be at most %d KB", maxSize>>10),
			})
		case !isImage(upload.Data):
			out.Errors = append(out.Errors, lib.FieldError{Field: name, Message: "must be an image"})
		}
	}

	if len(out.Errors) > 0 {
		return out
	}
	return nil
}

func isImage(data []byte) bool {
	_, err := storage.SniffImage(data)
	return err == nil
}
