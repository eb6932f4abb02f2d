package handling

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"storefront_server/lib"
	"storefront_server/storage"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to temp files.
const multipartMemory = 8 << 20

// URLParamUUID parses a chi URL parameter as a uuid. Malformed ids read as not found.
func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, lib.ErrNotFound
	}
	return id, nil
}

// ParseMultipart reads a multipart body. A urlencoded body is accepted as well.
func ParseMultipart(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return lib.NewValidationError("body", fmt.Sprintf("must be at most %d KB", tooLarge.Limit>>10))
	}
	return err
}

// Uploads returns the files sent under field, read fully into memory. A missing field yields none.
func Uploads(r *http.Request, field string) ([]storage.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	uploads := make([]storage.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, storage.Upload{Name: fh.Filename, Data: data})
	}
	return uploads, nil
}

// Upload returns the single file sent under field, or nil.
func Upload(r *http.Request, field string) (*storage.Upload, error) {
	uploads, err := Uploads(r, field)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// DecodeRequest reads T from a JSON body, or from a multipart or urlencoded form.
// Validation is left to the services.
func DecodeRequest[T any](r *http.Request) (*T, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return lib.DecodeBody[T](r)
	}

	if err := ParseMultipart(r); err != nil {
		return nil, err
	}
	return lib.DecodeForm[T](r)
}

// BadInput answers a request whose body could not be decoded.
func BadInput(err error, logger *gecho.Logger, w http.ResponseWriter) {
	if _, ok := lib.IsValidationError(err); ok {
		HandleError(err, "", logger, w)
		return
	}
	logger.Debug("Failed to decode request", gecho.Field("error", err))
	gecho.BadRequest(w, gecho.WithMessage("The request could not be read"), gecho.Send())
}
