package handling

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs/tables"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func TestHandleErrorStatus(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", lib.NewValidationError("title", "is required"), http.StatusBadRequest},
		{"not found", fmt.Errorf("load: %w", lib.ErrNotFound), http.StatusNotFound},
		{"archived", tables.ErrArchivedProduct, http.StatusConflict},
		{"conflict", lib.ErrConflict, http.StatusConflict},
		{"purchase closed", services.ErrPurchaseClosed, http.StatusForbidden},
		{"no draft", services.ErrNoDraft, http.StatusConflict},
		{"credentials", lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(tt.err, "Something went wrong", logger, rec)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleErrorValidationBody(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(lib.NewValidationError("last4", "must contain digits only"), "", gecho.NewDefaultLogger(), rec)

	if !bytes.Contains(rec.Body.Bytes(), []byte("last4")) {
		t.Errorf("field errors missing from body: %s", rec.Body.String())
	}
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	r := chi.NewRouter()

	var got uuid.UUID
	var gotErr error
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = URLParamUUID(r, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+id.String(), nil))
	if gotErr != nil || got != id {
		t.Errorf("URLParamUUID() = %s, %v", got, gotErr)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/nope", nil))
	if !errors.Is(gotErr, lib.ErrNotFound) {
		t.Errorf("expected ErrNotFound for malformed id, got %v", gotErr)
	}
}

func TestUploads(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Spring Blend")
	for _, name := range []string{"a.png", "b.png"} {
		part, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write([]byte("data-" + name))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if err := ParseMultipart(req); err != nil {
		t.Fatalf("ParseMultipart: %v", err)
	}

	uploads, err := Uploads(req, "images")
	if err != nil {
		t.Fatalf("Uploads: %v", err)
	}
	if len(uploads) != 2 || uploads[1].Name != "b.png" || string(uploads[1].Data) != "data-b.png" {
		t.Errorf("unexpected uploads: %+v", uploads)
	}

	single, err := Upload(req, "portrait")
	if err != nil || single != nil {
		t.Errorf("missing field should yield nil, got %+v, %v", single, err)
	}
	if req.MultipartForm.Value["title"][0] != "Spring Blend" {
		t.Error("form value lost")
	}
}

func TestParseMultipartAcceptsURLEncoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("title=Blend"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := ParseMultipart(req); err != nil {
		t.Fatalf("ParseMultipart: %v", err)
	}
	if req.PostForm.Get("title") != "Blend" {
		t.Errorf("title = %q", req.PostForm.Get("title"))
	}
	if uploads, _ := Uploads(req, "images"); len(uploads) != 0 {
		t.Error("urlencoded body has no files")
	}
}

type decodeTarget struct {
	Title string   `json:"title" schema:"title"`
	Specs []string `json:"specs" schema:"specs"`
}

func TestDecodeRequest(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"title":"Blend","specs":["a","b"]}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		got, err := DecodeRequest[decodeTarget](req)
		if err != nil {
			t.Fatalf("DecodeRequest: %v", err)
		}
		if got.Title != "Blend" || len(got.Specs) != 2 {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString("title=Blend&specs=a&specs=b&unknown=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		got, err := DecodeRequest[decodeTarget](req)
		if err != nil {
			t.Fatalf("DecodeRequest: %v", err)
		}
		if got.Title != "Blend" || len(got.Specs) != 2 || got.Specs[1] != "b" {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"title":`))
		req.Header.Set("Content-Type", "application/json")

		if _, err := DecodeRequest[decodeTarget](req); err == nil {
			t.Fatal("expected an error")
		}

		rec := httptest.NewRecorder()
		BadInput(errors.New("unexpected EOF"), gecho.NewDefaultLogger(), rec)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
