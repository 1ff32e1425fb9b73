package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/collection"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/response"
	"github.com/shashiranjanraj/tailorcraft/pkg/storage"
)

const maxPhotoBytes = 8 << 20 // 8 MB

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

type PhotoController struct {
	service *services.CustomerService
}

func NewPhotoController(service *services.CustomerService) *PhotoController {
	return &PhotoController{service: service}
}

// Upload stores a garment photo for the customer and records its key.
// Expects multipart/form-data with a "photo" field.
func (c *PhotoController) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	customerID := chi.URLParam(r, "id")

	// Ownership check before touching the disk.
	if _, err := c.service.Get(r.Context(), id, customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load customer")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExtensions[ext] {
		response.ValidationError(w, map[string]string{
			"photo": "must be a jpg, jpeg, png or webp image",
		})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Could not read photo")
		return
	}

	key := fmt.Sprintf("photos/%s/%d%s", customerID, time.Now().UnixNano(), ext)
	if err := storage.Put(key, content); err != nil {
		logger.WithCtx(r.Context()).Error("photo store failed", "key", key, "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not store photo")
		return
	}

	if err := c.service.AddPhotoKey(r.Context(), id, customerID, key); err != nil {
		storage.Delete(key) //nolint:errcheck
		logger.WithCtx(r.Context()).Error("photo record failed", "key", key, "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not record photo")
		return
	}

	response.Created(w, map[string]interface{}{
		"key": key,
		"url": storage.URL(key),
	})
}

// List returns the customer's photo URLs.
func (c *PhotoController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	customer, err := c.service.Get(r.Context(), id, chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load customer")
		return
	}

	urls := collection.Map(customer.PhotoKeys, func(key string) string {
		return storage.URL(key)
	})
	response.Success(w, map[string]interface{}{"photos": urls})
}
