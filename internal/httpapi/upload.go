package httpapi

import (
	"net/http"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/upload"
)

type UploadHandler struct {
	*responder
	store *upload.LocalStore
}

// Image - POST /upload/image (multipart, поле "image")
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	// запас на multipart заголовки поверх лимита файла
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageSize+64*1024)

	if err := r.ParseMultipartForm(upload.MaxImageSize); err != nil {
		h.Error(w, r, apperr.Validation("image exceeds the %d byte limit", upload.MaxImageSize))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.Error(w, r, apperr.Validation("image file is required"))
		return
	}
	defer file.Close()

	result, err := h.store.Save(header.Filename, file, header.Size)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusCreated, result)
}
