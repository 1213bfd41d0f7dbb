package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/sirupsen/logrus"
)

// единый error envelope для всех эндпоинтов
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// responder пишет ответы и конвертирует ошибки в envelope.
// Это единственное место, где типизированные ошибки встречаются с HTTP
type responder struct {
	log *logrus.Logger
	dev bool // в development режиме внутренние ошибки не скрываются
}

func (rp *responder) JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			rp.log.WithError(err).Error("failed to encode response")
		}
	}
}

func (rp *responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)

	entry := rp.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": appErr.Status,
		"code":   appErr.Code,
	})
	// 5xx - ошибки сервера, 4xx - ошибки клиента
	if appErr.Status >= 500 {
		entry.WithError(err).Error("request failed")
	} else {
		entry.Warn(appErr.Message)
	}

	message := appErr.Message
	if appErr.Code == apperr.CodeInternal && rp.dev && appErr.Err != nil {
		message = appErr.Err.Error()
	}

	rp.JSON(w, appErr.Status, errorEnvelope{
		Success: false,
		Error: errorBody{
			StatusCode: appErr.Status,
			Message:    message,
			Code:       string(appErr.Code),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Path:       r.URL.Path,
		},
	})
}

// decodeJSON читает тело запроса, отвергая неизвестные поля
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("malformed request body: %v", err)
	}
	return nil
}
