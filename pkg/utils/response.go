package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/everkind/backend/internal/model/chat"
)

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// RespondDetail 发送 {"detail": message} 形式的错误响应
func RespondDetail(w http.ResponseWriter, status int, detail string) {
	RespondJSON(w, status, map[string]string{"detail": detail})
}

// RespondValidation 发送 422 字段级校验错误
func RespondValidation(w http.ResponseWriter, errs []chat.FieldError) {
	RespondJSON(w, http.StatusUnprocessableEntity, map[string][]chat.FieldError{"detail": errs})
}

// RespondInternalError 发送通用 500 错误，不包含内部细节
func RespondInternalError(w http.ResponseWriter) {
	RespondJSON(w, http.StatusInternalServerError, chat.ErrorResponse{
		Error:     "Internal Server Error",
		Detail:    "An unexpected error occurred. Please try again later.",
		Timestamp: time.Now().UTC(),
	})
}
