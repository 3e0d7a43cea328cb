package api

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type apiListResponse[T any] struct {
	OK         bool  `json:"ok"`
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{OK: false, Message: msg})
}
