package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// detail is the error response body shape: {"detail": "..."}.
type detail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] write response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

// writeInternalError logs the cause and returns a generic 500. Internal
// failures never leak their message to the client.
func writeInternalError(w http.ResponseWriter, err error) {
	log.Printf("[api] internal error: %v", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
