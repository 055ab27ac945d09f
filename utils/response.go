package utils

import (
	"encoding/json"
	"net/http"
)

// WriteSuccess writes the standard response envelope with an optional
// resource payload keyed by name.
func WriteSuccess(w http.ResponseWriter, status int, message string, key string, resource interface{}) {
	body := map[string]interface{}{"success": true}
	if message != "" {
		body["message"] = message
	}
	if key != "" {
		body[key] = resource
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError writes a failure envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
