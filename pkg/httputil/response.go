// Package httputil provides shared HTTP helpers for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Content types written by the server.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// AllowAnyOrigin sets the wildcard CORS header.
func AllowAnyOrigin(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// WriteJSON writes a compact JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, "")
}

// WriteJSONIndent writes a JSON response indented with two spaces.
func WriteJSONIndent(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, "  ")
}

func writeJSON(w http.ResponseWriter, status int, data any, indent string) {
	var (
		body []byte
		err  error
	)
	if indent != "" {
		body, err = json.MarshalIndent(data, "", indent)
	} else {
		body, err = json.Marshal(data)
	}
	if err != nil {
		WriteText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteText writes a plain-text response.
func WriteText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", ContentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// WriteNotFound writes the plain-text 404 response.
func WriteNotFound(w http.ResponseWriter) {
	WriteText(w, http.StatusNotFound, "Not Found")
}

// WriteBadRequest writes a plain-text 400 response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteText(w, http.StatusBadRequest, message)
}

// NotFoundHandler answers every request with WriteNotFound.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w)
	})
}
