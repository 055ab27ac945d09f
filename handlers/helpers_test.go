package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", errors.New("project not found"), http.StatusNotFound},
		{"duplicate", errors.New("project with the same name already exists"), http.StatusConflict},
		{"forbidden removal", errors.New("cannot remove member assigned to an in-progress task"), http.StatusForbidden},
		{"sender only", errors.New("only the sender can edit a message"), http.StatusForbidden},
		{"validation", errors.New("message content is required"), http.StatusBadRequest},
		{"expired token", errors.New("invalid or expired reset token"), http.StatusBadRequest},
		{"pending invitation", errors.New("invitation already pending for this user"), http.StatusBadRequest},
		{"unknown", errors.New("mongo: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
