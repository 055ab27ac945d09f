package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/middleware"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

// caller resolves the authenticated user's id from the request context.
// A false return means the response has already been written.
func caller(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, *utils.Claims, bool) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, nil, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid caller identity")
		return primitive.NilObjectID, nil, false
	}

	return id, claims, true
}

// writeServiceError maps a service error to a status code by its message,
// the same string families every service in this codebase produces.
func writeServiceError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		utils.WriteError(w, http.StatusNotFound, msg)
	case strings.Contains(msg, "already exists"):
		utils.WriteError(w, http.StatusConflict, msg)
	case strings.Contains(msg, "cannot remove member"),
		strings.Contains(msg, "cannot delete account"),
		strings.Contains(msg, "only the sender"),
		strings.Contains(msg, "only the recipient"),
		strings.Contains(msg, "not a participant"):
		utils.WriteError(w, http.StatusForbidden, msg)
	case strings.Contains(msg, "required"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "expired"),
		strings.Contains(msg, "already"),
		strings.Contains(msg, "do not match"),
		strings.Contains(msg, "incorrect"),
		strings.Contains(msg, "must "),
		strings.Contains(msg, "too common"):
		utils.WriteError(w, http.StatusBadRequest, msg)
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
