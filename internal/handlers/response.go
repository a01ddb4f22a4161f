package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/friendfinder/backend/internal/logging"
	"github.com/friendfinder/backend/internal/services"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, APIResponse{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Message: message})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, action string, err error) {
	logging.Error(action, map[string]interface{}{
		"error":  err.Error(),
		"method": r.Method,
		"path":   r.URL.Path,
	})
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrCannotFriendSelf, http.StatusBadRequest, "Cannot send friend request to yourself"},
	{services.ErrAlreadyFriends, http.StatusBadRequest, "Already friends with this user"},
	{services.ErrDuplicateRequest, http.StatusBadRequest, "Friend request already exists"},
	{services.ErrInvalidAction, http.StatusBadRequest, "Action must be either accept or deny"},
	{services.ErrNotFriend, http.StatusBadRequest, "User is not in your friends list"},
	{services.ErrInvalidCoordinates, http.StatusBadRequest, "Invalid coordinates"},
	{services.ErrEmailAlreadyExists, http.StatusBadRequest, "Email already registered"},
	{services.ErrPasswordTooLong, http.StatusBadRequest, "Password is too long"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrFriendRequestNotFound, http.StatusNotFound, "Friend request not found"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
}

// writeServiceError maps a domain error to its status and message. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			writeError(w, se.status, se.message)
			return
		}
	}
	writeInternalError(w, r, action, err)
}
