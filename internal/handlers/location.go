package handlers

import (
	"net/http"

	"github.com/friendfinder/backend/internal/models"
	"github.com/friendfinder/backend/internal/services"
)

type LocationHandler struct {
	userService   services.UserServiceInterface
	friendService services.FriendServiceInterface
}

func NewLocationHandler(userService services.UserServiceInterface, friendService services.FriendServiceInterface) *LocationHandler {
	return &LocationHandler{
		userService:   userService,
		friendService: friendService,
	}
}

// UpdateLocationRequest uses pointers so that a missing coordinate can be told
// apart from 0.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

var locationMessages = validationMessages{
	"latitude.required":  "Please provide latitude and longitude",
	"longitude.required": "Please provide latitude and longitude",
	"latitude":           "Invalid coordinates",
	"longitude":          "Invalid coordinates",
}

type locationData struct {
	Location models.Location `json:"location"`
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateRequest(req, locationMessages); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.userService.UpdateLocation(r.Context(), user.ID, *req.Latitude, *req.Longitude)
	if err != nil {
		writeServiceError(w, r, "updating location", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Location updated successfully", locationData{Location: updated.Location()})
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	current, err := h.userService.GetByID(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, "getting location", err)
		return
	}

	writeSuccess(w, http.StatusOK, "", locationData{Location: current.Location()})
}

func (h *LocationHandler) Friends(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	friends, err := h.friendService.ListFriendLocations(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, "listing friend locations", err)
		return
	}

	writeSuccess(w, http.StatusOK, "", friendsData{Friends: friends})
}
