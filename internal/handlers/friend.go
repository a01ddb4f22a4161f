package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/friendfinder/backend/internal/models"
	"github.com/friendfinder/backend/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
	userService   services.UserServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface, userService services.UserServiceInterface) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		userService:   userService,
	}
}

type SendFriendRequestRequest struct {
	ReceiverEmail string `json:"receiverEmail" validate:"required,email"`
}

var sendRequestMessages = validationMessages{
	"receiverEmail.required": "Please provide receiver email",
	"receiverEmail":          "Invalid email address",
}

type RespondFriendRequestRequest struct {
	RequestID string `json:"requestId" validate:"required,uuid"`
	Action    string `json:"action" validate:"required,oneof=accept deny"`
}

var respondMessages = validationMessages{
	"requestId.required": "Please provide requestId and action",
	"action.required":    "Please provide requestId and action",
	"requestId":          "Invalid request ID",
	"action":             "Action must be either accept or deny",
}

type friendRequestData struct {
	FriendRequest *models.FriendRequestWithUsers `json:"friendRequest"`
}

type friendRequestsData struct {
	Requests []models.FriendRequestWithUsers `json:"requests"`
}

type friendsData struct {
	Friends []models.Friend `json:"friends"`
}

type usersData struct {
	Users []models.PublicUser `json:"users"`
}

func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("email"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Please provide email to search")
		return
	}

	users, err := h.userService.SearchByEmail(r.Context(), query, user.ID)
	if err != nil {
		writeInternalError(w, r, "searching users", err)
		return
	}

	writeSuccess(w, http.StatusOK, "", usersData{Users: users})
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SendFriendRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ReceiverEmail = strings.TrimSpace(req.ReceiverEmail)
	if msg := validateRequest(req, sendRequestMessages); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), user, req.ReceiverEmail)
	if err != nil {
		writeServiceError(w, r, "sending friend request", err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Friend request sent successfully", friendRequestData{FriendRequest: request})
}

func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	requests, err := h.friendService.ListPendingRequests(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, "listing friend requests", err)
		return
	}

	writeSuccess(w, http.StatusOK, "", friendRequestsData{Requests: requests})
}

func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req RespondFriendRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateRequest(req, respondMessages); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}
	action := models.RespondAction(req.Action)

	request, err := h.friendService.RespondToRequest(r.Context(), requestID, user.ID, action)
	if err != nil {
		writeServiceError(w, r, "responding to friend request", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Friend request "+string(action.ResultingStatus())+" successfully",
		friendRequestData{FriendRequest: request})
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, "listing friends", err)
		return
	}

	writeSuccess(w, http.StatusOK, "", friendsData{Friends: friends})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	raw := r.PathValue("friendId")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Please provide friendId")
		return
	}
	friendID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friend ID")
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), user.ID, friendID); err != nil {
		writeServiceError(w, r, "removing friend", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Friend removed successfully", nil)
}
