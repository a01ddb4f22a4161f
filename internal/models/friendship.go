package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusDenied   FriendRequestStatus = "denied"
)

type RespondAction string

const (
	RespondActionAccept RespondAction = "accept"
	RespondActionDeny   RespondAction = "deny"
)

func (a RespondAction) Valid() bool {
	return a == RespondActionAccept || a == RespondActionDeny
}

// ResultingStatus is the status a pending request moves to for this action.
func (a RespondAction) ResultingStatus() FriendRequestStatus {
	if a == RespondActionAccept {
		return FriendRequestStatusAccepted
	}
	return FriendRequestStatusDenied
}

type FriendRequest struct {
	ID         uuid.UUID           `json:"id"`
	SenderID   uuid.UUID           `json:"sender_id"`
	ReceiverID uuid.UUID           `json:"receiver_id"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// FriendRequestWithUsers is a request joined with both parties' public profiles.
type FriendRequestWithUsers struct {
	FriendRequest
	Sender   PublicUser `json:"sender"`
	Receiver PublicUser `json:"receiver"`
}

// Friend is one side of a friendship as seen by the other user.
type Friend struct {
	PublicUser
	FriendsSince time.Time `json:"friends_since"`
}
