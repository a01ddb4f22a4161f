package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/friendfinder/backend/internal/models"
)

// UserServiceInterface defines the contract for user directory operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*models.User, error)
	SearchByEmail(ctx context.Context, pattern string, excludeUserID uuid.UUID) ([]models.PublicUser, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CreateSession(ctx context.Context, userID uuid.UUID) (token string, err error)
	ValidateSession(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// FriendServiceInterface defines the contract for friend requests and friendships.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, sender *models.User, receiverEmail string) (*models.FriendRequestWithUsers, error)
	ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequestWithUsers, error)
	RespondToRequest(ctx context.Context, requestID, responderID uuid.UUID, action models.RespondAction) (*models.FriendRequestWithUsers, error)
	RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error
	Dissolve(ctx context.Context, a, b uuid.UUID) error
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	ListFriendLocations(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
}

var (
	_ UserServiceInterface   = (*UserService)(nil)
	_ AuthServiceInterface   = (*AuthService)(nil)
	_ FriendServiceInterface = (*FriendService)(nil)
)
