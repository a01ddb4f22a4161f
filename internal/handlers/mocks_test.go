package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/friendfinder/backend/internal/models"
)

type mockUserService struct {
	CreateFunc         func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	UpdateLocationFunc func(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*models.User, error)
	SearchByEmailFunc  func(ctx context.Context, pattern string, excludeUserID uuid.UUID) ([]models.PublicUser, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*models.User, error) {
	if m.UpdateLocationFunc != nil {
		return m.UpdateLocationFunc(ctx, userID, latitude, longitude)
	}
	return nil, nil
}

func (m *mockUserService) SearchByEmail(ctx context.Context, pattern string, excludeUserID uuid.UUID) ([]models.PublicUser, error) {
	if m.SearchByEmailFunc != nil {
		return m.SearchByEmailFunc(ctx, pattern, excludeUserID)
	}
	return []models.PublicUser{}, nil
}

type mockAuthService struct {
	HashPasswordFunc    func(password string) (string, error)
	VerifyPasswordFunc  func(hash, password string) bool
	AuthenticateFunc    func(ctx context.Context, email, password string) (*models.User, error)
	CreateSessionFunc   func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateSessionFunc func(ctx context.Context, token string) (*models.User, error)
	DeleteSessionFunc   func(ctx context.Context, token string) error
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed", nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return false
}

func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, userID)
	}
	return "token", nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockAuthService) DeleteSession(ctx context.Context, token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, token)
	}
	return nil
}

type mockFriendService struct {
	SendRequestFunc         func(ctx context.Context, sender *models.User, receiverEmail string) (*models.FriendRequestWithUsers, error)
	ListPendingRequestsFunc func(ctx context.Context, userID uuid.UUID) ([]models.FriendRequestWithUsers, error)
	RespondToRequestFunc    func(ctx context.Context, requestID, responderID uuid.UUID, action models.RespondAction) (*models.FriendRequestWithUsers, error)
	RemoveFriendFunc        func(ctx context.Context, userID, friendID uuid.UUID) error
	DissolveFunc            func(ctx context.Context, a, b uuid.UUID) error
	AreFriendsFunc          func(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriendsFunc         func(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	ListFriendLocationsFunc func(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, sender *models.User, receiverEmail string) (*models.FriendRequestWithUsers, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, sender, receiverEmail)
	}
	return nil, nil
}

func (m *mockFriendService) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequestWithUsers, error) {
	if m.ListPendingRequestsFunc != nil {
		return m.ListPendingRequestsFunc(ctx, userID)
	}
	return []models.FriendRequestWithUsers{}, nil
}

func (m *mockFriendService) RespondToRequest(ctx context.Context, requestID, responderID uuid.UUID, action models.RespondAction) (*models.FriendRequestWithUsers, error) {
	if m.RespondToRequestFunc != nil {
		return m.RespondToRequestFunc(ctx, requestID, responderID, action)
	}
	return nil, nil
}

func (m *mockFriendService) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	if m.RemoveFriendFunc != nil {
		return m.RemoveFriendFunc(ctx, userID, friendID)
	}
	return nil
}

func (m *mockFriendService) Dissolve(ctx context.Context, a, b uuid.UUID) error {
	if m.DissolveFunc != nil {
		return m.DissolveFunc(ctx, a, b)
	}
	return nil
}

func (m *mockFriendService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if m.AreFriendsFunc != nil {
		return m.AreFriendsFunc(ctx, a, b)
	}
	return false, nil
}

func (m *mockFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return []models.Friend{}, nil
}

func (m *mockFriendService) ListFriendLocations(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	if m.ListFriendLocationsFunc != nil {
		return m.ListFriendLocationsFunc(ctx, userID)
	}
	return []models.Friend{}, nil
}
