package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/friendfinder/backend/internal/metrics"
	"github.com/friendfinder/backend/internal/models"
)

var (
	ErrCannotFriendSelf      = errors.New("cannot send friend request to yourself")
	ErrAlreadyFriends        = errors.New("already friends with this user")
	ErrDuplicateRequest      = errors.New("friend request already exists")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrInvalidAction         = errors.New("action must be either accept or deny")
	ErrNotFriend             = errors.New("user is not in your friends list")
)

// userLookup is the part of the user directory the request flow needs.
type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// FriendService drives friend requests through pending -> accepted|denied and
// keeps the friend relation consistent with accepted requests.
type FriendService struct {
	db          DB
	users       userLookup
	friendships *FriendshipStore
}

func NewFriendService(db DB, users userLookup, friendships *FriendshipStore) *FriendService {
	return &FriendService{db: db, users: users, friendships: friendships}
}

const requestColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

const requestWithUsersQuery = `SELECT fr.id, fr.sender_id, fr.receiver_id, fr.status, fr.created_at, fr.updated_at,
	       s.id, s.email, s.latitude, s.longitude, s.location_updated_at, s.created_at,
	       r.id, r.email, r.latitude, r.longitude, r.location_updated_at, r.created_at
	FROM friend_requests fr
	JOIN users s ON s.id = fr.sender_id
	JOIN users r ON r.id = fr.receiver_id`

func scanRequest(row Row) (*models.FriendRequest, error) {
	req := &models.FriendRequest{}
	err := row.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func scanRequestWithUsers(row Row) (models.FriendRequestWithUsers, error) {
	var fr models.FriendRequestWithUsers
	s, r := &fr.Sender, &fr.Receiver
	err := row.Scan(
		&fr.ID, &fr.SenderID, &fr.ReceiverID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
		&s.ID, &s.Email, &s.Location.Latitude, &s.Location.Longitude, &s.Location.LastUpdated, &s.CreatedAt,
		&r.ID, &r.Email, &r.Location.Latitude, &r.Location.Longitude, &r.Location.LastUpdated, &r.CreatedAt,
	)
	return fr, err
}

// SendRequest creates a pending request from sender to the user registered
// under receiverEmail. At most one request exists per unordered pair.
func (s *FriendService) SendRequest(ctx context.Context, sender *models.User, receiverEmail string) (*models.FriendRequestWithUsers, error) {
	email := NormalizeEmail(receiverEmail)
	if email == NormalizeEmail(sender.Email) {
		return nil, ErrCannotFriendSelf
	}

	receiver, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.ID {
		return nil, ErrCannotFriendSelf
	}

	friends, err := s.friendships.AreFriends(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE (sender_id = $1 AND receiver_id = $2)
			   OR (sender_id = $2 AND receiver_id = $1)
		)`,
		sender.ID, receiver.ID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking friend request existence: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	// The pair index settles concurrent senders: the loser inserts nothing.
	req, err := scanRequest(s.db.QueryRow(ctx,
		`INSERT INTO friend_requests (sender_id, receiver_id, status)
		 VALUES ($1, $2, 'pending')
		 ON CONFLICT DO NOTHING
		 RETURNING `+requestColumns,
		sender.ID, receiver.ID,
	))
	if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
		return nil, ErrDuplicateRequest
	}
	if err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}

	metrics.RecordFriendRequest(metrics.OutcomeSent)

	return &models.FriendRequestWithUsers{
		FriendRequest: *req,
		Sender:        sender.ToPublic(),
		Receiver:      receiver.ToPublic(),
	}, nil
}

// ListPendingRequests returns requests awaiting userID's answer, newest first.
func (s *FriendService) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequestWithUsers, error) {
	rows, err := s.db.Query(ctx,
		requestWithUsersQuery+`
		 WHERE fr.receiver_id = $1 AND fr.status = 'pending'
		 ORDER BY fr.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friend requests: %w", err)
	}
	defer rows.Close()

	requests := []models.FriendRequestWithUsers{}
	for rows.Next() {
		fr, err := scanRequestWithUsers(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning friend request: %w", err)
		}
		requests = append(requests, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating friend requests: %w", err)
	}

	return requests, nil
}

// RespondToRequest accepts or denies a pending request addressed to
// responderID. Accepting creates the friendship in the same transaction as
// the status change, so either both happen or neither does.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID, responderID uuid.UUID, action models.RespondAction) (*models.FriendRequestWithUsers, error) {
	if !action.Valid() {
		return nil, ErrInvalidAction
	}

	var result models.FriendRequestWithUsers
	err := withTx(ctx, s.db, func(tx Tx) error {
		req, err := scanRequest(tx.QueryRow(ctx,
			`SELECT `+requestColumns+`
			 FROM friend_requests
			 WHERE id = $1 AND receiver_id = $2 AND status = 'pending'
			 FOR UPDATE`,
			requestID, responderID,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFriendRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("loading friend request: %w", err)
		}

		if action == models.RespondActionAccept {
			if err := addEdge(ctx, tx, req.SenderID, req.ReceiverID); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE friend_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
			string(action.ResultingStatus()), req.ID,
		); err != nil {
			return fmt.Errorf("updating friend request: %w", err)
		}

		result, err = scanRequestWithUsers(tx.QueryRow(ctx,
			requestWithUsersQuery+` WHERE fr.id = $1`,
			req.ID,
		))
		if err != nil {
			return fmt.Errorf("loading updated friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if action == models.RespondActionAccept {
		metrics.RecordFriendRequest(metrics.OutcomeAccepted)
	} else {
		metrics.RecordFriendRequest(metrics.OutcomeDenied)
	}

	return &result, nil
}

// Dissolve removes the friendship between a and b together with any request
// between them, whatever its status, so either user may send a new request.
func (s *FriendService) Dissolve(ctx context.Context, a, b uuid.UUID) error {
	err := withTx(ctx, s.db, func(tx Tx) error {
		if err := removeEdge(ctx, tx, a, b); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM friend_requests
			 WHERE (sender_id = $1 AND receiver_id = $2)
			    OR (sender_id = $2 AND receiver_id = $1)`,
			a, b,
		); err != nil {
			return fmt.Errorf("deleting friend requests: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordFriendshipDissolved()
	return nil
}

// RemoveFriend ends an existing friendship on behalf of userID.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	friends, err := s.friendships.AreFriends(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !friends {
		return ErrNotFriend
	}
	return s.Dissolve(ctx, userID, friendID)
}

func (s *FriendService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.friendships.AreFriends(ctx, a, b)
}

func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return s.friendships.ListFriends(ctx, userID)
}

func (s *FriendService) ListFriendLocations(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return s.friendships.ListFriendLocations(ctx, userID)
}
