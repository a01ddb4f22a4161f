package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/friendfinder/backend/internal/models"
)

// FriendshipStore owns the symmetric friend relation. Every friendship is
// stored as two directed rows that are written and removed together.
type FriendshipStore struct {
	db DB
}

func NewFriendshipStore(db DB) *FriendshipStore {
	return &FriendshipStore{db: db}
}

const friendColumns = `u.id, u.email, u.latitude, u.longitude, u.location_updated_at, u.created_at, f.created_at`

func (s *FriendshipStore) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return areFriends(ctx, s.db, a, b)
}

func (s *FriendshipStore) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return s.listFriends(ctx,
		`SELECT `+friendColumns+`
		 FROM friends f
		 JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = $1
		 ORDER BY u.email`,
		userID,
	)
}

// ListFriendLocations returns only the friends whose location is known, in
// the same order as ListFriends.
func (s *FriendshipStore) ListFriendLocations(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	friends, err := s.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	located := friends[:0]
	for _, f := range friends {
		if f.Location.HasCoordinates() {
			located = append(located, f)
		}
	}
	return located, nil
}

func (s *FriendshipStore) listFriends(ctx context.Context, query string, userID uuid.UUID) ([]models.Friend, error) {
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Email, &f.Location.Latitude, &f.Location.Longitude,
			&f.Location.LastUpdated, &f.CreatedAt, &f.FriendsSince); err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating friends: %w", err)
	}

	return friends, nil
}

// AddEdge makes a and b friends. Adding an existing friendship is a no-op.
func (s *FriendshipStore) AddEdge(ctx context.Context, a, b uuid.UUID) error {
	if a == b {
		return ErrCannotFriendSelf
	}
	return withTx(ctx, s.db, func(tx Tx) error {
		return addEdge(ctx, tx, a, b)
	})
}

// RemoveEdge deletes both directions of the friendship. Removing a missing
// friendship is a no-op.
func (s *FriendshipStore) RemoveEdge(ctx context.Context, a, b uuid.UUID) error {
	return withTx(ctx, s.db, func(tx Tx) error {
		return removeEdge(ctx, tx, a, b)
	})
}

func areFriends(ctx context.Context, q Querier, a, b uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2)`,
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return exists, nil
}

func addEdge(ctx context.Context, q Querier, a, b uuid.UUID) error {
	_, err := q.Exec(ctx,
		`INSERT INTO friends (user_id, friend_id)
		 VALUES ($1, $2), ($2, $1)
		 ON CONFLICT DO NOTHING`,
		a, b,
	)
	if err != nil {
		return fmt.Errorf("adding friendship: %w", err)
	}
	return nil
}

func removeEdge(ctx context.Context, q Querier, a, b uuid.UUID) error {
	_, err := q.Exec(ctx,
		`DELETE FROM friends
		 WHERE (user_id = $1 AND friend_id = $2)
		    OR (user_id = $2 AND friend_id = $1)`,
		a, b,
	)
	if err != nil {
		return fmt.Errorf("removing friendship: %w", err)
	}
	return nil
}
