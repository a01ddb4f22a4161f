package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	LocationUpdatedAt *time.Time `json:"location_updated_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
}

// Location is the last known position of a user. Fields are pointers so an
// unknown location serialises as explicit nulls rather than being omitted.
type Location struct {
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	LastUpdated *time.Time `json:"last_updated"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// PublicUser is the projection of a user that is safe to show to other users.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Location() Location {
	return Location{
		Latitude:    u.Latitude,
		Longitude:   u.Longitude,
		LastUpdated: u.LocationUpdatedAt,
	}
}

// ToPublic strips the credential hash and nests the location.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Location:  u.Location(),
		CreatedAt: u.CreatedAt,
	}
}

type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
