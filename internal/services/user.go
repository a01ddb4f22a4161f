package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/friendfinder/backend/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

const userColumns = `id, email, password_hash, latitude, longitude, location_updated_at, created_at, updated_at`

// publicUserColumns is the projection served to other users; it never includes
// the password hash. Callers prefix it with a table alias where needed.
const publicUserColumns = `id, email, latitude, longitude, location_updated_at, created_at`

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail trims and lower-cases an address. Emails are stored normalised,
// so lookups compare on the normalised form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Latitude, &user.Longitude,
		&user.LocationUpdatedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanPublicUser(row Row) (models.PublicUser, error) {
	var u models.PublicUser
	err := row.Scan(&u.ID, &u.Email, &u.Location.Latitude, &u.Location.Longitude,
		&u.Location.LastUpdated, &u.CreatedAt)
	return u, err
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	email := NormalizeEmail(params.Email)

	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	user, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING `+userColumns,
		email, params.PasswordHash,
	))
	if isUniqueViolation(err) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		NormalizeEmail(email),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return user, nil
}

// ValidCoordinates reports whether lat/lon fall inside WGS84 bounds.
func ValidCoordinates(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}

// UpdateLocation overwrites the user's coordinates and stamps the update time.
func (s *UserService) UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*models.User, error) {
	if !ValidCoordinates(latitude, longitude) {
		return nil, ErrInvalidCoordinates
	}

	user, err := scanUser(s.db.QueryRow(ctx,
		`UPDATE users
		 SET latitude = $1, longitude = $2, location_updated_at = NOW(), updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+userColumns,
		latitude, longitude, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating location: %w", err)
	}

	return user, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByEmail finds users whose email contains pattern, case-insensitively.
// The caller is never part of the result.
func (s *UserService) SearchByEmail(ctx context.Context, pattern string, excludeUserID uuid.UUID) ([]models.PublicUser, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return []models.PublicUser{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+publicUserColumns+`
		 FROM users
		 WHERE id != $1
		   AND email ILIKE $2 ESCAPE '\'
		 ORDER BY email`,
		excludeUserID, "%"+likeEscaper.Replace(pattern)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	results := []models.PublicUser{}
	for rows.Next() {
		u, err := scanPublicUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return results, nil
}
