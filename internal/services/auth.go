package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/friendfinder/backend/internal/models"
)

const (
	bcryptCost             = 12
	bcryptMaxPasswordBytes = 72
	defaultSessionDuration = 30 * 24 * time.Hour // 30 days
	sessionKeyPrefix       = "session:"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummyHash spends the same bcrypt effort as a real check so unknown
// emails are not distinguishable by response time.
func compareDummyHash(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("friendfinder-timing"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// AuthService issues signed bearer tokens. Each token carries a session id
// (jti) whose hash is stored in Redis, or in Postgres when Redis is down, so
// tokens can be revoked before they age out.
type AuthService struct {
	db              DB
	redis           RedisConn
	secret          []byte
	sessionDuration time.Duration
}

func NewAuthService(db DB, redis RedisConn, secret string, sessionDuration time.Duration) *AuthService {
	if sessionDuration <= 0 {
		sessionDuration = defaultSessionDuration
	}
	return &AuthService{
		db:              db,
		redis:           redis,
		secret:          []byte(secret),
		sessionDuration: sessionDuration,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	if len(password) > bcryptMaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticate checks credentials and returns the matching user.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		NormalizeEmail(email),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		compareDummyHash(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GenerateSessionToken returns a random session id and the hash under which it is stored.
func (s *AuthService) GenerateSessionToken() (token string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	token = hex.EncodeToString(bytes)
	return token, s.hashToken(token), nil
}

func (s *AuthService) hashToken(token string) string {
	hashBytes := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hashBytes[:])
}

func (s *AuthService) signToken(userID uuid.UUID, sessionID string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.sessionDuration)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, uuid.Nil, ErrSessionExpired
		}
		return nil, uuid.Nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, ErrInvalidToken
	}
	return claims, userID, nil
}

// CreateSession starts a session for userID and returns the signed token.
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	sessionID, sessionHash, err := s.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiresAt := now.Add(s.sessionDuration)

	// Store in Redis for fast lookups
	redisKey := sessionKeyPrefix + sessionHash
	if err := s.redis.Set(ctx, redisKey, userID.String(), s.sessionDuration); err != nil {
		// Fall back to PostgreSQL if Redis fails
		_, err = s.db.Exec(ctx,
			`INSERT INTO sessions (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`,
			userID, sessionHash, expiresAt,
		)
		if err != nil {
			return "", fmt.Errorf("creating session in database: %w", err)
		}
	}

	return s.signToken(userID, sessionID, now)
}

// ValidateSession verifies the token signature and that its session is still live.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	claims, userID, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	sessionHash := s.hashToken(claims.ID)

	// Try Redis first
	redisKey := sessionKeyPrefix + sessionHash
	storedID, err := s.redis.Get(ctx, redisKey)
	if err == nil {
		if storedID != userID.String() {
			return nil, ErrInvalidToken
		}
		return s.getUserByID(ctx, userID)
	}

	// Fall back to PostgreSQL
	var session models.Session
	err = s.db.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at
		 FROM sessions WHERE token_hash = $1`,
		sessionHash,
	).Scan(&session.ID, &session.UserID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		// Clean up expired session
		_, _ = s.db.Exec(ctx, "DELETE FROM sessions WHERE id = $1", session.ID)
		return nil, ErrSessionExpired
	}
	if session.UserID != userID {
		return nil, ErrInvalidToken
	}

	return s.getUserByID(ctx, session.UserID)
}

// DeleteSession revokes the session behind token. Expired tokens are still
// accepted so their leftover rows get cleaned up.
func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	claims, _, err := s.parseToken(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}
	sessionHash := s.hashToken(claims.ID)

	_ = s.redis.Del(ctx, sessionKeyPrefix+sessionHash)

	_, err = s.db.Exec(ctx, "DELETE FROM sessions WHERE token_hash = $1", sessionHash)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

func (s *AuthService) getUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return user, nil
}
