package handlers

import (
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/friendfinder/backend/internal/models"
	"github.com/friendfinder/backend/internal/services"
)

const sessionCookieName = "session_token"

type AuthHandler struct {
	userService     services.UserServiceInterface
	authService     services.AuthServiceInterface
	secure          bool // Use secure cookies (HTTPS only)
	sessionDuration time.Duration
}

func NewAuthHandler(userService services.UserServiceInterface, authService services.AuthServiceInterface, secure bool, sessionDuration time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:     userService,
		authService:     authService,
		secure:          secure,
		sessionDuration: sessionDuration,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

var registerMessages = validationMessages{
	"email.required":    "Please provide email and password",
	"password.required": "Please provide email and password",
	"email":             "Invalid email address",
	"password.min":      "Password must be at least 8 characters",
	"password.max":      "Password is too long",
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = validationMessages{
	"email":    "Please provide email and password",
	"password": "Please provide email and password",
}

type authData struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token,omitempty"`
}

// SessionToken extracts the bearer token from the Authorization header,
// falling back to the session cookie used by browser clients.
func SessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = services.NormalizeEmail(req.Email)
	if msg := validateRequest(req, registerMessages); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		writeServiceError(w, r, "hashing password", err)
		return
	}

	user, err := h.userService.Create(r.Context(), models.CreateUserParams{
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		writeServiceError(w, r, "creating user", err)
		return
	}

	token, err := h.authService.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, "creating session", err)
		return
	}

	h.setSessionCookie(w, token)
	writeSuccess(w, http.StatusCreated, "User registered successfully", authData{User: user.ToPublic(), Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateRequest(req, loginMessages); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "authenticating user", err)
		return
	}

	token, err := h.authService.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, "creating session", err)
		return
	}

	h.setSessionCookie(w, token)
	writeSuccess(w, http.StatusOK, "Logged in successfully", authData{User: user.ToPublic(), Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := SessionToken(r); token != "" {
		_ = h.authService.DeleteSession(r.Context(), token)
	}

	h.clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	writeSuccess(w, http.StatusOK, "", authData{User: user.ToPublic()})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionDuration / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
}

// validatePassword returns a client message when the password is too weak.
func validatePassword(password string) string {
	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return "Password must contain at least one letter and one digit"
	}

	return ""
}
