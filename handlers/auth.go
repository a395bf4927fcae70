package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chroniclehq/chroniclebackend/config"
	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	UserRepo       repository.UserRepository
	InviteCodeRepo repository.InviteCodeRepository
	Cfg            config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, inviteCodeRepo repository.InviteCodeRepository, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, InviteCodeRepo: inviteCodeRepo, Cfg: cfg}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if !user.CheckPassword(payload.Password) {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "chroniclebackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""

	response := LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	}

	writeJSON(w, http.StatusOK, response)
}

type RegisterPayload struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

// Register handles new user registration using an invite code. New users
// start as plain contributors with no global permissions.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	if payload.Username == "" || payload.Password == "" || payload.InviteCode == "" {
		http.Error(w, "Username, password, and invite code are required", http.StatusBadRequest)
		return
	}

	inviteCode, err := h.InviteCodeRepo.GetByCode(payload.InviteCode)
	if err != nil {
		http.Error(w, "Invalid or expired invite code", http.StatusForbidden)
		return
	}

	if !inviteCode.IsValid() {
		http.Error(w, "Invite code is not valid (expired, inactive, or max uses reached)", http.StatusForbidden)
		return
	}

	newUser := &models.User{
		Username:          payload.Username,
		Email:             payload.Email,
		GlobalPermissions: []string{},
	}
	if err := newUser.SetPassword(payload.Password); err != nil {
		http.Error(w, "Failed to hash password: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		http.Error(w, "Failed to create user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.InviteCodeRepo.IncrementUses(inviteCode.ID); err != nil {
		fmt.Printf("CRITICAL: User %s created but failed to increment uses for invite code %s (ID: %d): %v\n", newUser.Username, inviteCode.Code, inviteCode.ID, err)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully. Please log in."})
}

// Logout is a no-op server side; JWT logout is handled by discarding the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully. Please discard your token."})
}

// CurrentUser retrieves the authenticated user from the request context.
// This handler should be protected by the AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r)
	if !ok {
		http.Error(w, "Could not retrieve user from context", http.StatusInternalServerError)
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""

	writeJSON(w, http.StatusOK, userForResponse)
}
