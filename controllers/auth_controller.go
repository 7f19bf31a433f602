package controllers

import (
	"net/http"
	"time"

	"clinic/config"
	"clinic/middleware"
	"clinic/models"
	"clinic/services"
	"clinic/utils"
)

// AuthController обрабатывает регистрацию, вход и профиль пользователя
type AuthController struct {
	users  *services.UserService
	config *config.Config
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(users *services.UserService, cfg *config.Config) *AuthController {
	return &AuthController{
		users:  users,
		config: cfg,
	}
}

// Register обрабатывает регистрацию пользователя
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := c.users.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WithComponent("auth").Info().Uint("user_id", user.ID).Msg("user registered")
	writeJSON(w, http.StatusCreated, user)
}

// Login обрабатывает вход пользователя
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := c.users.Authenticate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	// Создаем JWT токен
	token, expiresAt, err := utils.GenerateToken(c.GetJWTKey(), user.ID, user.Email, user.Role, c.config.JWTExpiration())
	if err != nil {
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Profile возвращает профиль текущего пользователя
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := c.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetJWTKey возвращает ключ для JWT
func (c *AuthController) GetJWTKey() []byte {
	return []byte(c.config.JWT.SecretKey)
}
