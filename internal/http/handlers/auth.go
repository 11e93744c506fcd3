package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/http/middleware"
	"railbook/internal/repositories"
)

type AuthHandler struct {
	Users     repositories.UserRepo
	JWTSecret []byte
	JWTExpiry time.Duration
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case req.Name == "":
		respondError(c, http.StatusBadRequest, "validation_error", "name is required")
		return
	case !isValidEmail(req.Email):
		respondError(c, http.StatusBadRequest, "validation_error", "email is not valid")
		return
	case len(req.Password) < 8:
		respondError(c, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not hash password")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := h.Users.Create(c.Request.Context(), &user); err != nil {
		RespondDomainError(c, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    user,
		"token":   token,
	})
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password")
			return
		}
		RespondDomainError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// GET /api/auth/profile
func (h AuthHandler) Profile(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}
	user, err := h.Users.GetByID(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h AuthHandler) issueToken(user models.User) (string, error) {
	expiry := h.JWTExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	})
	return token.SignedString(h.JWTSecret)
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	local, host, ok := strings.Cut(email, "@")
	return ok && local != "" && strings.Contains(host, ".")
}
