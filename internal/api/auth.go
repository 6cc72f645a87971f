package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/apelng/offerintake/internal/model"
	"github.com/apelng/offerintake/internal/store"
)

// tokenLifetime is how long an admin session token stays valid.
const tokenLifetime = 12 * time.Hour

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) registerAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if _, err := s.admins.GetByEmail(c.Request.Context(), req.Email); err == nil {
		respondError(c, http.StatusConflict, "Admin already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("admin lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hashing password failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	admin := &model.AdminUser{Email: req.Email, PasswordHash: string(hash)}
	if err := s.admins.Create(c.Request.Context(), admin); err != nil {
		s.logger.Error("creating admin failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin registered"})
}

func (s *Server) loginAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, err := s.admins.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		s.logger.Error("admin lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.issueToken(admin.Email)
	if err != nil {
		s.logger.Error("signing token failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (s *Server) issueToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"role": "admin",
		"exp":  time.Now().Add(tokenLifetime).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// requireAuth guards admin-only routes with a bearer token check.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtSecret, nil
		})
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("admin_email", sub)
		}
		c.Next()
	}
}
