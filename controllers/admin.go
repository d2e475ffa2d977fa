package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"go-pharmacy/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

// AdminController signs in the store administrator
type AdminController struct {
	Email        string
	PasswordHash []byte
	JWTKey       []byte
	Logger       *zap.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(email, passwordHash string, jwtKey []byte, logger *zap.Logger) *AdminController {
	return &AdminController{
		Email:        email,
		PasswordHash: []byte(passwordHash),
		JWTKey:       jwtKey,
		Logger:       logger,
	}
}

// Login handles admin authentication
func (ac *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if ac.Email == "" || len(ac.PasswordHash) == 0 {
		utils.RespondError(w, http.StatusServiceUnavailable, "Admin login is not configured")
		return
	}
	if creds.Email != ac.Email {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword(ac.PasswordHash, []byte(creds.Password)); err != nil {
		ac.Logger.Warn("admin login failed", zap.String("email", creds.Email))
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(ac.JWTKey, "admin:"+ac.Email, utils.RoleAdmin, adminTokenTTL)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}
