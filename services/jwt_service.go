package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"worker-marketplace-server/config"
	"worker-marketplace-server/models"
	"worker-marketplace-server/utils"
)

// JWTService handles access/refresh token operations
type JWTService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

func NewJWTService(db *gorm.DB, cfg config.JWTConfig) *JWTService {
	return &JWTService{db: db, cfg: cfg}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens
func (js *JWTService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(user.ID, string(user.Role), js.cfg.Secret, js.cfg.ExpiryHours)
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(js.cfg.ExpiryHours) * 3600,
		TokenType:    "Bearer",
	}, nil
}

// generateRefreshToken creates and persists a long-lived refresh token
func (js *JWTService) generateRefreshToken(userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}

	if err := js.db.Create(refreshToken).Error; err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateRefreshToken looks up a refresh token and checks it is still usable
func (js *JWTService) ValidateRefreshToken(tokenString string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := js.db.Where("token = ?", tokenString).First(&refreshToken).Error; err != nil {
		return nil, errors.New("refresh token not found")
	}

	if !refreshToken.IsValid() {
		return nil, errors.New("refresh token expired or revoked")
	}

	return &refreshToken, nil
}

// RotateRefreshToken revokes the old token and issues a fresh pair
func (js *JWTService) RotateRefreshToken(tokenString string) (*TokenPair, error) {
	refreshToken, err := js.ValidateRefreshToken(tokenString)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := js.db.First(&user, refreshToken.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	refreshToken.Revoke()
	if err := js.db.Save(refreshToken).Error; err != nil {
		return nil, err
	}

	return js.GenerateTokenPair(&user)
}

// RevokeUserTokens revokes all refresh tokens for a user (logout everywhere)
func (js *JWTService) RevokeUserTokens(userID uint) error {
	return js.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// CleanupExpiredTokens deletes refresh tokens past their expiry
func (js *JWTService) CleanupExpiredTokens() error {
	result := js.db.Where("expires_at <= ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Cleaned up %d expired refresh tokens", result.RowsAffected)
	}
	return nil
}
