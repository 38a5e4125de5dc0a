package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Common auth errors.
var (
	ErrAdminKeyInvalid  = errors.New("invalid admin key")
	ErrAdminKeyDisabled = errors.New("admin key is not configured")
)

// TokenType distinguishes sync-device tokens from admin tokens.
type TokenType string

const (
	TokenTypeDevice TokenType = "device"
	TokenTypeAdmin  TokenType = "admin"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType  TokenType `json:"token_type"`
	DeviceID   int       `json:"device_id,omitempty"`
	DeviceUUID string    `json:"device_uuid,omitempty"`
}

// AuthService handles device registration, JWT minting and validation.
type AuthService struct {
	cfg        *config.Config
	deviceRepo *repository.DeviceRepository
	rdb        *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, deviceRepo *repository.DeviceRepository, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, deviceRepo: deviceRepo, rdb: rdb}
}

// RegisterDevice upserts the device row and mints its sync token. The
// session JTI is tracked in Redis for observability; re-registration simply
// replaces it.
func (s *AuthService) RegisterDevice(ctx context.Context, req *model.RegisterDeviceRequest) (*model.Device, string, error) {
	device := &model.Device{DeviceUUID: req.DeviceUUID, Name: req.Name}
	if err := s.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, "", fmt.Errorf("upsert device: %w", err)
	}

	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(device.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType:  TokenTypeDevice,
		DeviceID:   device.ID,
		DeviceUUID: device.DeviceUUID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.DeviceSessionKey(device.ID), jti, s.cfg.JWTExpiry).Err(); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	return device, signed, nil
}

// AdminLogin exchanges the configured admin key for an admin token.
func (s *AuthService) AdminLogin(adminKey string) (string, error) {
	if s.cfg.AdminKey == "" {
		return "", ErrAdminKeyDisabled
	}
	if adminKey != s.cfg.AdminKey {
		return "", ErrAdminKeyInvalid
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
