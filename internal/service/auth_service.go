package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/siakad-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Failed-login lockout window.
const (
	maxLoginAttempts = 10
	attemptWindow    = 15 * time.Minute
)

// Claims extends JWT standard claims with app-specific fields. The
// institution id travels in the token so tenant scoping always comes from
// the authenticated caller, never from a request parameter.
type Claims struct {
	jwt.RegisteredClaims
	AdminID       int      `json:"admin_id"`
	InstitutionID int      `json:"institution_id"`
	Permissions   []string `json:"permissions,omitempty"`
}

// AuthService handles authentication, JWT, and the redis session registry.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateAdminToken creates a JWT for an admin and registers the session
// JTI in Redis. A later login replaces the registered JTI, so only the most
// recent device stays valid.
func (s *AuthService) GenerateAdminToken(ctx context.Context, adminID, institutionID int, permissions []string) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(adminID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		AdminID:       adminID,
		InstitutionID: institutionID,
		Permissions:   permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.AdminSessionKey(adminID)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
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

// ValidateAdminSession checks that the token's JTI matches the registered
// session in Redis.
func (s *AuthService) ValidateAdminSession(ctx context.Context, adminID int, jti string) error {
	sessionKey := config.CacheKey.AdminSessionKey(adminID)
	stored, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("no active session")
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return errors.New("session invalidated")
	}
	return nil
}

// ResetAdminSession removes an admin's registered session, forcing a fresh
// login.
func (s *AuthService) ResetAdminSession(ctx context.Context, adminID int) error {
	sessionKey := config.CacheKey.AdminSessionKey(adminID)
	return s.rdb.Del(ctx, sessionKey).Err()
}

// CheckLoginAllowed rejects a login attempt from an address that has failed
// too often inside the lockout window.
func (s *AuthService) CheckLoginAllowed(ctx context.Context, addr string) error {
	key := config.CacheKey.LoginAttemptKey(addr)
	count, err := s.rdb.Get(ctx, key).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("check attempts: %w", err)
	}
	if count >= maxLoginAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// RegisterFailedLogin counts one failed attempt for the address, starting
// the lockout window on the first failure.
func (s *AuthService) RegisterFailedLogin(ctx context.Context, addr string) error {
	key := config.CacheKey.LoginAttemptKey(addr)
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, attemptWindow).Err(); err != nil {
			return fmt.Errorf("set attempt window: %w", err)
		}
	}
	return nil
}

// ClearFailedLogins resets the address's failure count after a successful
// login.
func (s *AuthService) ClearFailedLogins(ctx context.Context, addr string) error {
	return s.rdb.Del(ctx, config.CacheKey.LoginAttemptKey(addr)).Err()
}
