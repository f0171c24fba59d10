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
	"golang.org/x/crypto/bcrypt"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrRefreshInvalid     = errors.New("refresh token invalid or revoked")
)

// Claims extends JWT standard claims with app-specific fields. RoleID is
// the student or lecturer profile ID; zero for admins.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int        `json:"account_id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	RoleID    int        `json:"role_id,omitempty"`
}

// TokenPair is an access token plus the refresh token that renews it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles authentication, JWT issuance, and refresh token
// rotation. Refresh tokens are valid only while their JTI is registered in
// Redis, so a logout or rotation revokes every older token immediately.
type AuthService struct {
	cfg         *config.Config
	accountRepo *repository.AccountRepository
	rdb         *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, accountRepo *repository.AccountRepository, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, accountRepo: accountRepo, rdb: rdb}
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

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Account, *TokenPair, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		// Uniform failure regardless of whether the email exists.
		return nil, nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, nil, ErrAccountDisabled
	}
	if err := s.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// Refresh validates a refresh token and rotates the pair. The old refresh
// token is revoked by overwriting the registered JTI.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.Account, *TokenPair, error) {
	claims, err := s.parseToken(refreshToken, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, nil, ErrRefreshInvalid
	}

	stored, err := s.rdb.Get(ctx, config.CacheKey.RefreshTokenKey(claims.AccountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil, ErrRefreshInvalid
		}
		return nil, nil, fmt.Errorf("check refresh token: %w", err)
	}
	if stored != claims.ID {
		return nil, nil, ErrRefreshInvalid
	}

	account, err := s.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, nil, ErrRefreshInvalid
	}
	if !account.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokenPair(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// Logout revokes the account's refresh token.
func (s *AuthService) Logout(ctx context.Context, accountID int) error {
	return s.rdb.Del(ctx, config.CacheKey.RefreshTokenKey(accountID)).Err()
}

// ChangePassword verifies the current password and stores a new hash. The
// refresh token is revoked so other devices must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int, currentPassword, newPassword string) error {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.CheckPassword(account.PasswordHash, currentPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accountRepo.UpdatePassword(ctx, accountID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.Logout(ctx, accountID)
}

// ValidateToken parses and validates an access token, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	return s.parseToken(tokenStr, s.cfg.JWTSecret)
}

func (s *AuthService) issueTokenPair(ctx context.Context, account *model.Account) (*TokenPair, error) {
	now := time.Now()

	access, err := s.signToken(account, jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   strconv.Itoa(account.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
	}, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJTI := uuid.New().String()
	refresh, err := s.signToken(account, jwt.RegisteredClaims{
		ID:        refreshJTI,
		Subject:   strconv.Itoa(account.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshExpiry)),
	}, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	// Register the refresh JTI with the same expiry as the token itself.
	key := config.CacheKey.RefreshTokenKey(account.ID)
	if err := s.rdb.Set(ctx, key, refreshJTI, s.cfg.RefreshExpiry).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(account *model.Account, registered jwt.RegisteredClaims, secret string) (string, error) {
	claims := Claims{
		RegisteredClaims: registered,
		AccountID:        account.ID,
		Email:            account.Email,
		Role:             account.Role,
		RoleID:           account.RoleID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) parseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
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
