package services

import (
	"context"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// Token types carried in the "typ" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrTokenRevoked is returned when a signature-valid token is no longer the stored one
var ErrTokenRevoked = errors.New("token has been revoked")

// TokenClaims are the application claims carried next to the registered ones
type TokenClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"typ"`
}

// Validate satisfies validator.CustomClaims
func (c *TokenClaims) Validate(ctx context.Context) error {
	if c.TokenType != TokenTypeAccess && c.TokenType != TokenTypeRefresh {
		return errors.New("unknown token type")
	}
	return nil
}

// TokenConfig holds the signing parameters for TokenService
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

// TokenPair is a freshly issued access and refresh token
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// TokenService issues HS256 tokens and keeps the current pair per user in a TokenStore.
// A token is accepted only while it matches the stored value, so login and
// logout invalidate earlier tokens.
type TokenService struct {
	cfg              TokenConfig
	store            TokenStore
	accessValidator  *validator.Validator
	refreshValidator *validator.Validator
}

// NewTokenService builds the validators for both token kinds
func NewTokenService(cfg TokenConfig, store TokenStore) (*TokenService, error) {
	accessValidator, err := newValidator(cfg.AccessSecret, cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, errors.Wrap(err, "access token validator")
	}
	refreshValidator, err := newValidator(cfg.RefreshSecret, cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, errors.Wrap(err, "refresh token validator")
	}

	return &TokenService{
		cfg:              cfg,
		store:            store,
		accessValidator:  accessValidator,
		refreshValidator: refreshValidator,
	}, nil
}

func newValidator(secret, issuer, audience string) (*validator.Validator, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(secret), nil
	}

	return validator.New(
		keyFunc,
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &TokenClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// AccessTTL is the lifetime of issued access tokens
func (s *TokenService) AccessTTL() time.Duration {
	return s.cfg.AccessTTL
}

// RefreshTTL is the lifetime of issued refresh tokens
func (s *TokenService) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

// Issue signs a new token pair for the user and overwrites any stored pair
func (s *TokenService) Issue(ctx context.Context, userID uint, role string) (*TokenPair, error) {
	now := time.Now()

	access, err := s.sign(s.cfg.AccessSecret, userID, role, TokenTypeAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(s.cfg.RefreshSecret, userID, role, TokenTypeRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, AccessTokenKey(userID), access, s.cfg.AccessTTL); err != nil {
		return nil, errors.Wrap(err, "store access token")
	}
	if err := s.store.Set(ctx, RefreshTokenKey(userID), refresh, s.cfg.RefreshTTL); err != nil {
		return nil, errors.Wrap(err, "store refresh token")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.cfg.AccessTTL),
	}, nil
}

func (s *TokenService) sign(secret string, userID uint, role, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", errors.Wrap(err, "create signer")
	}

	registered := jwt.Claims{
		ID:       uuid.NewString(),
		Subject:  strconv.FormatUint(uint64(userID), 10),
		Issuer:   s.cfg.Issuer,
		Audience: jwt.Audience{s.cfg.Audience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(ttl)),
	}
	custom := TokenClaims{Role: role, TokenType: tokenType}

	token, err := jwt.Signed(signer).Claims(registered).Claims(custom).CompactSerialize()
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

// AccessValidator returns the validator used by the HTTP auth middleware
func (s *TokenService) AccessValidator() *validator.Validator {
	return s.accessValidator
}

// CheckAccess validates an access token's signature and claims and confirms it
// is still the stored access token. It returns the user id.
func (s *TokenService) CheckAccess(ctx context.Context, token string) (uint, error) {
	return s.check(ctx, s.accessValidator, TokenTypeAccess, token, AccessTokenKey)
}

// CheckRefresh does the same for a refresh token
func (s *TokenService) CheckRefresh(ctx context.Context, token string) (uint, error) {
	return s.check(ctx, s.refreshValidator, TokenTypeRefresh, token, RefreshTokenKey)
}

func (s *TokenService) check(ctx context.Context, v *validator.Validator, tokenType, token string, key func(uint) string) (uint, error) {
	raw, err := v.ValidateToken(ctx, token)
	if err != nil {
		return 0, err
	}
	claims := raw.(*validator.ValidatedClaims)

	userID, err := SubjectUserID(claims)
	if err != nil {
		return 0, err
	}
	if tc, ok := claims.CustomClaims.(*TokenClaims); !ok || tc.TokenType != tokenType {
		return 0, errors.Errorf("expected %s token", tokenType)
	}
	if err := s.MatchStored(ctx, key(userID), token); err != nil {
		return 0, err
	}
	return userID, nil
}

// MatchStored confirms token is the value currently held under key
func (s *TokenService) MatchStored(ctx context.Context, key, token string) error {
	stored, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrTokenNotFound) {
		return ErrTokenRevoked
	}
	if err != nil {
		return errors.Wrap(err, "load stored token")
	}
	if stored != token {
		return ErrTokenRevoked
	}
	return nil
}

// Revoke deletes both stored tokens of a user
func (s *TokenService) Revoke(ctx context.Context, userID uint) error {
	return s.store.Delete(ctx, AccessTokenKey(userID), RefreshTokenKey(userID))
}

// SubjectUserID parses the numeric user id from the sub claim
func SubjectUserID(claims *validator.ValidatedClaims) (uint, error) {
	id, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("token subject is not a user id")
	}
	return uint(id), nil
}
