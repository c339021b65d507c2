package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go.carehub.io/hospital-api/domain"
)

// TokenType distinguishes the two bearer token classes. It is embedded as
// the "typ" claim so an access token can never be replayed as a refresh
// token or vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenValidationResult is the closed set of validation outcomes. Callers
// branch on this result and never inspect token contents unless it is
// TokenValid.
type TokenValidationResult int

const (
	TokenValid TokenValidationResult = iota
	TokenExpired
	TokenMalformed
	TokenSignatureInvalid
	TokenWrongType
)

func (r TokenValidationResult) String() string {
	switch r {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenMalformed:
		return "malformed"
	case TokenSignatureInvalid:
		return "signature invalid"
	case TokenWrongType:
		return "wrong token type"
	default:
		return "unknown"
	}
}

// Claims are the JWT claims carried by both token classes.
type Claims struct {
	GroupName string    `json:"grp,omitempty"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the access/refresh token pair. Signing
// and verification are pure CPU work; the service holds no mutable state.
type TokenService struct {
	signer     *TokenSigner
	verifyKey  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type TokenServiceOption func(*TokenService)

// WithNowFunc overrides the clock, primarily for tests.
func WithNowFunc(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService. verifyKey must match the secret
// registered on the signer.
func NewTokenService(
	signer *TokenSigner,
	verifyKey string,
	issuer string,
	accessTTL, refreshTTL time.Duration,
	opts ...TokenServiceOption,
) *TokenService {
	s := &TokenService{
		signer:     signer,
		verifyKey:  []byte(verifyKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateAccessToken issues a short-lived token asserting the user's
// identity and group.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	return s.generate(user.UserName, user.GroupName, TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken issues the longer-lived token whose sole purpose is
// authorizing a new pair without re-submitting credentials.
func (s *TokenService) GenerateRefreshToken(user *domain.User) (string, error) {
	return s.generate(user.UserName, user.GroupName, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) generate(sub, group string, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		GroupName: group,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := s.signer.Sign(claims, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenSigning, err)
	}
	return signed, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.verifyKey, nil
}

func (s *TokenService) parse(tokenString string, extra ...jwt.ParserOption) (*jwt.Token, error) {
	opts := append([]jwt.ParserOption{
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}, extra...)
	return jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc, opts...)
}

// ValidateToken decodes the token and verifies signature, expiry and token
// class. It never panics and never returns claims; the outcome enum is the
// whole contract.
func (s *TokenService) ValidateToken(tokenString string, want TokenType) TokenValidationResult {
	parsed, err := s.parse(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return TokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			// The signature held and the claims decoded; still reject a
			// wrong token class before reporting expiry, so an expired
			// access token never reads as an expired refresh token.
			if parsed != nil {
				if claims, ok := parsed.Claims.(*Claims); ok && claims.TokenType != want {
					return TokenWrongType
				}
			}
			return TokenExpired
		default:
			return TokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return TokenMalformed
	}
	if claims.TokenType != want {
		return TokenWrongType
	}
	return TokenValid
}

// IdentityFromToken reconstructs the authenticated principal from a token of
// the wanted class. Precondition: the token validates as TokenValid; any
// other token yields an error.
func (s *TokenService) IdentityFromToken(tokenString string, want TokenType) (*domain.Principal, error) {
	parsed, err := s.parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("token not valid: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("unexpected token class %q", claims.TokenType)
	}
	if claims.Subject == "" {
		return nil, errors.New("token carries no subject")
	}

	return &domain.Principal{
		UserName:  claims.Subject,
		GroupName: claims.GroupName,
	}, nil
}

// TokenExpiry returns the embedded expiry of a signed token without
// validating the time claims. Used to bound deny-list entries on logout.
func (s *TokenService) TokenExpiry(tokenString string) (time.Time, error) {
	parsed, err := s.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return time.Time{}, fmt.Errorf("token not parseable: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token carries no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
