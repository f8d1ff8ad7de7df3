package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/catalog-service/internal/domain"
)

const defaultTokenTTL = 30 * time.Minute

// TokenManager issues and validates HS256 session tokens.
// It holds no per-session state; validation needs only the token and the secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now, used by tests to move past expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager. A non-positive ttl uses 30 minutes.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the lifetime of tokens minted by this manager.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims describes the JWT payload.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the user.
func (tm *TokenManager) GenerateToken(user *domain.User) (string, domain.Token, error) {
	if user == nil || user.Email == "" {
		return "", domain.Token{}, errors.New("token subject required")
	}

	issuedAt := tm.now()
	meta := domain.Token{
		ID:        uuid.NewString(),
		LoginID:   user.Email,
		Role:      user.Role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(tm.ttl),
	}
	claims := &Claims{
		Username: meta.LoginID,
		Role:     meta.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        meta.ID,
			Subject:   meta.LoginID,
			IssuedAt:  jwt.NewNumericDate(meta.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(meta.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.Token{}, err
	}
	return tokenString, meta, nil
}

// Status is the outcome of validating a presented token.
type Status int

const (
	StatusAbsent Status = iota
	StatusMalformed
	StatusExpired
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusMalformed:
		return "malformed"
	case StatusExpired:
		return "expired"
	case StatusValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Rejection reasons.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonInvalidToken    = "invalid token"
	ReasonExpired         = "expired"
)

// Validation is the tagged result of Validate. Principal is set only when Status is StatusValid.
type Validation struct {
	Status    Status
	Reason    string
	Principal *Principal
}

// Valid reports whether the token was accepted.
func (v Validation) Valid() bool {
	return v.Status == StatusValid
}

// Validate checks the signature first and expiry second; the payload is only read
// once both pass.
func (tm *TokenManager) Validate(tokenStr string) Validation {
	if tokenStr == "" {
		return Validation{Status: StatusAbsent, Reason: ReasonUnauthenticated}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	switch {
	case err == nil && parsed.Valid:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Validation{Status: StatusExpired, Reason: ReasonExpired}
	default:
		return Validation{Status: StatusMalformed, Reason: ReasonInvalidToken}
	}

	if claims.Username == "" || !claims.Role.Valid() {
		return Validation{Status: StatusMalformed, Reason: ReasonInvalidToken}
	}

	return Validation{
		Status: StatusValid,
		Principal: &Principal{
			LoginID:   claims.Username,
			Role:      claims.Role,
			ExpiresAt: claims.ExpiresAt.Time,
		},
	}
}
