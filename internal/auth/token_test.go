package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-service/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func adminUser() *domain.User {
	return &domain.User{ID: 1, FirstName: "A", LastName: "B", Email: "a@b.com", Role: domain.RoleAdmin}
}

func TestIssuedTokenValidatesImmediately(t *testing.T) {
	clock := newClock()
	tm := NewTokenManager("secret", 30*time.Minute, WithClock(clock.Now))

	token, meta, err := tm.GenerateToken(adminUser())
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(30*time.Minute), meta.ExpiresAt)
	assert.Equal(t, "a@b.com", meta.LoginID)

	result := tm.Validate(token)
	require.True(t, result.Valid(), "reason: %s", result.Reason)
	assert.Equal(t, "a@b.com", result.Principal.LoginID)
	assert.Equal(t, domain.RoleAdmin, result.Principal.Role)
	assert.True(t, result.Principal.IsAdmin())
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	clock := newClock()
	tm := NewTokenManager("secret", 30*time.Minute, WithClock(clock.Now))

	token, _, err := tm.GenerateToken(adminUser())
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	assert.Equal(t, StatusValid, tm.Validate(token).Status)

	clock.Advance(time.Minute)
	result := tm.Validate(token)
	assert.Equal(t, StatusExpired, result.Status)
	assert.Equal(t, ReasonExpired, result.Reason)
	assert.Nil(t, result.Principal)
}

func TestTokenFromOtherSecretIsMalformed(t *testing.T) {
	clock := newClock()
	issuer := NewTokenManager("other-secret", time.Hour, WithClock(clock.Now))
	validator := NewTokenManager("secret", time.Hour, WithClock(clock.Now))

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		user := adminUser()
		user.Role = role
		token, _, err := issuer.GenerateToken(user)
		require.NoError(t, err)

		result := validator.Validate(token)
		assert.Equal(t, StatusMalformed, result.Status)
		assert.Equal(t, ReasonInvalidToken, result.Reason)
	}
}

func TestExpiredTokenFromOtherSecretIsMalformed(t *testing.T) {
	clock := newClock()
	issuer := NewTokenManager("other-secret", time.Minute, WithClock(clock.Now))
	validator := NewTokenManager("secret", time.Minute, WithClock(clock.Now))

	token, _, err := issuer.GenerateToken(adminUser())
	require.NoError(t, err)
	clock.Advance(time.Hour)

	assert.Equal(t, StatusMalformed, validator.Validate(token).Status)
}

func TestTamperedPayloadIsMalformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	user := adminUser()
	user.Role = domain.RoleUser
	token, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	forged, _, err := tm.GenerateToken(adminUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

	assert.Equal(t, StatusMalformed, tm.Validate(spliced).Status)
}

func TestAbsentAndGarbageTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	absent := tm.Validate("")
	assert.Equal(t, StatusAbsent, absent.Status)
	assert.Equal(t, ReasonUnauthenticated, absent.Reason)

	assert.Equal(t, StatusMalformed, tm.Validate("not-a-jwt").Status)
}

func TestRejectsOtherSigningMethods(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	claims := &Claims{
		Username: "a@b.com",
		Role:     domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, StatusMalformed, tm.Validate(none).Status)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, StatusMalformed, tm.Validate(hs512).Status)
}

func TestTokenWithoutExpiryIsMalformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	claims := &Claims{Username: "a@b.com", Role: domain.RoleAdmin}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, StatusMalformed, tm.Validate(token).Status)
}

func TestTokensForSameIdentityDiffer(t *testing.T) {
	clock := newClock()
	tm := NewTokenManager("secret", time.Hour, WithClock(clock.Now))

	first, _, err := tm.GenerateToken(adminUser())
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, _, err := tm.GenerateToken(adminUser())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, strings.Split(first, ".")[2], strings.Split(second, ".")[2])
}

func TestGenerateTokenRequiresSubject(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	_, _, err := tm.GenerateToken(&domain.User{Role: domain.RoleUser})
	assert.Error(t, err)
	_, _, err = tm.GenerateToken(nil)
	assert.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, 30*time.Minute, NewTokenManager("secret", 0).TTL())
}
