package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(header, cookie string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if header != "" {
		r.Header.Set("Authorization", "Bearer "+header)
	}
	if cookie != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	return r
}

func TestVerifier_CarrierPrecedence(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)
	expired := NewJWTService("test-secret", -time.Hour)

	headerOwner, cookieOwner := uuid.New(), uuid.New()
	headerToken, err := svc.GenerateToken(headerOwner)
	require.NoError(t, err)
	cookieToken, err := svc.GenerateToken(cookieOwner)
	require.NoError(t, err)
	forged, err := other.GenerateToken(headerOwner)
	require.NoError(t, err)
	stale, err := expired.GenerateToken(headerOwner)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantOK     bool
		wantOwner  uuid.UUID
		wantTrials int
	}{
		{"header only", headerToken, "", true, headerOwner, 1},
		{"header wins over valid cookie", headerToken, cookieToken, true, headerOwner, 1},
		{"header wins over invalid cookie", headerToken, "garbage", true, headerOwner, 1},
		{"forged header falls back to cookie", forged, cookieToken, true, cookieOwner, 2},
		{"expired header falls back to cookie", stale, cookieToken, true, cookieOwner, 2},
		{"malformed header falls back to cookie", "not-a-jwt", cookieToken, true, cookieOwner, 2},
		{"cookie only", "", cookieToken, true, cookieOwner, 2},
		{"both invalid", forged, "garbage", false, uuid.Nil, 2},
		{"nothing", "", "", false, uuid.Nil, 2},
	}

	v := NewDefaultVerifier(svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := v.Verify(newRequest(tt.header, tt.cookie))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, out.Accepted)
			assert.Equal(t, tt.wantOwner, out.OwnerID)
			assert.Len(t, out.Attempts, tt.wantTrials)
		})
	}
}

func TestVerifier_AbsentCarrierReason(t *testing.T) {
	v := NewDefaultVerifier(NewJWTService("s", time.Hour))

	out, err := v.Verify(newRequest("", ""))
	require.NoError(t, err)
	require.Len(t, out.Attempts, 2)
	assert.Equal(t, "header", out.Attempts[0].Source)
	assert.ErrorIs(t, out.Attempts[0].Reason, ErrNoCredential)
	assert.Equal(t, "cookie", out.Attempts[1].Source)
	assert.ErrorIs(t, out.Attempts[1].Reason, ErrNoCredential)
}

func TestVerifier_MissingSigningKey(t *testing.T) {
	good := NewJWTService("s", time.Hour)
	token, err := good.GenerateToken(uuid.New())
	require.NoError(t, err)

	v := NewDefaultVerifier(NewJWTService("", time.Hour))
	_, err = v.Verify(newRequest(token, token))
	assert.ErrorIs(t, err, ErrSigningKeyMissing)

	_, err = NewJWTService("", time.Hour).GenerateToken(uuid.New())
	assert.ErrorIs(t, err, ErrSigningKeyMissing)
}

func TestHeaderSource_RequiresBearerScheme(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	_, ok := HeaderSource{}.Token(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "Bearer   ")
	_, ok = HeaderSource{}.Token(r)
	assert.False(t, ok)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}
