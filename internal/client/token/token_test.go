package token

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/client/roles"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestUnverifiedDecoder(t *testing.T) {
	raw := sign(t, "whatever", jwt.MapClaims{"role": "user", "email": "u@x.io"})

	data, err := UnverifiedDecoder{}.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "user", data.RoleClaim())
	assert.Equal(t, "u@x.io", data.Email())
}

func TestUnverifiedDecoder_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-token", "a.b"} {
		_, err := UnverifiedDecoder{}.Decode(raw)
		require.ErrorIs(t, err, ErrMalformedToken, raw)
	}
}

func TestHMACDecoder(t *testing.T) {
	d := NewHMACDecoder(secret)

	good := sign(t, secret, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	data, err := d.Decode(good)
	require.NoError(t, err)
	assert.Equal(t, "admin", data.RoleClaim())

	_, err = d.Decode(sign(t, "other", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}))
	require.ErrorIs(t, err, ErrMalformedToken)

	_, err = d.Decode(sign(t, secret, jwt.MapClaims{"role": "admin"}))
	require.ErrorIs(t, err, ErrMalformedToken, "token without exp")

	expired := sign(t, secret, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = d.Decode(expired)
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestNewDecoder(t *testing.T) {
	assert.IsType(t, UnverifiedDecoder{}, NewDecoder(""))
	assert.IsType(t, &HMACDecoder{}, NewDecoder(secret))
}

func TestMaterialize_SavesBothHalves(t *testing.T) {
	store := session.NewMemoryStore()
	m := NewMaterializer(UnverifiedDecoder{}, store)
	ctx := context.Background()

	raw := sign(t, secret, jwt.MapClaims{"role": "Admin", "name": "Ravi"})
	role, err := m.Materialize(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, roles.Admin, role)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, raw, rec.Token)
	assert.Equal(t, "Ravi", rec.UserData.Name())
}

func TestMaterialize_FailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	existing := session.Record{Token: "old", UserData: session.UserData{"role": "user"}}

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"malformed", "garbage", ErrMalformedToken},
		{"unknown role", sign(t, secret, jwt.MapClaims{"role": "superuser"}), ErrUnrecognizedRole},
		{"no role", sign(t, secret, jwt.MapClaims{"email": "x@y.z"}), ErrUnrecognizedRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			require.NoError(t, store.Save(ctx, existing))

			role, err := NewMaterializer(UnverifiedDecoder{}, store).Materialize(ctx, tt.raw)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, roles.Unknown, role)

			rec, _ := store.Load(ctx)
			assert.Equal(t, existing, rec)
		})
	}
}
