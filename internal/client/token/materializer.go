package token

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/residentportal/internal/client/roles"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
)

// Materializer turns a token issued by the backend into a stored session.
type Materializer struct {
	decoder Decoder
	store   session.Store
}

func NewMaterializer(decoder Decoder, store session.Store) *Materializer {
	return &Materializer{decoder: decoder, store: store}
}

// Materialize decodes raw, checks it names a known role and saves token and
// user data together. On any failure the store is left untouched.
func (m *Materializer) Materialize(ctx context.Context, raw string) (roles.Role, error) {
	data, err := m.decoder.Decode(raw)
	if err != nil {
		return roles.Unknown, err
	}

	role, ok := roles.ParseRole(data.RoleClaim())
	if !ok {
		return roles.Unknown, fmt.Errorf("%w: %q", ErrUnrecognizedRole, data.RoleClaim())
	}

	if err := m.store.Save(ctx, session.Record{Token: raw, UserData: data}); err != nil {
		return roles.Unknown, err
	}
	return role, nil
}
