// Package storage is a string key/value table modelled on browser local
// storage. The session store keeps the token and the serialized user data in it.
package storage

import "context"

type Repository interface {
	// Get returns ("", false, nil) when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}
