// Package kvstore provides the abstract durable key-value store the
// convenience lists and the handoff inbox persist through.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

//go:generate go run go.uber.org/mock/mockgen -source=kvstore.go -destination=mocks/mock.go -package=mocks
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
