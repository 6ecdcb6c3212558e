// Package storage provides the persistent key-value backend behind the
// section store and video catalog. Keys are partitioned one per video id
// plus a single catalog key, so commands touching different videos never
// contend.
package storage

import "context"

// Store is a flat key-value store for serialized records.
// A read of an absent key returns ok=false with a nil error; absence is
// never an error condition.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
