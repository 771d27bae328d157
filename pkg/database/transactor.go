package database

import "context"

// Transactor runs fn inside a single database transaction. Implementations
// join an outer transaction already carried by ctx instead of nesting.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
