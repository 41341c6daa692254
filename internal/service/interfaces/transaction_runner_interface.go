package interfaces

import "context"

// TransactionRunnerInterface wraps a unit of work in a database transaction. Repository calls
// inside fn must use the ctx handed to fn.
type TransactionRunnerInterface interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
