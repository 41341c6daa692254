package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const defaultTransactionTimeout = 15 * time.Second

// TransactionRunner runs a callback inside a multi-document transaction. The callback receives
// the session context and must pass it to every repository call that belongs to the transaction.
type TransactionRunner struct {
	client  *mongo.Client
	timeout time.Duration
}

func NewTransactionRunner(client *mongo.Client, timeout time.Duration) *TransactionRunner {
	if timeout <= 0 {
		timeout = defaultTransactionTimeout
	}
	return &TransactionRunner{client: client, timeout: timeout}
}

// WithTransaction commits when fn returns nil and aborts otherwise. The driver retries fn on
// transient transaction errors until the timeout expires.
func (r *TransactionRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(txCtx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(txCtx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txOpts)
	return err
}

func (r *TransactionRunner) Timeout() time.Duration {
	return r.timeout
}
