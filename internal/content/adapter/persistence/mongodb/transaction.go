package mongodb

import (
	"context"

	"welfare-cms/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionRunner runs fn so that all of its writes commit or none do.
// fn must use the context it is given for every collection call.
type TransactionRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionTransactionRunner uses a client session transaction. It requires a
// replica set or sharded cluster.
type SessionTransactionRunner struct {
	client *mongo.Client
}

func NewSessionTransactionRunner(client *mongo.Client) *SessionTransactionRunner {
	return &SessionTransactionRunner{client: client}
}

func (r *SessionTransactionRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// SequentialRunner runs fn without a transaction, for standalone servers.
// Callers order their writes so a partial failure leaves no dangling references.
type SequentialRunner struct {
	logger logger.Logger
}

func NewSequentialRunner(log logger.Logger) *SequentialRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &SequentialRunner{logger: log}
}

func (r *SequentialRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		r.logger.WithContext(ctx).Warnf("Non-transactional write sequence failed part way: %v", err)
		return err
	}
	return nil
}
