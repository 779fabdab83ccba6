package service

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner executes fn inside one storage transaction. An error returned by
// fn aborts the transaction — no write inside it survives — and is returned
// to the caller unchanged. Flows receive the runner at construction, so unit
// tests can substitute an in-memory runner with the same rollback contract.
type TxRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error

// GormTx is the production runner backed by db.Transaction.
func GormTx(db *gorm.DB) TxRunner {
	return func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return db.WithContext(ctx).Transaction(fn)
	}
}
