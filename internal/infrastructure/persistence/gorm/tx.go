package gorm

import (
	"context"

	"github.com/forkful/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements outbound.TxManager on top of GORM transactions.
// The transactional *gorm.DB travels in the context so every repository
// call made inside InTx joins the same transaction.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) outbound.TxManager {
	return &TxManager{db: db}
}

// InTx runs fn inside a single database transaction
func (m *TxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transactional handle when running inside
// InTx, the base handle otherwise.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
