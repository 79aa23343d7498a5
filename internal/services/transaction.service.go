package services

import (
	"context"

	"applianceassist/internal/database"
	"applianceassist/internal/logger"

	"gorm.io/gorm"
)

type txKey struct{}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("services").File("transaction.service"),
	}
}

// Execute runs fn inside a transaction carried on the context. A nested call
// joins the outer transaction instead of opening a new one.
func (s *TransactionService) Execute(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	if _, ok := GetTransaction(ctx); ok {
		return fn(ctx)
	}

	log := s.log.Function("Execute")
	if s.db.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	return s.db.SQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTransaction returns the transaction stored by Execute, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}
