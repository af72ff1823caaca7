package services

import (
	"context"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"tacklepos/internal/domain"
	"tacklepos/internal/repos"
)

// LedgerService is the append-only list of completed sales.
type LedgerService struct {
	Txs *repos.TransactionRepo

	// shared by every With copy; bumped on each append
	version *atomic.Uint64
}

func NewLedgerService(txs *repos.TransactionRepo) *LedgerService {
	return &LedgerService{Txs: txs, version: new(atomic.Uint64)}
}

func (s *LedgerService) With(ext sqlx.ExtContext) *LedgerService {
	return &LedgerService{Txs: repos.NewTransactionRepo(ext), version: s.version}
}

func (s *LedgerService) Append(ctx context.Context, t domain.Transaction) error {
	if err := s.Txs.Insert(ctx, t); err != nil {
		return err
	}
	s.version.Add(1)
	return nil
}

func (s *LedgerService) All(ctx context.Context) ([]domain.Transaction, error) {
	return s.Txs.List(ctx)
}

// Recent returns the last n transactions, oldest first, without items.
func (s *LedgerService) Recent(ctx context.Context, n int) ([]domain.Transaction, error) {
	return s.Txs.LatestHeaders(ctx, n)
}

func (s *LedgerService) Get(ctx context.Context, id string) (domain.Transaction, error) {
	return s.Txs.Get(ctx, id)
}

func (s *LedgerService) Count(ctx context.Context) (int, error) {
	return s.Txs.Count(ctx)
}

// LastStamp is the newest millisecond stamp any stored TX id carries.
func (s *LedgerService) LastStamp(ctx context.Context) (int64, error) {
	return s.Txs.MaxStamp(ctx)
}

// Version changes whenever a transaction is appended.
func (s *LedgerService) Version() uint64 { return s.version.Load() }
