package requests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrMaterialNotFound  = errors.New("requests: material not found in inventory")
	ErrInsufficientStock = errors.New("requests: insufficient stock")
	ErrTxConflict        = errors.New("requests: concurrent modification, retry")
	ErrNotPending        = errors.New("requests: request is not pending")
	ErrNotApproved       = errors.New("requests: request is not approved")
)

// Counters — счётчики операций леджера (prometheus в бою, no-op в тестах).
type Counters interface {
	Approved()
	Revoked()
	Rejected()
	Conflict()
	LowStock()
}

// Notifier получает оповещение, когда approve увёл остаток под порог.
type Notifier interface {
	LowStock(ctx context.Context, material string, remaining float64, unit string)
}

// Ledger — машина состояний заявки поверх атомарного Store:
// pending -> approved -> (revoked -> pending) | rejected.
type Ledger struct {
	store    Store
	log      *slog.Logger
	counters Counters
	notifier Notifier
}

// NewLedger создаёт леджер; counters и notifier могут быть nil.
func NewLedger(store Store, log *slog.Logger, counters Counters, notifier Notifier) *Ledger {
	return &Ledger{store: store, log: log, counters: counters, notifier: notifier}
}

type lowStockAlert struct {
	material  string
	remaining float64
	unit      string
}

// Approve атомарно списывает склад по плоскому списку заявки:
// перечитать остатки, проверить все позиции, списать все, сохранить
// заявку как approved и поднять счётчики — одной транзакцией.
// Частичного списания не бывает.
func (l *Ledger) Approve(ctx context.Context, req *Request) error {
	if req.Status != StatusPending {
		return ErrNotPending
	}

	prevStatus, prevApproved := req.Status, req.ApprovedAt
	var alerts []lowStockAlert

	err := l.store.WithTx(ctx, func(tx Tx) error {
		alerts = alerts[:0]

		// сперва все проверки, потом первая запись
		for _, d := range req.Deductions {
			row, found, err := tx.Stock(ctx, d.Material)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", ErrMaterialNotFound, d.Material)
			}
			if row.Stock < d.Amount {
				return fmt.Errorf("%w: %s: available %g %s, required %g",
					ErrInsufficientStock, d.Material, row.Stock, row.Unit, d.Amount)
			}
			remaining := row.Stock - d.Amount
			if row.Threshold > 0 && remaining <= row.Threshold {
				alerts = append(alerts, lowStockAlert{d.Material, remaining, row.Unit})
			}
		}

		now := time.Now()
		req.Status = StatusApproved
		req.ApprovedAt = &now
		if err := tx.SaveRequest(ctx, req); err != nil {
			return err
		}

		for _, d := range req.Deductions {
			if err := tx.AddStock(ctx, d.Material, -d.Amount, req.ID, "request approve"); err != nil {
				return err
			}
			if err := tx.BumpUsage(ctx, d.Material, 1); err != nil {
				return err
			}
		}
		return tx.BumpRuns(ctx, req.ProcedureID, 1)
	})
	if err != nil {
		req.Status, req.ApprovedAt = prevStatus, prevApproved
		if errors.Is(err, ErrTxConflict) && l.counters != nil {
			l.counters.Conflict()
		}
		return err
	}

	if l.counters != nil {
		l.counters.Approved()
	}
	for _, a := range alerts {
		if l.counters != nil {
			l.counters.LowStock()
		}
		if l.notifier != nil {
			l.notifier.LowStock(ctx, a.material, a.remaining, a.unit)
		}
	}
	return nil
}

// Revoke — точная инверсия Approve: вернуть сохранённые количества,
// снять счётчики, вернуть заявку в pending. Материал, удалённый со
// склада после approve, пропускается: возвращать некуда.
func (l *Ledger) Revoke(ctx context.Context, req *Request) error {
	if req.Status != StatusApproved {
		return ErrNotApproved
	}

	prevStatus, prevApproved, prevRevoked := req.Status, req.ApprovedAt, req.RevokedAt

	err := l.store.WithTx(ctx, func(tx Tx) error {
		for _, d := range req.Deductions {
			_, found, err := tx.Stock(ctx, d.Material)
			if err != nil {
				return err
			}
			if !found {
				l.log.Warn("revoke: material deleted since approve, credit skipped",
					"request_id", req.ID, "material", d.Material, "amount", d.Amount)
				continue
			}
			if err := tx.AddStock(ctx, d.Material, d.Amount, req.ID, "request revoke"); err != nil {
				return err
			}
			if err := tx.BumpUsage(ctx, d.Material, -1); err != nil {
				return err
			}
		}

		now := time.Now()
		req.Status = StatusPending
		req.ApprovedAt = nil
		req.RevokedAt = &now
		if err := tx.SaveRequest(ctx, req); err != nil {
			return err
		}
		return tx.BumpRuns(ctx, req.ProcedureID, -1)
	})
	if err != nil {
		req.Status, req.ApprovedAt, req.RevokedAt = prevStatus, prevApproved, prevRevoked
		if errors.Is(err, ErrTxConflict) && l.counters != nil {
			l.counters.Conflict()
		}
		return err
	}

	if l.counters != nil {
		l.counters.Revoked()
	}
	return nil
}

// Reject — терминальный переход без влияния на склад.
func (l *Ledger) Reject(ctx context.Context, req *Request) error {
	if req.Status != StatusPending {
		return ErrNotPending
	}

	prevStatus, prevRejected := req.Status, req.RejectedAt

	err := l.store.WithTx(ctx, func(tx Tx) error {
		now := time.Now()
		req.Status = StatusRejected
		req.RejectedAt = &now
		return tx.SaveRequest(ctx, req)
	})
	if err != nil {
		req.Status, req.RejectedAt = prevStatus, prevRejected
		return err
	}

	if l.counters != nil {
		l.counters.Rejected()
	}
	return nil
}
