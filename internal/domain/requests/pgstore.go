package requests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore — боевой Store поверх postgres: одна pgx-транзакция с
// сериализуемой изоляцией, serialization_failure наружу уходит как
// ErrTxConflict.
type PgStore struct{ pool *pgxpool.Pool }

func NewPgStore(pool *pgxpool.Pool) *PgStore { return &PgStore{pool: pool} }

func (s *PgStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return mapConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConflict(err)
	}
	return nil
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "40001" {
		return fmt.Errorf("%w: %v", ErrTxConflict, err)
	}
	return err
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) Stock(ctx context.Context, material string) (StockRow, bool, error) {
	var row StockRow
	err := t.tx.QueryRow(ctx, `
		SELECT stock, unit, low_stock_threshold
		FROM materials
		WHERE LOWER(name) = LOWER($1)
	`, material).Scan(&row.Stock, &row.Unit, &row.Threshold)
	if err == pgx.ErrNoRows {
		return StockRow{}, false, nil
	}
	if err != nil {
		return StockRow{}, false, err
	}
	return row, true, nil
}

func (t *pgTx) AddStock(ctx context.Context, material string, delta float64, requestID int64, note string) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE materials SET stock = stock + $2 WHERE LOWER(name) = LOWER($1)
	`, material, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrMaterialNotFound, material)
	}

	var reqID *int64
	if requestID != 0 {
		reqID = &requestID
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO movements (request_id, material, delta, note)
		VALUES ($1,$2,$3,$4)
	`, reqID, material, delta, note)
	return err
}

func (t *pgTx) BumpUsage(ctx context.Context, material string, delta int64) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE materials SET usage_count = usage_count + $2 WHERE LOWER(name) = LOWER($1)
	`, material, delta)
	return err
}

func (t *pgTx) BumpRuns(ctx context.Context, procedureID int64, delta int64) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE procedures SET runs_count = runs_count + $2 WHERE id = $1
	`, procedureID, delta)
	return err
}

func (t *pgTx) SaveRequest(ctx context.Context, req *Request) error {
	materials, err := json.Marshal(req.Materials)
	if err != nil {
		return fmt.Errorf("requests: marshal materials: %w", err)
	}
	deductions, err := json.Marshal(req.Deductions)
	if err != nil {
		return fmt.Errorf("requests: marshal deductions: %w", err)
	}
	inputs, err := json.Marshal(req.Inputs)
	if err != nil {
		return fmt.Errorf("requests: marshal inputs: %w", err)
	}

	if req.ID == 0 {
		row := t.tx.QueryRow(ctx, `
			INSERT INTO requests (procedure_id, status, materials, deductions, inputs, margin_percent, created_by, approved_at, rejected_at, revoked_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id, created_at
		`, req.ProcedureID, string(req.Status), materials, deductions, inputs,
			req.MarginPercent, req.CreatedBy, req.ApprovedAt, req.RejectedAt, req.RevokedAt)
		return row.Scan(&req.ID, &req.CreatedAt)
	}

	tag, err := t.tx.Exec(ctx, `
		UPDATE requests
		SET status=$2, materials=$3, deductions=$4, inputs=$5, margin_percent=$6,
		    approved_at=$7, rejected_at=$8, revoked_at=$9
		WHERE id=$1
	`, req.ID, string(req.Status), materials, deductions, inputs,
		req.MarginPercent, req.ApprovedAt, req.RejectedAt, req.RevokedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("requests: request %d not found", req.ID)
	}
	return nil
}
