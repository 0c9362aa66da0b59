package requests

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo — читающая сторона заявок и создание pending-заявки.
// Все переходы состояний идут через Ledger.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, req *Request) error {
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

	req.Status = StatusPending
	row := r.pool.QueryRow(ctx, `
		INSERT INTO requests (procedure_id, status, materials, deductions, inputs, margin_percent, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, req.ProcedureID, string(req.Status), materials, deductions, inputs, req.MarginPercent, req.CreatedBy)
	return row.Scan(&req.ID, &req.CreatedAt)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, procedure_id, status, materials, deductions, inputs, margin_percent,
		       created_by, created_at, approved_at, rejected_at, revoked_at
		FROM requests
		WHERE id = $1
	`, id)
	req, err := scanRequest(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return req, err
}

func (r *Repo) List(ctx context.Context, status Status) ([]Request, error) {
	q := `
		SELECT id, procedure_id, status, materials, deductions, inputs, margin_percent,
		       created_by, created_at, approved_at, rejected_at, revoked_at
		FROM requests
	`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	var materials, deductions, inputs []byte
	var status string
	if err := row.Scan(
		&req.ID,
		&req.ProcedureID,
		&status,
		&materials,
		&deductions,
		&inputs,
		&req.MarginPercent,
		&req.CreatedBy,
		&req.CreatedAt,
		&req.ApprovedAt,
		&req.RejectedAt,
		&req.RevokedAt,
	); err != nil {
		return nil, err
	}
	req.Status = Status(status)

	if err := json.Unmarshal(materials, &req.Materials); err != nil {
		return nil, fmt.Errorf("requests %d: unmarshal materials: %w", req.ID, err)
	}
	if err := json.Unmarshal(deductions, &req.Deductions); err != nil {
		return nil, fmt.Errorf("requests %d: unmarshal deductions: %w", req.ID, err)
	}
	if err := json.Unmarshal(inputs, &req.Inputs); err != nil {
		return nil, fmt.Errorf("requests %d: unmarshal inputs: %w", req.ID, err)
	}
	return &req, nil
}
