package inventory

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/labstock/internal/domain/procedure"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name, unit string, stock, threshold float64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO materials (name, unit, stock, low_stock_threshold)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, stock, unit, low_stock_threshold, usage_count, created_at
	`, name, unit, stock, threshold)
	return scanItem(row)
}

func (r *Repo) GetByName(ctx context.Context, name string) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, stock, unit, low_stock_threshold, usage_count, created_at
		FROM materials
		WHERE LOWER(name) = LOWER($1)
	`, strings.TrimSpace(name))
	it, err := scanItem(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return it, err
}

func (r *Repo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, stock, unit, low_stock_threshold, usage_count, created_at
		FROM materials
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Stock, &it.Unit, &it.Threshold, &it.UsageCount, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateThreshold(ctx context.Context, id int64, threshold float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE materials SET low_stock_threshold=$2 WHERE id=$1
	`, id, threshold)
	return err
}

// Snapshot читает склад целиком для расчётного конвейера.
func (r *Repo) Snapshot(ctx context.Context) (procedure.Snapshot, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(procedure.Snapshot, len(items))
	for _, it := range items {
		snap[strings.ToLower(strings.TrimSpace(it.Name))] = procedure.StockInfo{
			MaterialID: it.ID,
			Stock:      it.Stock,
			Unit:       it.Unit,
			Threshold:  it.Threshold,
		}
	}
	return snap, nil
}

// ListMovements возвращает историю движений (свежие первыми).
func (r *Repo) ListMovements(ctx context.Context, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, request_id, material, delta, note, created_at
		FROM movements
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.RequestID, &m.Material, &m.Delta, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Stock, &it.Unit, &it.Threshold, &it.UsageCount, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
