package procedure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, def Definition) (*Procedure, error) {
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("procedure: marshal definition: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO procedures (name, definition)
		VALUES ($1, $2)
		RETURNING id, runs_count, created_at
	`, def.Name, raw)

	p := Procedure{Definition: def}
	if err := row.Scan(&p.ID, &p.RunsCount, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Procedure, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, definition, runs_count, created_at
		FROM procedures
		WHERE id = $1
	`, id)

	var p Procedure
	var raw []byte
	if err := row.Scan(&p.ID, &raw, &p.RunsCount, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Definition); err != nil {
		return nil, fmt.Errorf("procedure %d: unmarshal definition: %w", p.ID, err)
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]Procedure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, definition, runs_count, created_at
		FROM procedures
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Procedure
	for rows.Next() {
		var p Procedure
		var raw []byte
		if err := rows.Scan(&p.ID, &raw, &p.RunsCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &p.Definition); err != nil {
			return nil, fmt.Errorf("procedure %d: unmarshal definition: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateDefinition(ctx context.Context, id int64, def Definition) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("procedure: marshal definition: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE procedures SET name=$2, definition=$3 WHERE id=$1
	`, id, def.Name, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("procedure %d not found", id)
	}
	return nil
}
