package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jask/jaskcal/internal/database"
	"github.com/jask/jaskcal/internal/dataview"
)

// Property is one persisted settings override. A nil Value is an explicit
// null override, which is different from having no row at all.
type Property struct {
	ObjectName string
	Property   string
	Value      any
	UpdatedAt  time.Time
}

// PropertyRepo stores the host property bag.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

func (r *PropertyRepo) Set(ctx context.Context, object, property string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s.%s: %w", object, property, err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO properties(object_name, property, value_json, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(object_name, property) DO UPDATE SET value_json=excluded.value_json, updated_at=excluded.updated_at;
	`, object, property, string(raw), database.Now())
	return err
}

// Delete removes one override so the leaf falls back to its default.
func (r *PropertyRepo) Delete(ctx context.Context, object, property string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE object_name = ? AND property = ?`, object, property)
	return err
}

// DeleteObject removes every override of object and reports how many rows went.
func (r *PropertyRepo) DeleteObject(ctx context.Context, object string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE object_name = ?`, object)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PropertyRepo) Get(ctx context.Context, object, property string) (*Property, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT object_name, property, value_json, updated_at FROM properties
	WHERE object_name = ? AND property = ?`, object, property)
	p, err := scanProperty(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepo) List(ctx context.Context) ([]Property, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT object_name, property, value_json, updated_at FROM properties
	ORDER BY object_name, property`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Objects returns the stored overrides as a host property bag.
func (r *PropertyRepo) Objects(ctx context.Context) (dataview.Objects, error) {
	props, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	objects := dataview.Objects{}
	for _, p := range props {
		if objects[p.ObjectName] == nil {
			objects[p.ObjectName] = map[string]any{}
		}
		objects[p.ObjectName][p.Property] = p.Value
	}
	return objects, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(s scanner) (Property, error) {
	var (
		p   Property
		raw string
	)
	if err := s.Scan(&p.ObjectName, &p.Property, &raw, &p.UpdatedAt); err != nil {
		return Property{}, err
	}
	if err := json.Unmarshal([]byte(raw), &p.Value); err != nil {
		return Property{}, fmt.Errorf("decode %s.%s: %w", p.ObjectName, p.Property, err)
	}
	return p, nil
}
