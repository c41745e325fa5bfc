package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"polarprofile.org/internal/logging"
)

var ErrLayerNotFound = errors.New("catalog: layer not found")

const (
	KindLayer = "layer" // drawn as filled cross-section layers
	KindData  = "data"  // drawn as lines above the layers
)

// Layer is a named grid and how to draw it
type Layer struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Color         string `json:"color"`
	Axis          int    `json:"axis"`
	Kind          string `json:"kind"`
	Interpolation string `json:"interpolation"`
	Position      int    `json:"position"`
}

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const layerColumns = `name, path, color, axis, kind, interpolation, position`

// CreateLayer inserts or replaces a layer
func (q *Queries) CreateLayer(ctx context.Context, l Layer) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO layers (`+layerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`, l.Name, l.Path, l.Color, l.Axis, kindOrDefault(l.Kind), interpOrDefault(l.Interpolation), l.Position)
	if err != nil {
		return fmt.Errorf("error inserting layer %s: %w", l.Name, err)
	}
	return nil
}

func (q *Queries) GetLayer(ctx context.Context, name string) (Layer, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+layerColumns+` FROM layers WHERE name = ?`, name)
	var l Layer
	err := row.Scan(&l.Name, &l.Path, &l.Color, &l.Axis, &l.Kind, &l.Interpolation, &l.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return Layer{}, fmt.Errorf("%w: %s", ErrLayerNotFound, name)
	}
	return l, err
}

// ListLayers returns layers of the given kind in drawing order; an empty
// kind returns every layer.
func (q *Queries) ListLayers(ctx context.Context, kind string) (layers []Layer, err error) {
	query := `SELECT ` + layerColumns + ` FROM layers`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY position, name`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer logging.HandleDeferredError(&err, rows.Close, slog.Default(), "close layer rows")

	for rows.Next() {
		var l Layer
		if err := rows.Scan(&l.Name, &l.Path, &l.Color, &l.Axis, &l.Kind, &l.Interpolation, &l.Position); err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return layers, rows.Err()
}

func (q *Queries) DeleteLayer(ctx context.Context, name string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM layers WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, name)
	}
	return nil
}

// InsertLayers adds layers in one transaction
func InsertLayers(ctx context.Context, db *sql.DB, layers []Layer) error {
	logger := logging.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, logger, "insert_layers")

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO layers (`+layerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, logger, "insert_layers_stmt")

	for _, l := range layers {
		if l.Name == "" || l.Path == "" {
			return fmt.Errorf("layer needs a name and a path, got %+v", l)
		}
		_, err := stmt.ExecContext(ctx, l.Name, l.Path, l.Color, l.Axis,
			kindOrDefault(l.Kind), interpOrDefault(l.Interpolation), l.Position)
		if err != nil {
			return fmt.Errorf("error inserting layer %s: %w", l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	logging.LogOperation(logger, "layers_inserted", slog.Int("count", len(layers)))
	return nil
}

func kindOrDefault(k string) string {
	if k == "" {
		return KindLayer
	}
	return k
}

func interpOrDefault(m string) string {
	if m == "" {
		return "c"
	}
	return m
}

// DefaultLayers are the ice surface, ice base and bed layers, in drawing order.
func DefaultLayers() []Layer {
	return []Layer{
		{Name: "surface", Path: "surface.asc", Color: "lightskyblue", Kind: KindLayer, Interpolation: "c", Position: 0},
		{Name: "icebase", Path: "icebase.asc", Color: "darkblue", Kind: KindLayer, Interpolation: "c", Position: 1},
		{Name: "bed", Path: "bed.asc", Color: "lightbrown", Kind: KindLayer, Interpolation: "c", Position: 2},
	}
}
