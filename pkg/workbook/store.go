// Package workbook is the SQLite-backed spreadsheet the CLI and the TUI work
// against. It implements host.Workbook: every SetValues call runs in a single
// transaction so a range is written completely or not at all.
package workbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS sheets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS cells (
	sheet_id INTEGER NOT NULL REFERENCES sheets(id) ON DELETE CASCADE,
	row_idx INTEGER NOT NULL,
	col_idx INTEGER NOT NULL,
	kind INTEGER NOT NULL,
	str TEXT,
	num REAL,
	flag INTEGER,
	PRIMARY KEY (sheet_id, row_idx, col_idx)
);
CREATE INDEX IF NOT EXISTS idx_cells_sheet ON cells(sheet_id);
`

// Store is a workbook persisted in a SQLite database
type Store struct {
	host.SelectionTracker

	db           *sql.DB
	path         string
	defaultSheet string
	logger       *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger for host read and write failures
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultSheet names the sheet used for unqualified addresses
func WithDefaultSheet(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.defaultSheet = name
		}
	}
}

// Open opens or creates the workbook at path. ":memory:" gives a private
// in-memory workbook.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create workbook directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:           db,
		path:         path,
		defaultSheet: models.DefaultSettings().Workbook.DefaultSheet,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.SelectionTracker.Set(host.Range{Sheet: s.defaultSheet})
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create workbook schema: %w", err)
	}
	if _, err := s.ensureSheet(ctx, s.db, s.defaultSheet); err != nil {
		return err
	}
	return nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location
func (s *Store) Path() string {
	return s.path
}

// DefaultSheet returns the sheet used for unqualified addresses
func (s *Store) DefaultSheet() string {
	return s.defaultSheet
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) ensureSheet(ctx context.Context, q execQuerier, name string) (int64, error) {
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO sheets (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return s.sheetID(ctx, q, name)
}

func (s *Store) sheetID(ctx context.Context, q execQuerier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM sheets WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("no sheet %q", name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up sheet %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) resolve(ref string) (host.Range, error) {
	r, err := host.ParseRange(ref)
	if err != nil {
		return host.Range{}, err
	}
	return r.WithSheet(s.defaultSheet), nil
}

func (s *Store) fail(op, address string, err error) error {
	s.logger.Error("Workbook operation failed",
		zap.String("op", op),
		zap.String("address", address),
		zap.Error(err))
	return &host.OperationError{Op: op, Address: address, Err: err}
}

// SheetNames lists sheets in creation order
func (s *Store) SheetNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY id`)
	if err != nil {
		return nil, s.fail("list sheets", "", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.fail("list sheets", "", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list sheets", "", err)
	}
	return names, nil
}

// Bounds returns the used extent of sheet
func (s *Store) Bounds(ctx context.Context, sheet string) (rows, cols int, err error) {
	id, err := s.sheetID(ctx, s.db, sheet)
	if err != nil {
		return 0, 0, s.fail("bounds", sheet, err)
	}
	var maxRow, maxCol sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT MAX(row_idx), MAX(col_idx) FROM cells WHERE sheet_id = ?`, id).Scan(&maxRow, &maxCol)
	if err != nil {
		return 0, 0, s.fail("bounds", sheet, err)
	}
	if !maxRow.Valid {
		return 0, 0, nil
	}
	return int(maxRow.Int64) + 1, int(maxCol.Int64) + 1, nil
}

// ReadRange returns the values of ref; cells never written are empty
func (s *Store) ReadRange(ctx context.Context, ref string) (models.Grid, error) {
	r, err := s.resolve(ref)
	if err != nil {
		return nil, s.fail("read", ref, err)
	}
	g, err := s.read(ctx, s.db, r)
	if err != nil {
		return nil, s.fail("read", r.String(), err)
	}
	return g, nil
}

func (s *Store) read(ctx context.Context, q execQuerier, r host.Range) (models.Grid, error) {
	id, err := s.sheetID(ctx, q, r.Sheet)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx,
		`SELECT row_idx, col_idx, kind, str, num, flag FROM cells
		 WHERE sheet_id = ? AND row_idx BETWEEN ? AND ? AND col_idx BETWEEN ? AND ?`,
		id, r.StartRow, r.EndRow, r.StartCol, r.EndCol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	g := models.NewGrid(r.Rows(), r.Cols())
	for rows.Next() {
		var (
			row, col, kind int
			str            sql.NullString
			num            sql.NullFloat64
			flag           sql.NullBool
		)
		if err := rows.Scan(&row, &col, &kind, &str, &num, &flag); err != nil {
			return nil, err
		}
		g[row-r.StartRow][col-r.StartCol] = decodeCell(models.CellKind(kind), str, num, flag)
	}
	return g, rows.Err()
}

func decodeCell(kind models.CellKind, str sql.NullString, num sql.NullFloat64, flag sql.NullBool) models.CellValue {
	switch kind {
	case models.CellString:
		return models.StringCell(str.String)
	case models.CellNumber:
		return models.NumberCell(num.Float64)
	case models.CellBool:
		return models.BoolCell(flag.Bool)
	default:
		return models.EmptyCell()
	}
}

// GetSelection returns the selected range with its values
func (s *Store) GetSelection(ctx context.Context) (models.RawSelection, error) {
	r := s.Current()
	g, err := s.read(ctx, s.db, r)
	if err != nil {
		return models.RawSelection{}, s.fail("get selection", r.String(), err)
	}
	return host.SelectionFromGrid(r, g), nil
}

// Select changes the selection, creating the sheet if needed, and notifies listeners
func (s *Store) Select(ctx context.Context, ref string) error {
	r, err := s.resolve(ref)
	if err != nil {
		return s.fail("select", ref, err)
	}
	if _, err := s.ensureSheet(ctx, s.db, r.Sheet); err != nil {
		return s.fail("select", ref, err)
	}
	s.Set(r)
	return nil
}

// ResolveAddress returns the address of the cell at (row, col) within ref
func (s *Store) ResolveAddress(ref string, row, col int) (string, error) {
	r, err := s.resolve(ref)
	if err != nil {
		return "", &host.OperationError{Op: "resolve", Address: ref, Err: err}
	}
	return host.ResolveAddress(r.String(), row, col)
}

// SetValues writes values over ref inside one transaction
func (s *Store) SetValues(ctx context.Context, ref string, values models.Grid) error {
	r, err := s.resolve(ref)
	if err != nil {
		return s.fail("write", ref, err)
	}
	if err := host.CheckShape(r, values); err != nil {
		return s.fail("write", r.String(), err)
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.ensureSheet(ctx, tx, r.Sheet)
		if err != nil {
			return err
		}
		return writeCells(ctx, tx, id, r.StartRow, r.StartCol, values)
	})
	if err != nil {
		return s.fail("write", r.String(), err)
	}
	return nil
}

// SetCellValue writes one cell
func (s *Store) SetCellValue(ctx context.Context, address string, value models.CellValue) error {
	r, err := s.resolve(address)
	if err != nil {
		return s.fail("write cell", address, err)
	}
	if !r.IsCell() {
		return s.fail("write cell", address, fmt.Errorf("not a single cell"))
	}
	return s.SetValues(ctx, r.String(), models.Grid{{value}})
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeCells(ctx context.Context, tx *sql.Tx, sheetID int64, top, left int, values models.Grid) error {
	upsert, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (sheet_id, row_idx, col_idx, kind, str, num, flag) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(sheet_id, row_idx, col_idx) DO UPDATE SET
		 kind = excluded.kind, str = excluded.str, num = excluded.num, flag = excluded.flag`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	remove, err := tx.PrepareContext(ctx, `DELETE FROM cells WHERE sheet_id = ? AND row_idx = ? AND col_idx = ?`)
	if err != nil {
		return err
	}
	defer remove.Close()

	for i, row := range values {
		for j, v := range row {
			r, c := top+i, left+j
			if v.IsEmpty() {
				if _, err := remove.ExecContext(ctx, sheetID, r, c); err != nil {
					return err
				}
				continue
			}
			str, num, flag := encodeCell(v)
			if _, err := upsert.ExecContext(ctx, sheetID, r, c, int(v.Kind), str, num, flag); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeCell(v models.CellValue) (str, num, flag any) {
	switch v.Kind {
	case models.CellString:
		return v.Str, nil, nil
	case models.CellNumber:
		return nil, v.Num, nil
	case models.CellBool:
		return nil, nil, v.Bool
	default:
		return nil, nil, nil
	}
}

// ClearSheet removes every cell on sheet, creating the sheet if it is missing
func (s *Store) ClearSheet(ctx context.Context, sheet string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.ensureSheet(ctx, tx, sheet)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM cells WHERE sheet_id = ?`, id)
		return err
	})
	if err != nil {
		return s.fail("clear", sheet, err)
	}
	return nil
}

var _ host.Workbook = (*Store)(nil)
