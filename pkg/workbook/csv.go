package workbook

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// InferCell turns a CSV field into a cell. Numbers and TRUE/FALSE become
// typed cells, blank fields become empty cells, everything else is text.
func InferCell(field string) models.CellValue {
	if strings.TrimSpace(field) == "" {
		return models.EmptyCell()
	}
	switch strings.ToUpper(field) {
	case "TRUE":
		return models.BoolCell(true)
	case "FALSE":
		return models.BoolCell(false)
	}
	if n, err := strconv.ParseFloat(field, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return models.NumberCell(n)
	}
	return models.StringCell(field)
}

// ImportCSV replaces the contents of sheet with the records read from r and
// returns the number of rows imported. The import is a single transaction.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader, sheet string) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read csv: %w", err)
	}

	grid := make(models.Grid, len(records))
	for i, rec := range records {
		grid[i] = make([]models.CellValue, len(rec))
		for j, field := range rec {
			grid[i][j] = InferCell(field)
		}
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.ensureSheet(ctx, tx, sheet)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE sheet_id = ?`, id); err != nil {
			return err
		}
		return writeCells(ctx, tx, id, 0, 0, grid)
	})
	if err != nil {
		return 0, s.fail("import", sheet, err)
	}

	s.logger.Info("Imported csv", zap.String("sheet", sheet), zap.Int("rows", len(records)))
	return len(records), nil
}

// ExportCSV writes the used extent of sheet to w. Numbers use their shortest
// representation and booleans export as TRUE/FALSE.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer, sheet string) error {
	rows, cols, err := s.Bounds(ctx, sheet)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if rows > 0 {
		ref := host.Range{Sheet: sheet, EndRow: rows - 1, EndCol: cols - 1}
		grid, err := s.read(ctx, s.db, ref)
		if err != nil {
			return s.fail("export", sheet, err)
		}
		for _, row := range grid {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = v.String()
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
