// Package dataset reads labeled customer tables in the Telco CSV layout.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
)

// Column names with special meaning.
const (
	IDColumn    = "customerID"
	LabelColumn = "Churn"
)

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Table is a parsed CSV file. Labels is nil when the file has no label column.
type Table struct {
	IDs     []string
	Records []feature.RawRecord
	Labels  []int
}

// ReadTable parses a CSV with a header row. A column whose non-blank cells
// all parse as numbers is numeric, and its blank cells become 0. Every other
// column is categorical.
func ReadTable(r io.Reader) (Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) < 2 {
		return Table{}, service.ErrEmptyDataset
	}
	header, body := rows[0], rows[1:]

	idCol, labelCol := -1, -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		switch header[i] {
		case IDColumn:
			idCol = i
		case LabelColumn:
			labelCol = i
		}
	}

	numeric := make([]bool, len(header))
	for c := range header {
		if c == idCol || c == labelCol {
			continue
		}
		numeric[c] = isNumericColumn(body, c)
	}

	t := Table{Records: make([]feature.RawRecord, 0, len(body))}
	for r, row := range body {
		line := r + 2
		fields := make([]feature.Field, 0, len(header))
		for c, cell := range row {
			cell = strings.TrimSpace(cell)
			switch {
			case c == idCol:
				t.IDs = append(t.IDs, cell)
			case c == labelCol:
				y, err := parseLabel(cell)
				if err != nil {
					return Table{}, fmt.Errorf("line %d: %w", line, err)
				}
				t.Labels = append(t.Labels, y)
			case numeric[c]:
				fields = append(fields, feature.Field{Name: header[c], Value: numericValue(cell)})
			default:
				fields = append(fields, feature.Field{Name: header[c], Value: feature.String(cell)})
			}
		}
		rec, err := feature.NewRawRecord(fields...)
		if err != nil {
			return Table{}, fmt.Errorf("line %d: %w", line, err)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func isNumericColumn(rows [][]string, c int) bool {
	seen := false
	for _, row := range rows {
		cell := strings.TrimSpace(row[c])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func numericValue(cell string) feature.Value {
	if cell == "" {
		return feature.Int(0)
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return feature.Int(i)
	}
	f, _ := strconv.ParseFloat(cell, 64)
	return feature.Float(f)
}

func parseLabel(s string) (int, error) {
	switch strings.ToLower(s) {
	case "yes", "1", "true":
		return estimator.LabelChurn, nil
	case "no", "0", "false":
		return estimator.LabelStay, nil
	default:
		return 0, fmt.Errorf("%w: %q", service.ErrInvalidLabel, s)
	}
}

// Source implements port.DatasetSource over a file system, usually the
// configured dataset directory.
type Source struct {
	fsys    fs.FS
	encoder *feature.Encoder
}

func NewSource(fsys fs.FS, encoder *feature.Encoder) *Source {
	return &Source{fsys: fsys, encoder: encoder}
}

// Load reads the named CSV and encodes every row. Only the base name is
// used, so callers cannot reach outside the dataset directory.
func (s *Source) Load(ctx context.Context, name string) (service.LabeledDataset, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return service.LabeledDataset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	f, err := s.fsys.Open(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return service.LabeledDataset{}, fmt.Errorf("%w: %q", ErrNotFound, base)
		}
		return service.LabeledDataset{}, fmt.Errorf("failed to open dataset %q: %w", base, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return service.LabeledDataset{}, fmt.Errorf("dataset %q: %w", base, err)
	}
	if t.Labels == nil {
		return service.LabeledDataset{}, fmt.Errorf("dataset %q has no %s column", base, LabelColumn)
	}
	if err := ctx.Err(); err != nil {
		return service.LabeledDataset{}, err
	}

	ds := service.LabeledDataset{
		Records: make([]feature.EncodedRecord, len(t.Records)),
		Labels:  t.Labels,
	}
	for i, rec := range t.Records {
		ds.Records[i] = s.encoder.Encode(rec)
	}
	return ds, nil
}
