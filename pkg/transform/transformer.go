package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/ml/encode"
	"github.com/recovera-ai/platform/pkg/ml/scale"
	"github.com/recovera-ai/platform/pkg/schema"
)

// MissingColumnError reports an input table lacking a column the fitted
// transformer expects. Serving maps this to a schema-mismatch response.
type MissingColumnError struct {
	Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("input missing expected column %s", e.Column)
}

func IsMissingColumn(err error) bool {
	var mc MissingColumnError
	return errors.As(err, &mc)
}

// ColumnTransformer standardizes the schema's numeric required columns and
// one-hot encodes the categorical ones. Output ordering is fixed at fit
// time: the numeric block in schema order, then each categorical column's
// indicator block. Reloading a persisted transformer reproduces the exact
// column set and ordering used at fit time.
type ColumnTransformer struct {
	NumericColumns     []string              `json:"numeric_columns"`
	CategoricalColumns []string              `json:"categorical_columns"`
	Scaler             *scale.StandardScaler `json:"scaler"`
	Encoder            *encode.OneHotEncoder `json:"encoder"`
}

// Fit builds a transformer over the schema's required columns.
func Fit(frame *dataset.Frame, s *schema.Schema) (*ColumnTransformer, error) {
	t := &ColumnTransformer{
		NumericColumns:     s.NumericColumns(),
		CategoricalColumns: s.CategoricalColumns(),
		Scaler:             &scale.StandardScaler{},
		Encoder:            &encode.OneHotEncoder{},
	}

	numeric, err := numericRows(frame, t.NumericColumns)
	if err != nil {
		return nil, err
	}
	if err := t.Scaler.Fit(numeric); err != nil {
		return nil, fmt.Errorf("fitting scaler: %w", err)
	}

	var catColumns [][]string
	for _, col := range t.CategoricalColumns {
		cells, err := frame.Column(col)
		if err != nil {
			return nil, MissingColumnError{Column: col}
		}
		catColumns = append(catColumns, cells)
	}
	if len(catColumns) > 0 {
		if err := t.Encoder.Fit(catColumns); err != nil {
			return nil, fmt.Errorf("fitting encoder: %w", err)
		}
	}

	return t, nil
}

// Transform produces one numeric feature row per input row.
func (t *ColumnTransformer) Transform(frame *dataset.Frame) ([][]float64, error) {
	numeric, err := numericRows(frame, t.NumericColumns)
	if err != nil {
		return nil, err
	}
	scaled, err := t.Scaler.Transform(numeric)
	if err != nil {
		return nil, fmt.Errorf("scaling: %w", err)
	}

	catCells := make([][]string, len(t.CategoricalColumns))
	for i, col := range t.CategoricalColumns {
		cells, err := frame.Column(col)
		if err != nil {
			return nil, MissingColumnError{Column: col}
		}
		catCells[i] = cells
	}

	out := make([][]float64, frame.NumRows())
	for i := 0; i < frame.NumRows(); i++ {
		row := append([]float64(nil), scaled[i]...)
		if len(t.CategoricalColumns) > 0 {
			values := make([]string, len(t.CategoricalColumns))
			for c := range t.CategoricalColumns {
				values[c] = catCells[c][i]
			}
			encoded, err := t.Encoder.TransformRow(values)
			if err != nil {
				return nil, fmt.Errorf("encoding row %d: %w", i, err)
			}
			row = append(row, encoded...)
		}
		out[i] = row
	}
	return out, nil
}

// OutputNames returns the transformed column names in output order.
func (t *ColumnTransformer) OutputNames() ([]string, error) {
	names := append([]string(nil), t.NumericColumns...)
	if len(t.CategoricalColumns) > 0 {
		encoded, err := t.Encoder.FeatureNames(t.CategoricalColumns)
		if err != nil {
			return nil, err
		}
		names = append(names, encoded...)
	}
	return names, nil
}

// Width is the number of output feature columns.
func (t *ColumnTransformer) Width() int {
	return len(t.NumericColumns) + t.Encoder.Width()
}

func numericRows(frame *dataset.Frame, columns []string) ([][]float64, error) {
	parsed := make([][]float64, len(columns))
	for i, col := range columns {
		if !frame.HasColumn(col) {
			return nil, MissingColumnError{Column: col}
		}
		values, err := frame.Float64Column(col)
		if err != nil {
			return nil, fmt.Errorf("parsing column %s: %w", col, err)
		}
		parsed[i] = values
	}

	rows := make([][]float64, frame.NumRows())
	for i := range rows {
		row := make([]float64, len(columns))
		for j := range columns {
			row[j] = parsed[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}

// Save persists the fitted transformer as JSON.
func Save(path string, t *ColumnTransformer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	payload, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling transformer: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a transformer persisted by Save.
func Load(path string) (*ColumnTransformer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var t ColumnTransformer
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if t.Scaler == nil || t.Encoder == nil {
		return nil, fmt.Errorf("parsing %s: incomplete transformer", path)
	}
	return &t, nil
}
