package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "str"
)

// Schema is the declarative feature contract consumed by validation and
// transformation. Immutable after Load.
type Schema struct {
	ColumnDtypes    map[string]string `yaml:"column_dtypes"`
	RequiredColumns []string          `yaml:"required_columns"`
	TargetColumn    string            `yaml:"target_column"`
	DroppedColumns  []string          `yaml:"dropped_columns"`
}

// Load reads the schema file and returns the section for the given domain
// key. A missing file, malformed document, or absent domain is a
// configuration error.
func Load(path, domain string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}

	var doc map[string]*Schema
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}

	s, ok := doc[domain]
	if !ok || s == nil {
		return nil, fmt.Errorf("schema file %s has no %q section", path, domain)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("schema %q invalid: %w", domain, err)
	}
	return s, nil
}

func (s *Schema) check() error {
	if len(s.RequiredColumns) == 0 {
		return fmt.Errorf("required_columns is empty")
	}
	if s.TargetColumn == "" {
		return fmt.Errorf("target_column is empty")
	}
	for _, col := range s.RequiredColumns {
		dtype, ok := s.ColumnDtypes[col]
		if !ok {
			return fmt.Errorf("required column %s has no declared dtype", col)
		}
		switch dtype {
		case TypeInt, TypeFloat, TypeString:
		default:
			return fmt.Errorf("column %s has unsupported dtype %q", col, dtype)
		}
	}
	return nil
}

// NumericColumns returns the required columns declared int or float, in
// required_columns order.
func (s *Schema) NumericColumns() []string {
	var cols []string
	for _, col := range s.RequiredColumns {
		if dtype := s.ColumnDtypes[col]; dtype == TypeInt || dtype == TypeFloat {
			cols = append(cols, col)
		}
	}
	return cols
}

// CategoricalColumns returns the required columns declared str, in
// required_columns order.
func (s *Schema) CategoricalColumns() []string {
	var cols []string
	for _, col := range s.RequiredColumns {
		if s.ColumnDtypes[col] == TypeString {
			cols = append(cols, col)
		}
	}
	return cols
}
