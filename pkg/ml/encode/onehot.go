package encode

import (
	"fmt"
	"sort"
)

// OneHotEncoder maps categorical string columns to indicator vectors. The
// vocabulary per column is the sorted set of categories seen at fit time;
// unknown categories at transform time encode as the all-zero block.
type OneHotEncoder struct {
	Categories [][]string `json:"categories"` // per column, sorted
}

func (e *OneHotEncoder) Fit(columns [][]string) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns to fit")
	}
	e.Categories = make([][]string, len(columns))
	for c, values := range columns {
		seen := make(map[string]struct{})
		for _, v := range values {
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[c] = cats
	}
	return nil
}

// Width is the total number of output columns.
func (e *OneHotEncoder) Width() int {
	var w int
	for _, cats := range e.Categories {
		w += len(cats)
	}
	return w
}

// TransformRow encodes one value per fitted column into a flat indicator
// vector.
func (e *OneHotEncoder) TransformRow(values []string) ([]float64, error) {
	if len(values) != len(e.Categories) {
		return nil, fmt.Errorf("row has %d values, encoder fitted on %d columns", len(values), len(e.Categories))
	}
	out := make([]float64, 0, e.Width())
	for c, v := range values {
		block := make([]float64, len(e.Categories[c]))
		if idx := sort.SearchStrings(e.Categories[c], v); idx < len(e.Categories[c]) && e.Categories[c][idx] == v {
			block[idx] = 1
		}
		out = append(out, block...)
	}
	return out, nil
}

// FeatureNames returns one name per output column, prefixed by the source
// column name.
func (e *OneHotEncoder) FeatureNames(columns []string) ([]string, error) {
	if len(columns) != len(e.Categories) {
		return nil, fmt.Errorf("%d column names for %d fitted columns", len(columns), len(e.Categories))
	}
	var names []string
	for c, cats := range e.Categories {
		for _, cat := range cats {
			names = append(names, columns[c]+"="+cat)
		}
	}
	return names, nil
}
