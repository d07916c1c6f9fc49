package cases

import (
	"bytes"
	"context"
	"os"

	"github.com/rocketlaunchr/dataframe-go/imports"
)

// LoadJSON reads a JSON file containing an array of objects into a
// fitness-case table. The JSON must be in the format:
// [{"x0": val, "y0": val}, ...]. Column types are inferred.
func LoadJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, ErrEmptyTable
	}

	reader := bytes.NewReader(data)
	ctx := context.Background()

	df, err := imports.LoadFromJSON(ctx, reader)
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyTable
	}

	return NewTable(df)
}
