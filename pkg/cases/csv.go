package cases

import (
	"context"
	"os"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
)

// LoadCSV reads a CSV file into a fitness-case table.
// - First row is header (column names)
// - Auto-detects column types (int64, float64, bool, string)
// - Empty values become nil
func LoadCSV(path string) (*Table, error) {
	df, err := loadCSVFrame(path)
	if err != nil {
		return nil, err
	}
	return NewTable(df)
}

func loadCSVFrame(path string) (*dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ctx := context.Background()
	df, err := imports.LoadFromCSV(ctx, file, imports.CSVLoadOptions{
		// Auto-detect types (default behavior)
		InferDataTypes: true,
	})
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyTable
	}

	return df, nil
}
