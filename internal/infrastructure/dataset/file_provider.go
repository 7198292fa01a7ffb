package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// FileProvider reads the training table from a local CSV file.
type FileProvider struct {
	path string
}

// NewFileProvider creates a FileProvider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// FetchTrainingTable opens and parses the file on every call.
func (p *FileProvider) FetchTrainingTable(ctx context.Context) (*model.TrainingTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.DataUnavailableError{Source: p.path, Err: err}
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, &model.DataUnavailableError{Source: p.path, Err: err}
	}
	defer f.Close()

	table, err := ParseCSV(f)
	if err != nil {
		return nil, &model.DataUnavailableError{Source: p.path, Err: fmt.Errorf("failed to parse dataset: %w", err)}
	}
	return table, nil
}
