package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// ParseCSV reads a heart-disease CSV with a header row. Only the classifier
// feature columns and the label column are kept; other columns are ignored.
func ParseCSV(r io.Reader) (*model.TrainingTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := model.FeatureColumns()
	featureAt := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("dataset is missing column %q", col)
		}
		featureAt[i] = pos
	}
	labelAt, ok := positions[model.LabelColumn]
	if !ok {
		return nil, fmt.Errorf("dataset is missing column %q", model.LabelColumn)
	}

	table := &model.TrainingTable{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := make([]float64, len(columns))
		for i, pos := range featureAt {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[pos]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, columns[i], err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: column %q: value %q is not finite", line, columns[i], record[pos])
			}
			row[i] = v
		}

		label, err := strconv.Atoi(strings.TrimSpace(record[labelAt]))
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", line, model.LabelColumn, err)
		}

		table.Rows = append(table.Rows, row)
		table.Labels = append(table.Labels, label)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
