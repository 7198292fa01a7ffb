package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/heartrisk/pkg/postgres"
)

const selectPrediction = `
	SELECT id, name, age, gender, blood_pressure, cholesterol, chest_pain_type,
		prediction, strategy, version, created_at, predicted_at
	FROM heart_predictions
`

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

// Save persists a prediction and its risk factors in one transaction.
func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	rec := p.Record()
	age, _ := rec.Value(valueobject.FieldAge)
	gender, _ := rec.Value(valueobject.FieldGender)
	bloodPressure, _ := rec.Value(valueobject.FieldBloodPressure)
	cholesterol, _ := rec.Value(valueobject.FieldCholesterol)
	chestPain, _ := rec.Value(valueobject.FieldChestPainType)

	return pkgpostgres.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO heart_predictions (
				id, name, age, gender, blood_pressure, cholesterol, chest_pain_type,
				prediction, strategy, version, created_at, predicted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.ID(),
			p.Name(),
			age,
			int16(gender.IntPart()),
			bloodPressure,
			cholesterol,
			int16(chestPain.IntPart()),
			p.HasHeartDisease(),
			p.Strategy().String(),
			p.Version(),
			p.CreatedAt(),
			p.PredictedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save prediction: %w", err)
		}

		for i, factor := range p.RiskFactors() {
			_, err = tx.Exec(ctx,
				`INSERT INTO prediction_risk_factors (prediction_id, position, factor) VALUES ($1, $2, $3)`,
				p.ID(), int16(i), factor.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to save risk factor: %w", err)
			}
		}
		return nil
	})
}

// FindByID retrieves a prediction by its unique identifier.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	p, err := scanPrediction(r.pool.QueryRow(ctx, selectPrediction+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPredictionNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.withRiskFactors(ctx, p)
}

// List returns predictions newest first.
func (r *PredictionRepository) List(ctx context.Context, limit, offset int) ([]*model.Prediction, error) {
	rows, err := r.pool.Query(ctx, selectPrediction+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}

	// Drain the cursor before the per-row risk factor queries.
	var scanned []*model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		scanned = append(scanned, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	predictions := make([]*model.Prediction, 0, len(scanned))
	for _, p := range scanned {
		full, err := r.withRiskFactors(ctx, p)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, full)
	}
	return predictions, nil
}

func scanPrediction(row pgx.Row) (*model.Prediction, error) {
	var (
		id            uuid.UUID
		name          string
		age           decimal.Decimal
		gender        int16
		bloodPressure decimal.Decimal
		cholesterol   decimal.Decimal
		chestPain     int16
		prediction    bool
		strategyStr   string
		version       int
		createdAt     time.Time
		predictedAt   time.Time
	)

	err := row.Scan(
		&id, &name, &age, &gender, &bloodPressure, &cholesterol, &chestPain,
		&prediction, &strategyStr, &version, &createdAt, &predictedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	strategy, err := valueobject.StrategyNameFromString(strategyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse strategy: %w", err)
	}

	record, err := model.NewPatientRecord(name, map[valueobject.Field]decimal.Decimal{
		valueobject.FieldAge:           age,
		valueobject.FieldGender:        decimal.NewFromInt(int64(gender)),
		valueobject.FieldBloodPressure: bloodPressure,
		valueobject.FieldCholesterol:   cholesterol,
		valueobject.FieldChestPainType: decimal.NewFromInt(int64(chestPain)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild patient record: %w", err)
	}

	return model.Reconstruct(id, record, prediction, strategy, nil, version, createdAt, predictedAt), nil
}

func (r *PredictionRepository) withRiskFactors(ctx context.Context, p *model.Prediction) (*model.Prediction, error) {
	factors, err := r.loadRiskFactors(ctx, p.ID())
	if err != nil {
		return nil, err
	}
	return model.Reconstruct(
		p.ID(), p.Record(), p.HasHeartDisease(), p.Strategy(), factors,
		p.Version(), p.CreatedAt(), p.PredictedAt(),
	), nil
}

func (r *PredictionRepository) loadRiskFactors(ctx context.Context, predictionID uuid.UUID) ([]valueobject.RiskFactor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT factor FROM prediction_risk_factors WHERE prediction_id = $1 ORDER BY position`,
		predictionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk factors: %w", err)
	}
	defer rows.Close()

	factors := make([]valueobject.RiskFactor, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan risk factor: %w", err)
		}
		factor, err := valueobject.RiskFactorFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse risk factor: %w", err)
		}
		factors = append(factors, factor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk factors: %w", err)
	}
	return factors, nil
}
