package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// PredictionRepository implements port.PredictionRepository in process
// memory. It is used when no database is configured.
type PredictionRepository struct {
	byID map[uuid.UUID]*model.Prediction
	mu   sync.RWMutex
}

// NewPredictionRepository creates an empty repository.
func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{byID: make(map[uuid.UUID]*model.Prediction)}
}

// Save stores p, replacing any prediction with the same ID.
func (r *PredictionRepository) Save(_ context.Context, p *model.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID()] = p
	return nil
}

// FindByID returns model.ErrPredictionNotFound when id is unknown.
func (r *PredictionRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, model.ErrPredictionNotFound
	}
	return p, nil
}

// List returns predictions newest first.
func (r *PredictionRepository) List(_ context.Context, limit, offset int) ([]*model.Prediction, error) {
	r.mu.RLock()
	all := make([]*model.Prediction, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt().After(all[j].CreatedAt())
	})

	if offset >= len(all) {
		return []*model.Prediction{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
