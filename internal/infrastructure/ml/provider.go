package ml

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
)

// defaultRetryBackoff is how long a failed load is reported to callers
// before the next attempt.
const defaultRetryBackoff = 5 * time.Second

// Provider implements port.ClassifierProvider. It loads the persisted artifact
// when a store is configured, otherwise it fetches the dataset and fits.
// The result is cached for the lifetime of the Provider. Concurrent callers
// share one attempt, and a failure is served from cache for the retry backoff.
type Provider struct {
	dataset port.DatasetProvider
	trainer *Trainer
	store   *FileStore
	logger  *slog.Logger
	group   singleflight.Group

	mu           sync.Mutex
	cached       *Model
	lastErr      error
	failedAt     time.Time
	retryBackoff time.Duration
}

// ProviderOption customizes a Provider.
type ProviderOption func(*Provider)

// WithRetryBackoff sets how long a failure is remembered. Zero retries on
// every call.
func WithRetryBackoff(d time.Duration) ProviderOption {
	return func(p *Provider) { p.retryBackoff = d }
}

// NewProvider creates a Provider. Either store or dataset must be non-nil.
func NewProvider(dataset port.DatasetProvider, trainer *Trainer, store *FileStore, logger *slog.Logger, opts ...ProviderOption) *Provider {
	p := &Provider{
		dataset:      dataset,
		trainer:      trainer,
		store:        store,
		logger:       logger,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Classifier returns the cached model, loading or fitting it on first use.
// Any failure to obtain training data or the artifact is reported as a
// *model.DataUnavailableError.
func (p *Provider) Classifier(ctx context.Context) (port.Classifier, error) {
	if m, err := p.current(); m != nil || err != nil {
		return classifierOrErr(m, err)
	}

	v, err, _ := p.group.Do("classifier", func() (any, error) {
		if m, err := p.current(); m != nil || err != nil {
			return m, err
		}

		m, err := p.obtain(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			// A cancelled caller says nothing about the data source.
			if ctx.Err() == nil {
				p.lastErr, p.failedAt = err, time.Now()
			}
			return nil, err
		}
		p.cached, p.lastErr = m, nil
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return classifierOrErr(v.(*Model), nil)
}

// current returns the cached model, or the last failure while it is still
// within the retry backoff. Both are nil when a new attempt is due.
func (p *Provider) current() (*Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}
	if p.lastErr != nil && time.Since(p.failedAt) < p.retryBackoff {
		return nil, p.lastErr
	}
	return nil, nil
}

func classifierOrErr(m *Model, err error) (port.Classifier, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Provider) obtain(ctx context.Context) (*Model, error) {
	if p.store != nil {
		m, err := p.store.Load(ctx)
		if err != nil {
			return nil, &model.DataUnavailableError{Source: p.store.Path(), Err: err}
		}
		p.logger.Debug("model artifact loaded", slog.String("path", p.store.Path()))
		return m, nil
	}

	if p.dataset == nil || p.trainer == nil {
		return nil, &model.DataUnavailableError{Source: "classifier", Err: fmt.Errorf("no dataset or model artifact configured")}
	}

	table, err := p.dataset.FetchTrainingTable(ctx)
	if err != nil {
		if model.IsDataUnavailable(err) {
			return nil, err
		}
		return nil, &model.DataUnavailableError{Source: "dataset", Err: err}
	}

	m, err := p.trainer.Fit(ctx, table)
	if err != nil {
		return nil, &model.DataUnavailableError{Source: "dataset", Err: err}
	}
	return m, nil
}
