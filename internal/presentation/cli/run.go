package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/application/usecase"
	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
	"github.com/bibbank/heartrisk/internal/infrastructure/config"
	"github.com/bibbank/heartrisk/internal/infrastructure/dataset"
	"github.com/bibbank/heartrisk/internal/infrastructure/ml"
	"github.com/bibbank/heartrisk/pkg/observability"
)

// Streams is where the CLI writes. Stdout only ever receives the result
// document; diagnostics and logs go to Stderr.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the process entrypoint: it parses args, reads the environment,
// executes and reports. It returns the exit status.
func Run(ctx context.Context, args []string, streams Streams) int {
	inv, err := ParseInvocation(args)
	if err != nil {
		fmt.Fprintln(streams.Stderr, err)
		return ExitCode(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(streams.Stderr, err)
		return ExitConfigError
	}

	if err := Execute(ctx, inv, cfg, streams); err != nil {
		fmt.Fprintln(streams.Stderr, err)
		return ExitCode(err)
	}
	return ExitSuccess
}

// Execute runs a parsed invocation against cfg. Flags in inv take precedence
// over cfg.
func Execute(ctx context.Context, inv Invocation, cfg *config.Config, streams Streams) error {
	inv.ApplyTo(cfg)
	if err := cfg.Validate(); err != nil {
		return configErrorf("invalid configuration: %v", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevelOr("warn"),
		Format:  cfg.LogFormatOr("text"),
		Output:  streams.Stderr,
		Service: "heartrisk",
	})

	switch inv.Command {
	case CommandTrain:
		return train(ctx, cfg, logger, streams.Stdout)
	default:
		return predict(ctx, inv.Payload, cfg, logger, streams.Stdout)
	}
}

func predict(ctx context.Context, payload string, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	record, err := dto.DecodePatientRecord([]byte(payload))
	if err != nil {
		return err
	}

	name, err := cfg.ScoringStrategy()
	if err != nil {
		return configErrorf("%v", err)
	}

	var provider port.ClassifierProvider
	if name.Equal(valueobject.StrategyLearnedClassifier) {
		provider, err = classifierProvider(ctx, cfg, logger)
		if err != nil {
			return err
		}
	}

	strategy, err := service.NewScoringStrategy(name, provider)
	if err != nil {
		return configErrorf("%v", err)
	}

	out, err := usecase.NewEvaluatePatient(strategy, logger).Execute(ctx, record)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(stdout).Encode(out); err != nil {
		return fmt.Errorf("failed to write prediction: %w", err)
	}
	return nil
}

func train(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	source, err := openDataset(ctx, cfg.Dataset)
	if err != nil {
		return err
	}

	out := cfg.ModelPath
	if out == "" {
		out = defaultModelPath
	}
	trainer := ml.NewTrainer(cfg.Trainer(), ml.NewFileStore(out), logger)

	report, err := usecase.NewTrainModel(source, trainer).Execute(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write training report: %w", err)
	}
	return nil
}

// classifierProvider prefers a persisted artifact and otherwise fits from
// the dataset on this invocation.
func classifierProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ClassifierProvider, error) {
	if cfg.ModelPath != "" {
		return ml.NewProvider(nil, nil, ml.NewFileStore(cfg.ModelPath), logger), nil
	}

	source, err := openDataset(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return ml.NewProvider(source, ml.NewTrainer(cfg.Trainer(), nil, logger), nil, logger), nil
}

func openDataset(ctx context.Context, location string) (port.DatasetProvider, error) {
	source, err := dataset.Open(ctx, location)
	if err != nil {
		if model.IsDataUnavailable(err) {
			return nil, err
		}
		return nil, configErrorf("invalid dataset location: %v", err)
	}
	return source, nil
}
