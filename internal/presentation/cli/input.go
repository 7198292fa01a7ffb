package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/infrastructure/config"
)

const (
	ExitSuccess           = 0
	ExitDataUnavailable   = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

const usage = `usage: heartrisk [-strategy rule-based|learned-classifier] [-dataset LOC] [-model PATH] '<json>'
       heartrisk train [-dataset LOC] [-out PATH] [-trees N] [-seed N] [-test-size F]`

// defaultModelPath is where "train" writes when neither -out nor
// HEARTRISK_MODEL_PATH is given.
const defaultModelPath = "models/heart-model.json"

type Command string

const (
	CommandPredict Command = "predict"
	CommandTrain   Command = "train"
)

// Invocation is the parsed command line. Flag values only override the
// environment configuration when the flag was given explicitly.
type Invocation struct {
	set      map[string]bool
	Command  Command
	Payload  string
	Strategy string
	Dataset  string
	Model    string
	Out      string
	TestSize float64
	Seed     uint64
	Trees    int
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses the argument slice (excluding argv[0]).
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, invalidInvocationf("%s", usage)
	}

	inv := Invocation{Command: CommandPredict, set: make(map[string]bool)}
	if args[0] == string(CommandTrain) {
		inv.Command = CommandTrain
		args = args[1:]
	}

	fs := flag.NewFlagSet("heartrisk", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	fs.StringVar(&inv.Dataset, "dataset", "", "Training CSV location: a local path or s3://bucket/key.")
	switch inv.Command {
	case CommandPredict:
		fs.StringVar(&inv.Strategy, "strategy", "", "Scoring strategy: rule-based|learned-classifier")
		fs.StringVar(&inv.Model, "model", "", "Fitted model artifact to score with instead of fitting.")
	case CommandTrain:
		fs.StringVar(&inv.Out, "out", "", "Where to write the fitted model artifact.")
		fs.IntVar(&inv.Trees, "trees", 0, "Number of trees in the forest.")
		fs.Uint64Var(&inv.Seed, "seed", 0, "Random seed for the split and the forest.")
		fs.Float64Var(&inv.TestSize, "test-size", 0, "Fraction of rows held out for evaluation.")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Invocation{}, invalidInvocationf("%s", usage)
		}
		return Invocation{}, invalidInvocationf("%v", err)
	}
	fs.Visit(func(f *flag.Flag) { inv.set[f.Name] = true })

	switch inv.Command {
	case CommandPredict:
		if fs.NArg() != 1 {
			return Invocation{}, invalidInvocationf("expected exactly one JSON patient record argument, got %d\n%s", fs.NArg(), usage)
		}
		inv.Payload = fs.Arg(0)
	case CommandTrain:
		if fs.NArg() != 0 {
			return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
		}
	}

	return inv, nil
}

// ApplyTo overrides cfg with every flag that was given explicitly.
func (inv Invocation) ApplyTo(cfg *config.Config) {
	if inv.set["strategy"] {
		cfg.Strategy = inv.Strategy
	}
	if inv.set["dataset"] {
		cfg.Dataset = inv.Dataset
	}
	if inv.set["model"] {
		cfg.ModelPath = inv.Model
	}
	if inv.set["out"] {
		cfg.ModelPath = inv.Out
	}
	if inv.set["trees"] {
		cfg.ForestTrees = inv.Trees
	}
	if inv.set["seed"] {
		cfg.Seed = inv.Seed
	}
	if inv.set["test-size"] {
		cfg.TestSize = inv.TestSize
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	switch {
	case model.IsInputError(err):
		return ExitInvalidInvocation
	case model.IsDataUnavailable(err):
		return ExitDataUnavailable
	default:
		return ExitInternalError
	}
}
