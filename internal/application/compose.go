package application

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/no-hive/solidity-learning/internal/docgen"
	"github.com/no-hive/solidity-learning/internal/extensions"
	"github.com/no-hive/solidity-learning/internal/hardhat"
	"github.com/no-hive/solidity-learning/internal/options"
	"github.com/no-hive/solidity-learning/internal/plugins"
	"github.com/no-hive/solidity-learning/internal/storage"
	"github.com/no-hive/solidity-learning/internal/tasks"
)

// Params are the inputs of one composition pass.
type Params struct {
	// Overrides are the build options given on the command line.
	Overrides options.Overrides
	// LookupEnv reads environment variables; nil means the process environment.
	LookupEnv func(string) (string, bool)
	// FS is rooted at the project directory.
	FS fs.FS
	// ExtensionDir defaults to extensions.DefaultDir.
	ExtensionDir string
	// StrictDocgen makes missing or malformed documentation options fatal.
	StrictDocgen bool
	// Plugins defaults to plugins.Default().
	Plugins []plugins.Plugin
	Logger  *zap.Logger
}

// Result is the output of Compose.
type Result struct {
	Options    options.Options
	Config     hardhat.Config
	Tasks      []tasks.Task
	Plugins    []string
	Extensions []string
}

// Compose resolves the build options, activates plugins and extensions,
// loads the documentation options and assembles the configuration. Each
// step completes before the next starts; the first failure aborts.
func Compose(ctx context.Context, p Params) (Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := options.Resolve(p.Overrides, p.LookupEnv)
	if err != nil {
		return Result{}, err
	}

	registry := tasks.NewRegistry()
	pluginList := p.Plugins
	if pluginList == nil {
		pluginList = plugins.Default()
	}
	if err := plugins.Activate(registry, pluginList, logger); err != nil {
		return Result{}, err
	}

	loader := &extensions.Loader{
		FS:        p.FS,
		Dir:       p.ExtensionDir,
		Registry:  registry,
		Options:   opts,
		LookupEnv: p.LookupEnv,
		Logger:    logger,
	}
	loaded, err := loader.Load(ctx)
	if err != nil {
		return Result{}, err
	}

	docs, err := docgen.Load(p.FS, p.StrictDocgen, logger)
	if err != nil {
		return Result{}, fmt.Errorf("load documentation options: %w", err)
	}

	cfg := hardhat.Assemble(opts, docs)
	logger.Info("configuration composed",
		zap.String("compiler", opts.Compiler),
		zap.String("evm", opts.EVM),
		zap.Int("runs", opts.Runs),
		zap.Int("extensions", len(loaded)),
		zap.Int("tasks", len(registry.Tasks())),
	)

	return Result{
		Options:    opts,
		Config:     cfg,
		Tasks:      registry.Tasks(),
		Plugins:    registry.Activated(),
		Extensions: loaded,
	}, nil
}

// Snapshot converts the result into the form kept by storage.
func (r Result) Snapshot(composedAt time.Time) storage.Snapshot {
	return storage.Snapshot{
		Config:     r.Config,
		Tasks:      r.Tasks,
		Plugins:    r.Plugins,
		Extensions: r.Extensions,
		ComposedAt: composedAt,
	}
}
