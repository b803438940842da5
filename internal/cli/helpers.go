package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/internal/config"
	"github.com/aretw0/rail/internal/logging"
	"github.com/aretw0/rail/pkg/schema"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sc.sigCh)
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
			// Context cancelled elsewhere
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, if any.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Env is what every command needs: the resolved configuration and a logger.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
}

// Flags are the persistent flags shared by all commands. Zero values mean
// "not set" and leave the configuration untouched.
type Flags struct {
	ConfigPath string
	LogLevel   string
	Strict     bool
	StrictSet  bool
	Models     string
	ModelsPath string
}

// Setup loads the configuration, applies flag overrides and builds the
// logger.
func Setup(f Flags) (*Env, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.StrictSet {
		cfg.Strict = f.Strict
	}
	if f.Models != "" {
		cfg.Models.Source = f.Models
	}
	if f.ModelsPath != "" {
		cfg.Models.Path = f.ModelsPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Logger: logging.New(level)}, nil
}

// OpenGuard loads the schema file with the configured model registry.
// Models are resolved while the schema is built, so the registry is closed
// before returning.
func (e *Env) OpenGuard(ctx context.Context, path string, hooks schema.Hooks) (*rail.Guard, error) {
	models, closeModels, err := config.OpenModels(e.Config.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to open model registry: %w", err)
	}
	defer func() {
		if err := closeModels(); err != nil {
			e.Logger.Warn("failed to close model registry", "error", err)
		}
	}()

	return rail.LoadFile(ctx, path,
		rail.WithLogger(e.Logger),
		rail.WithStrict(e.Config.Strict),
		rail.WithModels(models),
		rail.WithHooks(hooks),
	)
}

// OpenInput opens path for reading, with "-" meaning stdin.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}
	return f, nil
}
