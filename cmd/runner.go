package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"ytsweep/internal/services"
	"ytsweep/internal/session"
	"ytsweep/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Output writes are serialized so progress goroutines can share the writer
// with command actions.
type Runner struct {
	config   *shared.Config
	logger   *log.Logger
	output   io.Writer
	outputMu sync.Mutex
	input    *bufio.Reader
	source   services.PlaylistSource
	mutator  services.PlaylistMutator
	searcher services.CatalogSearcher
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Source, Mutator and Searcher are normally left nil and connected lazily by
// [Runner.ensureServices] after authentication; tests inject fakes here.
type RunnerOpts struct {
	Config   *shared.Config
	Logger   *log.Logger
	Output   io.Writer
	Input    io.Reader
	Source   services.PlaylistSource
	Mutator  services.PlaylistMutator
	Searcher services.CatalogSearcher
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:   opts.Config,
		logger:   opts.Logger,
		output:   opts.Output,
		input:    bufio.NewReader(opts.Input),
		source:   opts.Source,
		mutator:  opts.Mutator,
		searcher: opts.Searcher,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, dedupeCommand, importCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureServices connects the catalog ports through an authenticated session.
// Ports injected at construction time are left untouched.
func (r *Runner) ensureServices(ctx context.Context) error {
	if r.source != nil && r.mutator != nil && r.searcher != nil {
		return nil
	}

	sess, err := session.New(r.config, r.logger)
	if err != nil {
		return err
	}

	if err := sess.LoadOrAuthenticate(ctx, r.output); err != nil {
		return err
	}

	client, err := sess.Client(ctx)
	if err != nil {
		return err
	}

	svc, err := services.NewYouTubeService(ctx, client)
	if err != nil {
		return err
	}

	if r.source == nil {
		r.source = svc
	}
	if r.mutator == nil {
		r.mutator = svc
	}
	if r.searcher == nil {
		r.searcher = svc
	}

	return nil
}

// loadConfig reloads configuration from the path given on the command line,
// falling back to the runner's current configuration.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		return r.config
	}

	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current", "path", path, "error", err)
		return r.config
	}

	shared.ApplyEnv(config)
	r.config = config
	return config
}

// prompt writes a label and reads one trimmed line from the input.
func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}

	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return strings.TrimSpace(line), nil
}

// promptYesNo asks a yes/no question. Only "y" and "yes" count as yes.
func (r *Runner) promptYesNo(label string) (bool, error) {
	answer, err := r.prompt(label)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	r.outputMu.Lock()
	defer r.outputMu.Unlock()

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)

	r.outputMu.Lock()
	defer r.outputMu.Unlock()

	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
