package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/graphcompiler/internal/app"
	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/dag"
	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/plan"
	"github.com/specialistvlad/graphcompiler/internal/plancache"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
	// ExitInvalidGraph reports a graph that cannot be compiled.
	ExitInvalidGraph = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// exitError maps err to an ExitError. Compilation failures get their own
// code so scripts can tell a bad graph from a failed run.
func exitError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var (
		structural *graph.StructuralError
		unbound    *plan.UnboundInputError
	)
	switch {
	case errors.As(err, &structural),
		errors.As(err, &unbound),
		errors.Is(err, dag.ErrCycle),
		errors.Is(err, config.ErrInvalidDescription):
		return &ExitError{Code: ExitInvalidGraph, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
	redisURL  string
	cacheTTL  time.Duration
	cacheSize int
	fields    map[string]string
}

func (f *globalFlags) mapping() (config.FieldMapping, error) {
	m := config.DefaultFieldMapping()
	targets := map[string]*string{
		"id":            &m.ID,
		"type":          &m.Type,
		"function_key":  &m.FunctionKey,
		"alias":         &m.Alias,
		"default":       &m.Default,
		"data":          &m.Data,
		"source":        &m.Source,
		"source_output": &m.SourceOutput,
		"target":        &m.Target,
		"target_input":  &m.TargetInput,
	}
	for attr, field := range f.fields {
		dst, ok := targets[attr]
		if !ok {
			return m, usageError("unknown field mapping attribute %q", attr)
		}
		*dst = field
	}
	return m, nil
}

// config builds the app configuration from the flags.
func (f *globalFlags) config(healthcheckPort int) (*app.Config, error) {
	m, err := f.mapping()
	if err != nil {
		return nil, err
	}
	cfg, err := app.NewConfig(app.Config{
		Mapping:         m,
		LogFormat:       strings.ToLower(f.logFormat),
		LogLevel:        strings.ToLower(f.logLevel),
		HealthcheckPort: healthcheckPort,
		RedisURL:        f.redisURL,
		CacheTTL:        f.cacheTTL,
		CacheSize:       f.cacheSize,
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}

// newApp creates the App for a command, writing results to the command's
// output and logs to its error stream.
func (f *globalFlags) newApp(cmd *cobra.Command, healthcheckPort int) (*app.App, error) {
	cfg, err := f.config(healthcheckPort)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
}

// NewRootCommand builds the graphc command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "graphc",
		Short: "Compile and run dataflow graphs",
		Long: `graphc compiles a dataflow graph description (JSON, YAML or HCL) into an
execution plan: nodes that do not contribute to an output are pruned, the rest
are scheduled in dependency order and bound to the built-in functions.

Flag defaults can be set through GRAPHC_* environment variables, which are
also read from a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", envString(envLogLevel, "info"), "Logging level: debug, info, warn or error.")
	pf.StringVar(&flags.logFormat, "log-format", envString(envLogFormat, defaultLogFormat(errW)), "Log output format: text or json.")
	pf.StringVar(&flags.redisURL, "redis-url", envString(envRedisURL, ""), "Redis URL of the shared plan store. Disabled when empty.")
	pf.DurationVar(&flags.cacheTTL, "cache-ttl", envDuration(envCacheTTL, 24*time.Hour), "Expiry of cached plans. 0 keeps them forever.")
	pf.IntVar(&flags.cacheSize, "cache-size", envInt(envCacheSize, plancache.DefaultCapacity), "Number of compiled plans kept in process.")
	pf.StringToStringVar(&flags.fields, "field", nil, "Override a description field name, e.g. --field function_key=type_id.")

	root.AddCommand(
		newCompileCommand(flags),
		newRunCommand(flags),
		newExportCommand(flags),
		newAttachCommand(flags),
		newFunctionsCommand(flags),
	)
	return root
}

// Execute loads the .env file, runs the command line args and maps the
// outcome to an ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	if err := loadDotEnv(); err != nil {
		return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("failed to load .env file: %v", err)}
	}

	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitError(err)
	}
	return nil
}
