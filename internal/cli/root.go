// Package cli implements the nuclibre command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Log formats accepted by --log-format.
const (
	logFormatJSON    = "json"
	logFormatConsole = "console"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	logFormat string
	verbose   bool
	silent    bool
}

// app is the state shared by the subcommands of one root command.
type app struct {
	flags rootFlags
	log   *zap.Logger
	runID string
}

// exitErr carries an exit code through cobra's error return.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitErr{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitErr{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to a process exit code.
// Errors not raised by a command itself, such as flag parse errors, are
// user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitErr
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "nuclibre" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "nuclibre",
		Short: "Build a nuclide decay library from ENSDF data",
		Long: "nuclibre parses ENSDF evaluated nuclear structure data, reconciles the\n" +
			"decay schemes and writes nuclides, states, decays and emission lines\n" +
			"to CSV, SQLite, Postgres or JSONL.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/nuclibre)")
	pf.StringVar(&a.flags.logFormat, "log-format", logFormatJSON, "log format: json or console")
	pf.BoolVarP(&a.flags.verbose, "verbose", "w", false, "log warnings and debug diagnostics of parsing and encoding")
	pf.BoolVarP(&a.flags.silent, "silent", "s", false, "log errors only")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newBrowseCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setupLogger builds the run logger from the global flags. Entries go to
// w and carry the run id. Verbose wins over silent.
func (a *app) setupLogger(w io.Writer) error {
	id, err := uuid.NewV7()
	if err != nil {
		return sysError("generate run id: %w", err)
	}
	a.runID = id.String()

	var cfg zap.Config
	switch a.flags.logFormat {
	case logFormatJSON:
		cfg = zap.NewProductionConfig()
	case logFormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return userError("unknown log format %q", a.flags.logFormat)
	}
	level := zapcore.InfoLevel
	switch {
	case a.flags.verbose:
		level = zapcore.DebugLevel
	case a.flags.silent:
		level = zapcore.ErrorLevel
	}

	enc := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	if a.flags.logFormat == logFormatConsole {
		enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level)
	a.log = zap.New(core, zap.AddCaller()).With(zap.String("run_id", a.runID))
	return nil
}
