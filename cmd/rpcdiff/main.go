// Package main provides the rpcdiff binary entry point.
// rpcdiff compares two OpenRPC documents and reports, per method, whether
// the right document is compatible with the left one.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openbindings/rpcdiff"
	"github.com/openbindings/rpcdiff/openrpc"
	"github.com/openbindings/rpcdiff/report"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "rpcdiff"

	formatEnv = "RPCDIFF_FORMAT"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitUsage)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// runError marks failures that happened after the arguments were accepted.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var re *runError
		if errors.As(err, &re) {
			return exitError
		}
		return exitUsage
	}
	return exitOK
}

type options struct {
	format      string
	logLevel    string
	concurrency int
	strict      bool
	methods     []string
}

func rootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "rpcdiff LEFT RIGHT",
		Short: "Compare two OpenRPC documents",
		Long: `rpcdiff compares two versions of an OpenRPC document.

Methods are matched by name. Parameters are compared by position and
results directly. Each method present on both sides is reported as
equivalent or with the structural and requiredness changes between its
descriptors. Methods present on only one side are listed separately.

Documents may be JSON or YAML.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(o.format)
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], format, o); err != nil {
				return &runError{err: err}
			}
			return nil
		},
	}

	defaultFormat := string(report.FormatYAML)
	if env := os.Getenv(formatEnv); env != "" {
		defaultFormat = env
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", defaultFormat, "Output format (text, json, yaml); defaults to $"+formatEnv+" when set")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "j", 1, "Number of methods compared in parallel")
	cmd.Flags().StringSliceVarP(&o.methods, "method", "m", nil, "Only compare methods matching this glob (repeatable)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Validate document shape and reject unknown fields and unsupported versions")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			lo, hi := openrpc.SupportedRange()
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s, openrpc %s-%s)\n", appName, Version, BuildTime, lo, hi)
		},
	})

	return cmd
}

func newLogger(w io.Writer, level string) *slog.Logger {
	l := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func run(ctx context.Context, stdout, stderr io.Writer, left, right string, format report.Format, o options) error {
	logger := newLogger(stderr, o.logLevel)
	slog.SetDefault(logger)

	loadOpts := []openrpc.LoadOption{openrpc.WithLogger(logger)}
	if o.strict {
		loadOpts = append(loadOpts, openrpc.WithValidation(
			openrpc.WithRejectUnknownTypedFields(),
			openrpc.WithRequireSupportedVersion(),
		))
	}

	summary, err := rpcdiff.CompareFiles(ctx, openrpc.NewLoader(loadOpts...), left, right,
		rpcdiff.WithConcurrency(o.concurrency),
		rpcdiff.WithLogger(logger),
		rpcdiff.WithMethods(o.methods...),
	)
	if err != nil {
		return err
	}
	logger.Info("comparison complete",
		"left", left, "right", right,
		"equivalent", len(summary.Equivalent), "different", len(summary.Different))

	r, err := report.New(format)
	if err != nil {
		return err
	}
	return r.Render(stdout, summary)
}
