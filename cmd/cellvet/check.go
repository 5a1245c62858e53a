package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kolkov/impcell/cmd/cellvet/lint"
	"github.com/kolkov/impcell/internal/logging"
)

// errFindings makes the command fail without printing an extra message.
var errFindings = errors.New("findings reported")

type checkOptions struct {
	config  string
	jobs    int
	noColor bool
	verbose bool
}

var checkOpts checkOptions

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check Go files for unreleased cell tokens",
	Long: `Check Go files for unreleased cell tokens.

Directories are walked recursively; a trailing /... is accepted. Files in
modules that neither are nor require github.com/kolkov/impcell are skipped.

Rules:
  discarded-token  h.Read() or h.Write() result dropped
  chained-token    h.Write().Set(v) never releases the token
  leaked-token     r := h.Read() without r.Release()`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args, checkOpts)
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkOpts.config, "config", "", "path to .cellvet.toml (default: nearest above the working directory)")
	f.IntVarP(&checkOpts.jobs, "jobs", "j", 0, "files checked in parallel (0 = [run].jobs or GOMAXPROCS)")
	f.BoolVar(&checkOpts.noColor, "no-color", false, "disable colored output")
	f.BoolVarP(&checkOpts.verbose, "verbose", "v", false, "log skipped modules")
}

func loadConfig(path string) (lint.Config, error) {
	if path != "" {
		return lint.LoadConfig(path)
	}
	found, ok, err := lint.FindConfig(".")
	if err != nil {
		return lint.Config{}, err
	}
	if !ok {
		return lint.DefaultConfig(), nil
	}
	return lint.LoadConfig(found)
}

func runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	if opts.jobs < 0 {
		return errors.New("--jobs must not be negative")
	}
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	log := logging.NoopLogger()
	if opts.verbose {
		log = logging.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	res, err := lint.New(cfg, log).CheckPaths(cmd.Context(), args, opts.jobs)
	if err != nil {
		return err
	}

	printFindings(cmd.OutOrStdout(), res)
	if len(res.Findings) > 0 {
		return errFindings
	}
	return nil
}

func printFindings(w io.Writer, res *lint.Result) {
	pos := color.New(color.Bold)
	rule := color.New(color.FgRed)
	hint := color.New(color.FgCyan)

	for _, f := range res.Findings {
		fmt.Fprintf(w, "%s: %s %s\n", pos.Sprint(f.Position()), f.Message, rule.Sprintf("[%s]", f.Rule))
		if f.Suggestion != "" {
			fmt.Fprintf(w, "    %s %s\n", hint.Sprint("suggestion:"), f.Suggestion)
		}
	}

	summary := color.New(color.FgGreen)
	if len(res.Findings) > 0 {
		summary = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintln(w, summary.Sprintf("%d finding(s) in %d file(s)", len(res.Findings), res.Files))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "%d module(s) skipped: not using %s\n", len(res.Skipped), lint.ModulePath)
	}
}
