package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itfstack/pkg/errors"
	itfio "github.com/matzehuels/itfstack/pkg/io"
	"github.com/matzehuels/itfstack/pkg/pipeline"
)

// stdinName is the path argument that reads ITF text from standard input.
const stdinName = "-"

// sourceFlags are shared by every command that reads ITF files.
type sourceFlags struct {
	noCache bool
	refresh bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the parse cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reparse even when a cached result exists")
}

// problemsError is returned when a source has problems. The problems
// themselves are printed before it is returned.
type problemsError struct {
	source string
	list   errors.List
}

func (e *problemsError) Error() string {
	return fmt.Sprintf("%s: %s", e.source, problemCounts(e.list))
}

func (e *problemsError) Unwrap() error { return e.list }

// loadResult parses one source, reading standard input for "-".
func (c *CLI) loadResult(cmd *cobra.Command, path string, flags sourceFlags) (*pipeline.Result, error) {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts := c.pipelineOptions(flags.refresh)
	if path == stdinName {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(errors.KindIO, err, "read standard input")
		}
		return runner.ParseSource(ctx, "<stdin>", src, opts)
	}
	return runner.ParseFile(ctx, path, opts)
}

// loadStack parses one source and prints its problems, if any.
func (c *CLI) loadStack(cmd *cobra.Command, path string, flags sourceFlags) (*pipeline.Result, error) {
	res, err := c.loadResult(cmd, path, flags)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		printDiagnostics(cmd.ErrOrStderr(), res.Source, res.Errors)
		return nil, &problemsError{source: res.Source, list: res.Errors}
	}
	return res, nil
}

// parseCommand creates the parse command, which converts ITF to JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		flags  sourceFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an ITF file and write the stack as JSON",
		Long: `Parse an ITF file, validate it and write the resulting stack as JSON.

Use "-" to read from standard input. Problems are reported one per line
as file:line:column and the command exits non-zero.`,
		Example: `  itfstack parse tech.itf
  itfstack parse tech.itf -o tech.json
  cat tech.itf | itfstack parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			logger.Debug("Parsed stack", "source", res.Source, "cached", res.CacheHit, "took", res.Duration)

			out := cmd.OutOrStdout()
			if output == "" {
				return itfio.WriteJSON(res.Stack, out)
			}
			if err := itfio.ExportJSON(res.Stack, output); err != nil {
				return err
			}
			printSuccess(out, "Parsed %s", res.Source)
			printStats(out, len(res.Stack.Layers()), len(res.Stack.Vias()), res.CacheHit)
			printFile(out, output)
			printNextStep(out, "Draw it", "itfstack graph "+res.Source+" -o stack.svg")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// checkReport is the JSON shape of one checked file.
type checkReport struct {
	Source   string          `json:"source"`
	OK       bool            `json:"ok"`
	Cached   bool            `json:"cached"`
	Summary  *itfio.Summary  `json:"summary,omitempty"`
	Problems []itfio.Problem `json:"problems,omitempty"`
}

// checkCommand creates the check command, which validates many files at once.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		flags       sourceFlags
		asJSON      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate ITF files and report every problem",
		Example: `  itfstack check tech.itf
  itfstack check -j 4 stacks/*.itf
  itfstack check --json stacks/*.itf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(flags.refresh)
			if cmd.Flags().Changed("concurrency") {
				opts.Concurrency = concurrency
			}

			var progressOut io.Writer
			if !asJSON {
				progressOut = cmd.ErrOrStderr()
			}
			results, err := c.checkAll(ctx, runner, args, opts, progressOut)
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if !res.OK() {
					failed++
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, checkReports(results)); err != nil {
					return err
				}
			} else {
				printCheckResults(out, cmd.ErrOrStderr(), results)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files have problems", failed, len(results))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "files parsed at once (default from config)")

	return cmd
}

// checkAll parses paths concurrently. With a non-nil progressOut a spinner
// is drawn there while several files are parsed.
func (c *CLI) checkAll(ctx context.Context, runner *pipeline.Runner, paths []string, opts pipeline.Options, progressOut io.Writer) ([]*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *Spinner
	if progressOut != nil && len(paths) > 1 {
		spinner = newSpinner(ctx, progressOut, "Checking", len(paths))
		opts.Progress = spinner.Progress
		spinner.Start()
	}
	results, err := runner.ParseAll(ctx, paths, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	prog.done("Checked files", "files", len(paths), "failed", failed)
	return results, nil
}

func printCheckResults(out, errOut io.Writer, results []*pipeline.Result) {
	for _, res := range results {
		if res.OK() {
			printSuccess(out, "%s", res.Source)
			printStats(out, len(res.Stack.Layers()), len(res.Stack.Vias()), res.CacheHit)
			continue
		}
		printError(out, "%s: %s", res.Source, problemCounts(res.Errors))
		printDiagnostics(errOut, res.Source, res.Errors)
	}
}

func checkReports(results []*pipeline.Result) []checkReport {
	reports := make([]checkReport, len(results))
	for i, res := range results {
		r := checkReport{
			Source:   res.Source,
			OK:       res.OK(),
			Cached:   res.CacheHit,
			Problems: itfio.FromErrors(res.Errors),
		}
		if res.OK() {
			sum := itfio.FromSummary(res.Stack.Summary())
			r.Summary = &sum
		}
		reports[i] = r
	}
	return reports
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
