// Package main provides the vcfstats command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcfstats/internal/duckdb"
	"github.com/inodb/vcfstats/internal/output"
	"github.com/inodb/vcfstats/internal/stats"
	"github.com/inodb/vcfstats/internal/vcf"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultLogFile = "run.log"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// runError marks failures of the statistics run itself, as opposed to
// command-line misuse.
type runError struct {
	err error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var rerr *runError
	if !errors.As(err, &rerr) {
		fmt.Fprintf(stderr, "Run 'vcfstats --help' for usage.\n")
		return ExitUsage
	}
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Hint: Check that the file path is correct\n")
	}
	return ExitError
}

type statsOptions struct {
	input   string
	output  string
	cfgFile string
}

func newRootCmd() *cobra.Command {
	opts := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "vcfstats -i <input.vcf> -o <prefix>",
		Short: "Per-variant statistics for bi-allelic SNPs",
		Long: `Compute MAF, PIC, missingness, genotype counts, heterozygosity and
nucleotide diversity for every bi-allelic SNP in a VCF file and write them
to <prefix>.csv. Any record that is not a bi-allelic SNP aborts the run
and no report is written.`,
		Example: `  vcfstats -i calls.vcf.gz -o calls_stats
  vcfstats -i calls.vcf -o calls_stats --log stats.log --summary
  vcfstats -i calls.vcf -o calls_stats --db ~/.vcfstats/stats.duckdb
  cat calls.vcf | vcfstats -i - -o calls_stats`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts.cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runStats(cmd, opts); err != nil {
				return &runError{err: err}
			}
			return nil
		},
	}

	cmd.SetVersionTemplate("vcfstats version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Input VCF file, plain or gzipped ('-' for stdin)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file name prefix")
	flags.String("log", defaultLogFile, "Output log file")
	flags.String("db", "", "Also store results in this DuckDB database")
	flags.Bool("summary", false, "Print a run summary to stderr")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	_ = viper.BindPFlag("log", flags.Lookup("log"))
	_ = viper.BindPFlag("db", flags.Lookup("db"))
	_ = viper.BindPFlag("summary", flags.Lookup("summary"))

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Config file (default: ~/.vcfstats.yaml)")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

// runStats reads the input, builds the table and writes the report.
// Nothing is written unless every record is a bi-allelic SNP and the
// optional store succeeds.
func runStats(cmd *cobra.Command, opts *statsOptions) error {
	logger, closeLog, err := newFileLogger(viper.GetString("log"))
	if err != nil {
		return err
	}
	defer closeLog()

	run := stats.NewRun("vcfstats", logger)
	run.Start()

	parser, err := vcf.NewParser(opts.input)
	if err != nil {
		logger.Error("cannot read input", zap.String("input", opts.input), zap.Error(err))
		return err
	}
	defer parser.Close()

	table, err := stats.Aggregate(parser, run)
	if err != nil {
		return err
	}

	pending, err := output.StageCSVFile(opts.output, table)
	if err != nil {
		logger.Error("cannot write report", zap.Error(err))
		return err
	}
	defer pending.Discard()

	// The report only appears once the store has accepted the rows.
	if dbPath := viper.GetString("db"); dbPath != "" {
		if err := storeResults(dbPath, opts.input, table, logger); err != nil {
			logger.Error("cannot store results", zap.String("db", dbPath), zap.Error(err))
			return err
		}
	}

	path, err := pending.Commit()
	if err != nil {
		logger.Error("cannot write report", zap.Error(err))
		return err
	}
	logger.Info("report written", zap.String("path", path), zap.Int("rows", table.Len()))

	if viper.GetBool("summary") {
		output.WriteSummary(cmd.ErrOrStderr(), output.Summarize(table))
	}

	run.Finish()
	return nil
}

// storeResults appends the table to a DuckDB store and records the run.
func storeResults(dbPath, input string, table *stats.Table, logger *zap.Logger) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteStatRows(table.Rows()); err != nil {
		return err
	}

	if input == "-" {
		return nil
	}
	fp, err := duckdb.StatFile(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if last, err := store.LastRun(input); err == nil && last != nil && last.Unchanged(fp) {
		logger.Info("input unchanged since last stored run",
			zap.Time("finished_at", last.FinishedAt),
			zap.Int("rows", last.NumRows))
	}
	return store.RecordRun(fp, table.Len(), time.Now())
}
