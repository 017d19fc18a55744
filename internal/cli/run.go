package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/metrics"
	"github.com/mesh-intelligence/nuclibre/internal/paths"
	"github.com/mesh-intelligence/nuclibre/internal/publish"
	"github.com/mesh-intelligence/nuclibre/internal/reconcile"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/internal/sink"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// runFlagKeys maps run flags to the config keys they override.
var runFlagKeys = map[string]string{
	"ensdf-file":     cfgKeyENSDFFile,
	"patch-dir":      cfgKeyPatchDir,
	"patch-source":   cfgKeyPatchSource,
	"sink":           cfgKeySink,
	"output":         cfgKeyOutput,
	"postgres-dsn":   cfgKeyPostgresDSN,
	"masses":         cfgKeyMasses,
	"yields":         cfgKeyYields,
	"xrays":          cfgKeyXRays,
	"metrics-file":   cfgKeyMetricsFile,
	"publish-bucket": cfgKeyBucket,
	"publish-prefix": cfgKeyPrefix,
}

// newPublisher is replaced in tests to avoid the AWS credential chain.
var newPublisher = func(ctx context.Context, cfg publish.Config, log *zap.Logger) (*publish.Publisher, error) {
	return publish.New(ctx, cfg, log)
}

func newRunCmd(a *app) *cobra.Command {
	var testRun bool
	cmd := &cobra.Command{
		Use:   "run [output]",
		Short: "Parse ENSDF data and write the nuclide library",
		Long: "Parse the ENSDF file, apply the patch directory, reconcile the decay\n" +
			"schemes and write the library to the configured sink. The optional\n" +
			"argument overrides the output path.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.config()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				v.Set(cfgKeyOutput, args[0])
			}
			if err := bindFlags(v, cmd.Flags(), runFlagKeys); err != nil {
				return sysError("%w", err)
			}
			rc := resolve(v)
			if testRun {
				rc.Sink = types.Config{Sink: types.SinkDiscard}
			}
			return a.run(cmd.Context(), cmd.OutOrStdout(), rc)
		},
	}

	f := cmd.Flags()
	f.StringP("ensdf-file", "e", "", "ENSDF file to parse")
	f.StringP("patch-dir", "P", "", "directory of ENSDF patch files applied in name order")
	f.StringP("patch-source", "S", defaultPatchSource, "source recorded for patched data")
	f.String("sink", defaultSink, "output sink: csv, sqlite, postgres, pgscript, jsonl or discard")
	f.StringP("output", "o", "", "output file or directory (default: nuclib.db or nuclib-<sink>)")
	f.String("postgres-dsn", "", "Postgres connection string for the postgres sink")
	f.String("masses", "", "AME atomic mass table")
	f.String("yields", "", "fluorescence yield table")
	f.String("xrays", "", "X-ray line table")
	f.String("metrics-file", "", "write run metrics in Prometheus textfile format")
	f.String("publish-bucket", "", "upload the output to this S3 bucket")
	f.String("publish-prefix", "", "key prefix of uploaded objects")
	f.BoolVarP(&testRun, "test-run", "t", false, "parse and reconcile without writing output")
	return cmd
}

// config loads config.yaml from the resolved configuration directory.
func (a *app) config() (*viper.Viper, error) {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, sysError("resolve config directory: %w", err)
	}
	v, err := loadConfig(dir)
	if err != nil {
		return nil, userError("%w", err)
	}
	return v, nil
}

// run executes one parse, reconcile and write cycle.
func (a *app) run(ctx context.Context, out io.Writer, rc runConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	log := a.log

	if rc.ENSDFFile == "" {
		return userError("no ENSDF file given: use --ensdf-file or set %s", cfgKeyENSDFFile)
	}
	if rc.Sink.NeedsOutput() {
		p, err := paths.ResolveOutput("", rc.Sink.Output, rc.Sink.Sink)
		if err != nil {
			return sysError("resolve output: %w", err)
		}
		rc.Sink.Output = p
	}
	if err := rc.Sink.Validate(); err != nil {
		return userError("sink configuration: %w", err)
	}

	tables, err := refdata.Load(rc.Reference)
	if err != nil {
		return userError("reference data: %w", err)
	}

	parser := ensdf.NewParser(ensdf.WithLogger(log))
	if err := parseFile(parser.Parse, rc.ENSDFFile, defaultENSDFOrigin); err != nil {
		return userError("%w", err)
	}
	if rc.PatchDir != "" {
		if err := patchDir(parser, rc.PatchDir, rc.PatchSource, log); err != nil {
			return userError("%w", err)
		}
	}

	rec := metrics.New()
	rec.ObserveParse(parser.Stats())

	s, err := sink.New(rc.Sink, sink.WithLogger(log))
	if err != nil {
		return sysError("open sink: %w", err)
	}
	engine := reconcile.New(parser.Registry(),
		reconcile.WithLogger(log),
		reconcile.WithTables(tables))
	report, storeErr := engine.Store(ctx, rec.Instrument(s))
	closeErr := s.Close()
	rec.ObserveReport(report)
	rec.ObserveDuration(time.Since(start))
	if storeErr != nil {
		return sysError("store: %w", storeErr)
	}
	if closeErr != nil {
		return sysError("close sink: %w", closeErr)
	}

	printSummary(out, parser.Stats(), report, rc.Sink)

	if rc.MetricsFile != "" {
		if err := rec.WriteTextfile(rc.MetricsFile); err != nil {
			return sysError("%w", err)
		}
	}
	if rc.Publish.Bucket != "" && rc.Sink.NeedsOutput() {
		pub, err := newPublisher(ctx, rc.Publish, log)
		if err != nil {
			return sysError("publish: %w", err)
		}
		keys, err := pub.Publish(ctx, rc.Sink.Output)
		if err != nil {
			return sysError("publish: %w", err)
		}
		fmt.Fprintf(out, "published %d objects to s3://%s/%s\n", len(keys), rc.Publish.Bucket, rc.Publish.Prefix)
	}
	log.Info("run done", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// parseFile opens path and feeds it to read, named by its base name.
func parseFile(read func(string, io.Reader, string) error, path, origin string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ENSDF file: %w", err)
	}
	defer f.Close()
	return read(filepath.Base(path), f, origin)
}

// patchDir applies every regular file of dir in name order. A file that
// cannot be read is logged and skipped.
func patchDir(p *ensdf.Parser, dir, source string, log *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read patch directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := parseFile(p.Patch, path, source); err != nil {
			log.Error("patching failed", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

func printSummary(w io.Writer, st ensdf.Stats, rep *reconcile.Report, cfg types.Config) {
	fmt.Fprintf(w, "parsed %d lines, %d datasets, %d records (%d field errors, %d unknown records)\n",
		st.Lines, st.Datasets, st.Records, st.FieldErrors, st.UnknownRecords)
	if st.PatchReplaced+st.PatchAppended > 0 {
		fmt.Fprintf(w, "patched: %d replaced, %d appended, %d duplicates removed\n",
			st.PatchReplaced, st.PatchAppended, st.PatchSecondRemoved)
	}
	fmt.Fprintf(w, "stored %d nuclides (%d isomers), %d states, %d decays, %d lines (%d x-rays, %d annihilation)\n",
		rep.Nuclides, rep.Isomers, rep.States, rep.Decays, rep.Lines, rep.XRays, rep.Annihilations)
	for _, reason := range rep.Reasons() {
		fmt.Fprintf(w, "skipped %d: %s\n", rep.Skipped[reason], reason)
	}
	if len(rep.Unresolved) > 0 {
		fmt.Fprintf(w, "unresolved nuclides: %d\n", len(rep.Unresolved))
	}
	switch {
	case cfg.NeedsOutput():
		fmt.Fprintf(w, "wrote %s output to %s\n", cfg.Sink, cfg.Output)
	case cfg.Sink == types.SinkDiscard:
		fmt.Fprintln(w, "test run, nothing written")
	default:
		fmt.Fprintf(w, "wrote %s output\n", cfg.Sink)
	}
}
