// Command csvprep runs one preprocess pass: for a bucket notification, for a bucket/key pair,
// or for a local file without touching storage
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/core/version"
	"csvprep/internal/modkit"
	"csvprep/internal/modkit/module"
	"csvprep/internal/platform/config"
	"csvprep/internal/platform/logger"
	"csvprep/internal/platform/store"

	"csvprep/internal/services/preprocess/domain"
	preprocessmod "csvprep/internal/services/preprocess/module"
	"csvprep/internal/services/preprocess/service"
)

// seams for tests
var (
	openObjects = objstore.Open
	openStore   = store.Open
)

func main() {
	// stdout carries the result only
	opt := logger.FromEnv()
	opt.Writer = os.Stderr
	opt.Component = "cli"
	logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("csvprep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		fEvent   = fs.String("event", "", "bucket notification JSON file, - for stdin")
		fBucket  = fs.String("bucket", "", "source bucket")
		fKey     = fs.String("key", "", "source object key")
		fIn      = fs.String("in", "", "clean a local CSV file (- for stdin) without touching storage")
		fOut     = fs.String("out", "-", "where -in writes the cleaned CSV, - for stdout")
		fVersion = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *fVersion {
		fmt.Fprintln(stdout, version.Info("csvprep"))
		return 0
	}

	l := logger.Get()
	cfg := config.New()
	opts := preprocessmod.FromConfig(cfg)

	if *fIn != "" {
		return runLocal(ctx, opts.Service, *fIn, *fOut, stdin, stdout)
	}

	byKey := *fBucket != "" || *fKey != ""
	if (*fEvent == "") == !byKey {
		fmt.Fprintln(stderr, "csvprep: provide either -event or -bucket and -key")
		fs.Usage()
		return 2
	}

	var payload []byte
	if *fEvent != "" {
		b, err := readInput(*fEvent, stdin)
		if err != nil {
			l.Error().Err(err).Str("event", *fEvent).Msg("read event")
			return 1
		}
		payload = b
	}

	objects, err := openObjects(ctx, objstore.ConfigFromEnv(cfg))
	if err != nil {
		l.Error().Err(err).Msg("objstore open failed")
		return 1
	}
	defer func() {
		if err := objects.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close objstore")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: cfg, Objects: objects}
	if opts.Ledger {
		st, err := openStore(ctx, store.ConfigFromEnv(cfg, "csvprep", true), store.WithLogger(*l))
		if err != nil {
			l.Error().Err(err).Msg("store.Open failed")
			return 1
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		if err := st.Guard(ctx); err != nil {
			l.Error().Err(err).Msg("ledger unreachable")
			return 1
		}
		deps.PG = st.PG
	}

	m := preprocessmod.New(deps)
	runner := module.MustPortsOf[domain.RunnerPort](m)
	if err := module.MustPortsOf[domain.LedgerPort](m).EnsureLedger(ctx); err != nil {
		l.Error().Err(err).Msg("ledger schema")
		return 1
	}

	var res domain.Result
	if payload != nil {
		res = runner.HandleEvent(ctx, payload)
	} else {
		res = runner.Handle(ctx, domain.Trigger{Bucket: *fBucket, Key: *fKey})
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		l.Error().Err(err).Msg("write result")
		return 1
	}
	if !res.OK() {
		return 1
	}
	return 0
}

// runLocal cleans a file with the configured options and writes the CSV to out
func runLocal(ctx context.Context, cfg service.Config, in, out string, stdin io.Reader, stdout io.Writer) int {
	l := logger.Get()
	body, err := readInput(in, stdin)
	if err != nil {
		l.Error().Err(err).Str("in", in).Msg("read input")
		return 1
	}

	cleaned, st, err := service.New(nil, cfg).Preprocess(ctx, body)
	if err != nil {
		l.Error().Err(err).Str("in", in).Msg("preprocess failed")
		return 1
	}

	if out == "-" {
		_, err = stdout.Write(cleaned)
	} else {
		err = os.WriteFile(out, cleaned, 0o644)
	}
	if err != nil {
		l.Error().Err(err).Str("out", out).Msg("write output")
		return 1
	}
	l.Info().Int("rows_in", st.RowsIn).Int("rows_out", st.RowsOut).Int("duplicates", st.Duplicates).Msg("preprocessed local file")
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
