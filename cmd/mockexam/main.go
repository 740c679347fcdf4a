package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/api"
	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/infrastructure/config"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/player"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/report"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/scoring"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/service"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/store"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(os.Stdin, os.Stdout).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mockexam:", err)
		os.Exit(1)
	}
}

// env holds the dependencies shared by every command. It is filled in by
// the app's Before hook.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *store.SQLiteStore
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	e := &env{}

	return &cli.App{
		Name:      "mockexam",
		Usage:     "practice timed mock examinations from a local question bank",
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = newLogger(cfg, c.App.ErrWriter)

			db, err := store.NewSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
			}
			e.db = db
			return nil
		},
		After: func(c *cli.Context) error {
			if e.db != nil {
				return e.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			importCommand(e),
			sourcesCommand(e),
			presetsCommand(),
			startCommand(e),
			serveCommand(e),
		},
	}
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// examService builds the service with normalizer settings from env. A
// non-nil rng drives both question shuffling and marks draws.
func (e *env) examService(rng *rand.Rand, quarantine bool) *service.ExamService {
	opts := []questionbank.NormalizerOption{
		questionbank.WithAssetRoot(e.cfg.AssetRoot),
		questionbank.WithWorkers(e.cfg.NormalizeWorkers),
		questionbank.WithLogger(e.logger),
	}
	if rng != nil {
		opts = append(opts, questionbank.WithRand(rng))
	}
	if e.cfg.StrictAnswerLabels {
		opts = append(opts, questionbank.WithStrictLabels())
	}
	if quarantine {
		opts = append(opts, questionbank.WithQuarantine())
	}
	return service.NewExamService(e.db, rng, e.logger, opts...)
}

func newRand(c *cli.Context) *rand.Rand {
	if c.IsSet("seed") {
		seed := c.Uint64("seed")
		return rand.New(rand.NewPCG(seed, seed))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1))
}

func seedFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed for shuffling and marks draws",
	}
}

func importCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "normalize and store question bank files",
		ArgsUsage: "<bank.json>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quarantine", Usage: "skip malformed records instead of failing the file"},
			seedFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("import needs at least one bank file")
			}
			es := e.examService(newRand(c), c.Bool("quarantine"))

			for _, path := range c.Args().Slice() {
				rep, err := importFile(c.Context, es, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s: %d loaded, %d unresolved, %d rejected\n",
					path, rep.Loaded, len(rep.Unresolved), len(rep.Rejected))
				for _, rejected := range rep.Rejected {
					fmt.Fprintf(c.App.Writer, "  rejected: %v\n", rejected)
				}
			}
			return nil
		},
	}
}

func importFile(ctx context.Context, es *service.ExamService, path string) (questionbank.LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return questionbank.LoadReport{}, err
	}
	defer f.Close()
	return es.ImportBank(ctx, path, f)
}

func sourcesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "list source groups in the question bank",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "stats", Usage: "break counts down by question kind"},
		},
		Action: func(c *cli.Context) error {
			es := e.examService(newRand(c), false)
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)

			if c.Bool("stats") {
				stats, err := es.BankStats(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "SOURCE\tQUESTIONS\tMCQ\tNAT\tUNRESOLVED\tMARKS")
				for _, s := range stats {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", s.Source, s.Total, s.MultipleChoice, s.Numeric, s.Unresolved, s.TotalMarks)
				}
				return tw.Flush()
			}

			sources, err := es.ListSources(c.Context)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				fmt.Fprintln(c.App.Writer, "No questions imported yet.")
				return nil
			}
			fmt.Fprintln(tw, "SOURCE\tQUESTIONS\tMARKS")
			for _, s := range sources {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Source, s.Questions, s.Marks)
			}
			return tw.Flush()
		},
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list session presets",
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PRESET\tTIME\tQUESTIONS")
			for _, p := range practicesession.Presets {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", p.Name, p.Budget, p.Questions)
			}
			return tw.Flush()
		},
	}
}

func startCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "run an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Usage: "session preset (see presets); defaults to DEFAULT_PRESET"},
			&cli.IntFlag{Name: "minutes", Usage: "timed session of this many minutes"},
			&cli.BoolFlag{Name: "practice", Usage: "untimed session"},
			&cli.IntFlag{Name: "count", Usage: "number of questions"},
			&cli.StringSliceFlag{Name: "source", Aliases: []string{"s"}, Usage: "source group to draw from (repeatable)"},
			&cli.BoolFlag{Name: "all-sources", Usage: "draw from every imported source group"},
			&cli.StringFlag{Name: "report", Usage: "write the result to this .xlsx file"},
			seedFlag(),
		},
		Action: func(c *cli.Context) error {
			es := e.examService(newRand(c), false)

			cfg, err := sessionConfig(c, e.cfg.DefaultPreset)
			if err != nil {
				return err
			}
			if c.Bool("all-sources") {
				sources, err := es.ListSources(c.Context)
				if err != nil {
					return err
				}
				for _, s := range sources {
					cfg.Sources = append(cfg.Sources, s.Source)
				}
			}

			session, err := es.StartSession(c.Context, cfg)
			if err != nil {
				return err
			}

			p, err := player.New(session, c.App.Reader, c.App.Writer, player.WithLogger(e.logger))
			if err != nil {
				return err
			}
			sub, err := p.Run(c.Context)
			if errors.Is(err, player.ErrAbandoned) {
				fmt.Fprintln(c.App.Writer, "Session abandoned.")
				return nil
			}
			if err != nil {
				return err
			}

			result := es.Score(sub)
			printResult(c.App.Writer, session.ID, result)

			if path := c.String("report"); path != "" {
				if err := report.WriteFile(path, session.ID, result); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Report written to %s\n", path)
			}
			return nil
		},
	}
}

// sessionConfig resolves the start flags. --practice and --minutes override
// the preset's time budget; --count overrides its question count.
func sessionConfig(c *cli.Context, defaultPreset string) (practicesession.SessionConfig, error) {
	name := c.String("preset")
	if name == "" {
		name = defaultPreset
	}
	preset, ok := practicesession.PresetByName(name)
	if !ok {
		return practicesession.SessionConfig{}, fmt.Errorf("unknown preset %q", name)
	}
	cfg := preset.Config(c.StringSlice("source"))

	switch {
	case c.Bool("practice") && c.IsSet("minutes"):
		return cfg, errors.New("--practice and --minutes are exclusive")
	case c.Bool("practice"):
		cfg.Budget = timer.Untimed
	case c.IsSet("minutes"):
		cfg.Budget = timer.BudgetOf(time.Duration(c.Int("minutes")) * time.Minute)
		if err := cfg.Budget.Validate(); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("count") {
		n := c.Int("count")
		if n <= 0 {
			return cfg, errors.New("--count must be positive")
		}
		cfg.MaxQuestions = &n
	}
	return cfg, nil
}

func serveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the question bank over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
		},
		Action: func(c *cli.Context) error {
			// Requests run concurrently, so each import draws marks from its
			// own source.
			es := e.examService(nil, false)

			mux := http.NewServeMux()
			api.RegisterRoutes(mux, api.NewHandler(es, e.logger))

			// ── Middleware chain: Logging → CORS → mux ──────────────────────
			logged := api.Logging(e.logger)(api.CORS(mux))

			server := &http.Server{
				Addr:              c.String("addr"),
				Handler:           logged,
				ReadTimeout:       15 * time.Second,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			go func() {
				<-c.Context.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				e.logger.Info("shutting down server")
				if err := server.Shutdown(ctx); err != nil {
					e.logger.Error("server forced to shutdown", "error", err)
				}
			}()

			e.logger.Info("starting server", "address", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func printResult(w io.Writer, sessionID string, r scoring.TestResult) {
	mode := "timed"
	if r.Practice {
		mode = "practice"
	}
	fmt.Fprintf(w, "\nSession %s (%s)\n", sessionID, mode)
	fmt.Fprintf(w, "Score:     %.2f / %d\n", r.Score, r.MaxScore())
	fmt.Fprintf(w, "Attempted: %d of %d (%d correct, %d incorrect, %d skipped)\n",
		r.Attempted, r.TotalQuestions, r.Correct, r.Incorrect, r.Unattempted())
	fmt.Fprintf(w, "Accuracy:  %.1f%%\n", r.Accuracy)
	fmt.Fprintf(w, "Time:      %s\n\n", timer.FormatClock(r.ElapsedSeconds))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tQUESTION\tSOURCE\tANSWER\tKEY\tMARKS\tTIME")
	for i, line := range r.Analysis {
		answer := line.UserAnswer
		if !line.Attempted {
			answer = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%+.2f\t%ds\n",
			i+1, line.Question.ID, line.Question.SourceGroup, answer, line.Question.CorrectAnswer, line.MarksAwarded, line.TimeSpentSeconds)
	}
	tw.Flush()
}
