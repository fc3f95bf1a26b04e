// Command phonocheck runs the spoken phonological-processing assessment with
// console collaborators: prompts print to the terminal and answers are typed.
// Health and Prometheus metrics endpoints are served alongside when
// server.listen_addr is configured.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sorilab/phonocheck/internal/app"
	"github.com/sorilab/phonocheck/internal/assessment"
	"github.com/sorilab/phonocheck/internal/config"
	"github.com/sorilab/phonocheck/internal/health"
	"github.com/sorilab/phonocheck/internal/observe"
	"github.com/sorilab/phonocheck/internal/questionbank"
	recconsole "github.com/sorilab/phonocheck/pkg/provider/recorder/console"
	sttconsole "github.com/sorilab/phonocheck/pkg/provider/stt/console"
	ttsconsole "github.com/sorilab/phonocheck/pkg/provider/tts/console"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "phonocheck: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "phonocheck: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("phonocheck starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
		"language", cfg.Speech.Language,
	)

	// ── Question bank ─────────────────────────────────────────────────────────
	set, err := questionbank.Load(cfg.Bank.Path)
	if err != nil {
		slog.Error("failed to load question bank", "err", err)
		return 1
	}
	slog.Info("question bank loaded",
		"path", cfg.Bank.Path,
		"practice", len(set.Practice),
		"scored", len(set.Scored),
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// ── Metrics ───────────────────────────────────────────────────────────────
	shutdownOtel, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise metrics provider", "err", err)
		return 1
	}
	metrics, err := observe.Default()
	if err != nil {
		slog.Error("failed to create metric instruments", "err", err)
		return 1
	}

	// ── Collaborators + application ───────────────────────────────────────────
	speaker := ttsconsole.New(os.Stdout)
	rec := recconsole.New()
	trans := sttconsole.New()

	application, err := app.New(app.Config{
		Questions: set,
		Collaborators: app.Collaborators{
			Speaker:     speaker,
			Recorder:    rec,
			Transcriber: trans,
		},
		SpeechRate: cfg.Speech.Rate,
		Threshold:  cfg.Verify.Threshold,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	// ── HTTP server (health + metrics) ────────────────────────────────────────
	if cfg.Server.ListenAddr != "" {
		mux := http.NewServeMux()
		health.New(health.Checker{
			Name: "question_bank",
			Check: func(context.Context) error {
				return questionbank.Validate(set)
			},
		}).Register(mux)
		mux.Handle("GET /metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:              cfg.Server.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			slog.Info("http server listening", "addr", cfg.Server.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// ── Interactive loop ──────────────────────────────────────────────────────
	g.Go(func() error {
		application.Start(gctx)
		repl(gctx, application, trans)
		cancel()
		return nil
	})

	err = g.Wait()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if oerr := shutdownOtel(shutdownCtx); oerr != nil {
		slog.Warn("metrics shutdown error", "err", oerr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// repl reads one command per line until quit, EOF, or context cancellation.
// Commands mirror the assessment's controls: the speaker and mic taps, the
// proceed buttons, navigation, and the results view.
func repl(ctx context.Context, a *app.App, trans *sttconsole.Transcriber) {
	fmt.Println(`commands: speaker | mic | say <answer> | begin | next | jump <n> | restart | report | quit`)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return
		case line, ok = <-lines:
			if !ok {
				return
			}
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch cmd {
		case "":
		case "speaker":
			if a.Phase() == assessment.PhasePracticeIntro {
				a.TapIntroSpeaker()
			} else if err := a.PlayPrompt(); err != nil {
				fmt.Println(err)
			}
		case "mic":
			if a.Phase() == assessment.PhasePracticeIntro {
				a.TapIntroMic()
			} else if err := a.ToggleRecording(); err != nil {
				fmt.Println(err)
			}
		case "say":
			trans.Feed(strings.TrimSpace(arg))
		case "begin":
			if err := a.BeginPractice(); err != nil {
				fmt.Println(err)
			}
		case "next":
			if err := a.Next(); err != nil {
				fmt.Println(err)
			}
			if a.Phase() == assessment.PhaseResult {
				printReport(a)
			}
		case "jump":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("jump needs an item number, e.g. jump 3")
				continue
			}
			if !a.JumpTo(n - 1) {
				fmt.Println("no such item")
			}
		case "restart":
			a.Restart()
		case "report":
			printReport(a)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func printReport(a *app.App) {
	sum := a.Summary()
	fmt.Printf("practice %d/%d · main %d/%d · overall %d/%d\n",
		sum.Practice.Correct, sum.Practice.Total,
		sum.Main.Correct, sum.Main.Total,
		sum.Overall.Correct, sum.Overall.Total,
	)
	for _, row := range a.Report() {
		clip := ""
		if row.AudioRef != "" {
			clip = " [clip " + row.AudioRef + "]"
		}
		fmt.Printf("%2d. %s → %s · answered %q · %s%s\n",
			row.Number, row.Prompt, row.Answer, row.UserAnswer, row.Verdict, clip)
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
