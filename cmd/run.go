package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moshez/Pomodouroboros/internal/inbox"
	"github.com/moshez/Pomodouroboros/internal/logging"
	"github.com/moshez/Pomodouroboros/internal/metrics"
	"github.com/moshez/Pomodouroboros/internal/nexus"
	"github.com/moshez/Pomodouroboros/internal/report"
	"github.com/moshez/Pomodouroboros/internal/runner"
	"github.com/moshez/Pomodouroboros/internal/session"
	"github.com/moshez/Pomodouroboros/internal/tui"
)

var (
	headlessFlag    bool
	forceFlag       bool
	metricsAddrFlag string
	reportFlag      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Host a pomodoro session",
	Long: `run owns the session: it keeps time, applies commands queued by the
other subcommands and shows progress. With a terminal on stdout it opens a
full-screen UI; otherwise (or with --headless) it prints one line per event.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}
		switch s, err := store.Load(); {
		case err == nil && !forceFlag:
			return fmt.Errorf("session already in progress (pid %d, started at %s); use --force if it is stale",
				s.PID, s.StartedAt.Format(time.RFC3339))
		case errors.Is(err, session.ErrCorrupt):
			cmd.PrintErrf("note: replacing unreadable status file (%v)\n", err)
		}

		var renderer report.Renderer
		if reportFlag != "" {
			if renderer, err = report.ForFormat(reportFlag); err != nil {
				return err
			}
		}

		interactive := !headlessFlag && term.IsTerminal(os.Stdout.Fd())
		log, closeLog, err := buildLogger(cmd, interactive)
		if err != nil {
			return err
		}
		defer closeLog()

		addr := cfg.MetricsAddr
		if metricsAddrFlag != "" {
			addr = metricsAddrFlag
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		started := time.Now()
		n, err := runSession(ctx, cmd.OutOrStdout(), store, log, addr, interactive)
		if renderer != nil && n != nil {
			out, rerr := renderer.Render(report.Build(n, started, time.Now()))
			if rerr != nil {
				log.Warn("rendering report", zap.Error(rerr))
			} else {
				cmd.Print(string(out))
			}
		}
		if delErr := store.Delete(); delErr != nil {
			log.Warn("removing status file", zap.Error(delErr))
		}
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&headlessFlag, "headless", false, "print events instead of opening the terminal UI")
	runCmd.Flags().BoolVar(&forceFlag, "force", false, "start even if a status file says a session is running")
	runCmd.Flags().StringVar(&metricsAddrFlag, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics_addr)")
	runCmd.Flags().StringVar(&reportFlag, "report", "", "print a session summary on exit (markdown or json)")
	rootCmd.AddCommand(runCmd)
}

// buildLogger writes to log_file when set, else to stderr in headless mode.
// The terminal UI owns the screen, so without a file its logs are dropped.
func buildLogger(cmd *cobra.Command, interactive bool) (*zap.Logger, func(), error) {
	var out io.Writer = cmd.ErrOrStderr()
	closer := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	case interactive:
		out = io.Discard
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, out)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return log, func() {
		_ = log.Sync()
		closer()
	}, nil
}

// runSession hosts the session until ctx ends or the UI quits and returns
// the Nexus for reporting. The Nexus is nil when setup failed.
func runSession(ctx context.Context, out io.Writer, store session.Store, log *zap.Logger, metricsAddr string, interactive bool) (*nexus.Nexus, error) {
	path, err := inbox.Path()
	if err != nil {
		return nil, err
	}
	tail, err := inbox.NewTail(path, log.Named("inbox"))
	if err != nil {
		return nil, err
	}

	var (
		feed     *tui.Feed
		front    nexus.UIEventListener
		recorder *metrics.Recorder
	)
	if interactive {
		feed = tui.NewFeed()
		front = feed
	} else {
		front = runner.NewConsole(out)
	}
	n := nexus.New(cfg.Options(log), func(n *nexus.Nexus) nexus.UIEventListener {
		listeners := nexus.Multi{front, logging.NewJournal(log), session.NewPublisher(n, store, log)}
		if metricsAddr != "" {
			recorder = metrics.New(n)
			listeners = append(listeners, recorder)
		}
		return listeners
	})
	log.Info("session starting",
		zap.Duration("pomodoro", cfg.PomodoroDuration.Duration()),
		zap.Duration("grace", cfg.GraceDuration.Duration()),
		zap.Duration("break", cfg.BreakDuration.Duration()),
		zap.String("inbox", path),
		zap.Bool("tui", interactive),
	)

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	commands := make(chan inbox.Command)
	g.Go(func() error {
		return inbox.Watch(gctx, tail, commands)
	})

	if recorder != nil {
		srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(recorder), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info("serving metrics", zap.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// The driver ending (quit key or signal) ends the whole session.
		defer cancel()
		if interactive {
			return tui.Run(gctx, tui.New(n, feed, commands, cfg.TickInterval.Duration(), log))
		}
		r := runner.New(n, commands, log)
		r.TickInterval = cfg.TickInterval.Duration()
		return r.Run(gctx)
	})

	err = g.Wait()
	log.Info("session ended",
		zap.Int("streak", n.StreakCount()),
		zap.Float64("score", n.ScoreTotal(time.Now())),
	)
	return n, err
}

func metricsMux(rec *metrics.Recorder) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	return mux
}
