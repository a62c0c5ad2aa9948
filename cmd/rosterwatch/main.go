// cmd/rosterwatch/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/rosterwatch/internal/api"
	"github.com/tamzrod/rosterwatch/internal/config"
	"github.com/tamzrod/rosterwatch/internal/engine"
	"github.com/tamzrod/rosterwatch/internal/logging"
	"github.com/tamzrod/rosterwatch/internal/metrics"
	"github.com/tamzrod/rosterwatch/internal/mirror"
	"github.com/tamzrod/rosterwatch/internal/printer"
	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/tui"
)

func main() {
	once := flag.Bool("once", false, "poll once, print the roster and exit")
	headless := flag.Bool("headless", false, "run without the terminal board")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: rosterwatch [-once] [-headless] <config.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfgPath := flag.Arg(0)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.LoadValid(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	rw := cfg.Rosterwatch

	// The board owns the terminal; logs go to the file only.
	logger, err := logging.New(logging.Options{
		Level:   rw.Log.Level,
		File:    rw.Log.File,
		Console: *headless || *once,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Close()

	m := metrics.New()

	co, err := engine.New(cfg, engine.Deps{
		Logger:        logger.Logger,
		PollObserver:  m,
		CacheObserver: m,
	})
	if err != nil {
		logger.Error("engine build failed", "error", err)
		os.Exit(1)
	}
	m.TrackEnabled(co.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		res := co.Refresh(ctx)
		printer.Cycle(os.Stdout, res)
		printer.Roster(os.Stdout, co.Roster())
		if res.Failed() == len(res.Groups) && len(res.Groups) > 0 {
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfgPath, cfg, co, m, logger, *headless); err != nil {
		logger.Error("rosterwatch stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string, cfg *config.Config, co *engine.Coordinator, m *metrics.Metrics, logger *logging.Logger, headless bool) error {
	rw := cfg.Rosterwatch
	g, ctx := errgroup.WithContext(ctx)

	// ---- poller ----
	g.Go(func() error { return co.Run(ctx) })

	// ---- group reload ----
	g.Go(func() error {
		if err := config.WatchGroups(ctx, cfgPath, logger.Logger, co.SetGroups); err != nil {
			logger.Warn("group reload disabled", "error", err)
		}
		return nil
	})

	// ---- ops api ----
	if rw.API.Listen != "" {
		var access io.Writer = io.Discard
		if headless {
			access = os.Stdout
		}
		g.Go(func() error {
			return api.Serve(ctx, rw.API.Listen, api.NewRouter(co, m), access, logger.Logger)
		})
	}

	// ---- register mirror ----
	if rw.Mirror.Enabled {
		s, err := mirror.Build(rw.Mirror, logger.Logger)
		if err != nil {
			return err
		}
		e, err := render.NewEngine(co.Store(), s, co.Threshold(), m.Surface("mirror"))
		if err != nil {
			s.Close()
			return err
		}
		r, err := render.NewRunner(e, co.RenderInterval(), render.WithPrepare(func() {
			s.Sync(watchedIDs(co))
		}))
		if err != nil {
			s.Close()
			return err
		}
		g.Go(func() error {
			defer s.Close()
			r.Run(ctx, nil)
			return nil
		})
	}

	// ---- terminal board ----
	if headless {
		logger.Info("running headless")
		return g.Wait()
	}

	model, err := tui.New(co, co.RenderInterval(), co.Threshold(), m.Surface("tui"))
	if err != nil {
		return err
	}
	g.Go(func() error {
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		// Quitting the board stops everything else.
		return errQuit
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

var errQuit = errors.New("quit")

// watchedIDs lists the entities of the polled groups, ordered by id.
func watchedIDs(co *engine.Coordinator) []string {
	entries := co.Store().Snapshot().InGroups(co.Groups())
	ids := make([]string, 0, len(entries))
	for _, st := range entries {
		ids = append(ids, st.ID)
	}
	return ids
}
