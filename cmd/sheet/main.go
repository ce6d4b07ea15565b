package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/bottomsheet/pkg/config"
	"github.com/Dicklesworthstone/bottomsheet/pkg/export"
	"github.com/Dicklesworthstone/bottomsheet/pkg/journal"
	"github.com/Dicklesworthstone/bottomsheet/pkg/logging"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
	"github.com/Dicklesworthstone/bottomsheet/pkg/ui"
	"github.com/Dicklesworthstone/bottomsheet/pkg/version"
	"github.com/Dicklesworthstone/bottomsheet/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	showVersion := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Sheet config file (default ~/.config/bottomsheet/sheet.yaml)")
	journalPath := flag.String("journal", "", "Record gestures to this SQLite file")
	replay := flag.Bool("replay", false, "Replay the -journal gestures against -config and report divergences")
	plotPath := flag.String("plot", "", "Write a snap profile to this .svg or .png file and exit")
	height := flag.Float64("height", model.DefaultReferenceHeight, "Container height in points for -plot")
	configure := flag.Bool("configure", false, "Edit the config file with an interactive form")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	if *help {
		fmt.Println("Usage: sheet [options]")
		fmt.Println("\nA terminal playground for bottom sheet detents and drag snapping.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("sheet %s\n", version.Version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	interactive := *plotPath == "" && !*replay && !*configure
	logCfg := cfg.Log
	if *logLevel != "" {
		logCfg.Level = *logLevel
	}
	closeLog, err := logging.Init(logCfg, logging.Options{App: "sheet", Version: version.Version, Interactive: interactive})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *configure:
		err = runConfigure(path, cfg)
	case *plotPath != "":
		err = runPlot(*plotPath, cfg, *height)
	case *replay:
		err = runReplay(ctx, *journalPath, cfg)
	default:
		err = runTUI(ctx, path, cfg, *journalPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func runPlot(path string, cfg config.File, height float64) error {
	err := export.SaveSnapProfile(export.SnapProfileOptions{
		Path:     path,
		Behavior: cfg.Behavior(height),
		Height:   height,
		Labels:   cfg.LabelFor,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Wrote snap profile to %s\n", path)
	return nil
}

func runReplay(ctx context.Context, journalPath string, cfg config.File) error {
	if journalPath == "" {
		return errors.New("-replay needs -journal")
	}
	if _, err := os.Stat(journalPath); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	db, err := journal.Open(journalPath)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := journal.Replay(ctx, db, cfg.Behavior(model.DefaultReferenceHeight))
	if err != nil {
		return err
	}

	fmt.Printf("Replayed %d of %d gestures, %d now settle differently\n",
		report.Replayed, report.Total, len(report.Divergences))
	for _, d := range report.Divergences {
		g := d.Gesture
		fmt.Printf("  %s  %s  %.0fpt @ %.0fpt/s  %s -> %s (was %s)\n",
			g.StartedAt.Local().Format("2006-01-02 15:04:05"), shortID(g.ID),
			g.Translation, g.Velocity,
			cfg.LabelFor(g.From), cfg.LabelFor(d.Replayed), cfg.LabelFor(d.Recorded))
	}
	return nil
}

func runTUI(ctx context.Context, path string, cfg config.File, journalPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the playground needs a terminal; use -plot or -replay for scripted use")
	}

	m := ui.NewModel(cfg, ui.DefaultTheme(lipgloss.DefaultRenderer()))
	if journalPath != "" {
		db, err := journal.Open(journalPath)
		if err != nil {
			return err
		}
		defer db.Close()
		m = m.WithJournal(db)
		slog.Info("journaling gestures", "path", journalPath)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	w, err := watcher.New(path, 0, func() {
		cfg, err := config.Load(path)
		if err != nil {
			slog.Warn("config reload failed", "path", path, "error", err)
		} else {
			slog.Info("config reloaded", "path", path)
		}
		p.Send(ui.ConfigMsg{Config: cfg, Err: err})
	})
	if err != nil {
		return err
	}
	defer w.Close()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	g.Go(func() error {
		return w.Run(runCtx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
