package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	_ "github.com/marcus/treeside/internal/adapter/github"
	_ "github.com/marcus/treeside/internal/adapter/local"
	"github.com/marcus/treeside/internal/app"
	"github.com/marcus/treeside/internal/config"
	"github.com/marcus/treeside/internal/page"
	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/plugins/clipboard"
	"github.com/marcus/treeside/internal/plugins/filter"
	"github.com/marcus/treeside/internal/plugins/watch"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/styles"
	"github.com/marcus/treeside/internal/version"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	logPath      = flag.String("log", "", "write logs to this file")
	initConfig   = flag.Bool("init-config", false, "write the default config file and exit")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("treeside version %s\n", version.Effective(Version))
		os.Exit(0)
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if err := config.Save(path, config.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		os.Exit(0)
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	logger, closeLog, err := setupLogger(*logPath, *debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	styles.ApplyTheme(cfg.UI.Theme, cfg.UI.Colors)

	location, err := startLocation(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve location: %v\n", err)
		os.Exit(1)
	}

	store, err := settings.OpenSQLite(context.Background(), cfg.Store.Path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open settings: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	model := app.New(app.Options{
		Config:   cfg,
		Store:    store,
		Location: location,
		Plugins:  enabledPlugins(cfg),
		Logger:   logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(app.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err())
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func setupLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(config.ExpandPath(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// startLocation returns the location to open: arg, or the working
// directory when arg is empty.
func startLocation(arg string) (string, error) {
	if arg == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		arg = wd
	}
	return page.NormalizeLocation(arg), nil
}

// enabledPlugins returns the plugins the config enables, in activation
// order.
func enabledPlugins(cfg *config.Config) []plugin.Plugin {
	var plugins []plugin.Plugin
	if cfg.Plugins.Filter.Enabled {
		plugins = append(plugins, filter.New())
	}
	if cfg.Plugins.Clipboard.Enabled {
		plugins = append(plugins, clipboard.New())
	}
	if cfg.Plugins.Watch.Enabled {
		plugins = append(plugins, watch.New())
	}
	return plugins
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: treeside [options] [location]\n\n")
		fmt.Fprintf(os.Stderr, "Browse a repository's file tree next to a page.\n")
		fmt.Fprintf(os.Stderr, "location is a GitHub URL or a local path (default: current directory).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
