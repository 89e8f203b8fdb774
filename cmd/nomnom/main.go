package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/nomnom/internal/adapter"
	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/images"
	"github.com/mmcdole/nomnom/internal/importer"
	"github.com/mmcdole/nomnom/internal/importflow"
	"github.com/mmcdole/nomnom/internal/route"
	"github.com/mmcdole/nomnom/internal/store"
	"github.com/mmcdole/nomnom/internal/tui"
	"github.com/mmcdole/nomnom/internal/viewstate"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configPath  string
		importURL   string
		writeConfig bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "config file (default ~/.config/nomnom/config.yaml)")
	flag.StringVar(&importURL, "import", "", "start by importing a recipe from `URL`")
	flag.BoolVar(&writeConfig, "write-config", false, "write the default config file and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("nomnom %s\n", Version)
		return
	}

	if writeConfig {
		if err := adapter.SaveConfig(adapter.DefaultConfig(), configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(configPath, importURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, importURL string) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		closer = io.NopCloser(nil)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting nomnom", "version", Version)

	var initial []domain.Recipe
	if cfg.UI.Fixtures {
		initial = domain.Fixtures()
	}
	recipes := store.New(logger, initial...)

	// Non-interactive: print the collection and exit
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return printRecipes(os.Stdout, recipes.All())
	}

	imageStore, err := images.OpenStore(cfg.Images.DBPath)
	if err != nil {
		logger.Warn("image store unavailable, keeping images in memory", "path", cfg.Images.DBPath, "error", err)
		if imageStore, err = images.OpenStore(""); err != nil {
			return fmt.Errorf("failed to open image store: %w", err)
		}
	}
	defer imageStore.Close()

	var camera images.Capturer
	if cam := adapter.NewCamera(cfg.Images.CameraCommand, cfg.Images.CameraArgs, logger); cam != nil {
		camera = cam
	}
	provider := images.NewProvider(imageStore, camera, cfg.Images.MaxHeight, logger)

	pageImporter := importer.New(logger,
		importer.WithTimeout(cfg.Import.Timeout),
		importer.WithUserAgent(cfg.Import.UserAgent),
	)

	notifier := tui.NewChannelNotifier(8)
	flow := importflow.New(pageImporter, provider, notifier, logger)

	deps := tui.Deps{
		List:           viewstate.NewList(recipes),
		Edit:           viewstate.NewEdit(recipes, provider, imageStore, logger),
		Import:         flow,
		Images:         provider,
		Opener:         adapter.NewOpener(cfg.Opener.Command, logger),
		Notifications:  notifier.C(),
		StatusDuration: cfg.UI.StatusDuration,
		TemplateURL:    cfg.UI.TemplateURL,
		Logger:         logger,
	}

	startPath := route.ListLink()
	if importURL != "" {
		startPath = route.CreateLink(importURL)
	}

	p := tea.NewProgram(
		tui.NewModel(deps, startPath),
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI", "start", startPath)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// printRecipes writes one recipe per line: id, title, ingredient count
func printRecipes(w io.Writer, recipes []domain.Recipe) error {
	for _, r := range recipes {
		line := fmt.Sprintf("%s\t%s\t%d ingredients", r.ID, r.DisplayTitle(), len(r.Ingredients))
		if r.SourceURL != "" {
			line += "\t" + r.SourceURL
		}
		if _, err := fmt.Fprintln(w, strings.TrimSpace(line)); err != nil {
			return err
		}
	}
	return nil
}
