package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fkgudeta/curio/internal/cache"
	"github.com/fkgudeta/curio/internal/config"
	"github.com/fkgudeta/curio/internal/curiosity"
	"github.com/fkgudeta/curio/internal/domain"
	"github.com/fkgudeta/curio/internal/log"
	"github.com/fkgudeta/curio/internal/player"
	"github.com/fkgudeta/curio/internal/router"
	"github.com/fkgudeta/curio/internal/store"
	"github.com/fkgudeta/curio/internal/subtitle"
	"github.com/fkgudeta/curio/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `usage: curio [flags] [command]

commands:
  (none)            start the terminal UI
  login             log in to CuriosityStream
  logout            log out and clear cached data
  search <query>    search the catalog
  ls [route]        list a folder, e.g. ls curio://categories/
  play <media id>   play a title in the external player

flags:
`

func main() {
	var showVersion, dumpMetrics bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&dumpMetrics, "metrics", false, "print request and cache metrics on exit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("curio %s\n", Version)
		return
	}

	err := run(flag.Args())
	if dumpMetrics {
		metrics.WritePrometheus(os.Stderr, false)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	userdata   *store.UserDataStore
	dispatcher *router.Dispatcher
	launcher   *player.Launcher
}

func run(args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting curio", "version", Version)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.userdata.Close()

	if len(args) == 0 {
		return a.runTUI()
	}
	return a.runCommand(args[0], args[1:], os.Stdout)
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	userdata, err := store.NewUserDataStore(expandHome(cfg.Storage.DataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open user data: %w", err)
	}

	responses := cache.New(cfg.API.CacheTTL)
	client := curiosity.NewClient(cfg.API.BaseURL, cfg.API.Timeout, userdata, responses, log.Component(logger, "api"))
	converter := subtitle.NewConverter(client, expandHome(cfg.Storage.SubtitleDir), log.Component(logger, "subtitle")).
		WithTrackTimeout(cfg.API.Timeout)

	dispatcher := router.New(client, userdata, converter, router.Options{
		ChildFriendlyOnly: cfg.Content.ChildFriendlyOnly,
		Subtitles:         cfg.Content.Subtitles,
		FeaturedSection:   cfg.Content.FeaturedSection,
	}, log.Component(logger, "router"))

	return &app{
		cfg:        cfg,
		logger:     logger,
		userdata:   userdata,
		dispatcher: dispatcher,
		launcher:   player.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.SubFlag, log.Component(logger, "player")),
	}, nil
}

func (a *app) runTUI() error {
	model := tui.NewModel(a.dispatcher, a.launcher, a.userdata, a.cfg.API.Timeout)

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	a.logger.Info("shutting down")
	return nil
}

// runCommand runs one route outside the TUI, prompting on the terminal
func (a *app) runCommand(name string, args []string, out io.Writer) error {
	a.dispatcher.SetPrompter(newTerminalPrompter())

	var route domain.Route
	switch name {
	case "login":
		route = domain.NewRoute(domain.RouteLogin)
	case "logout":
		route = domain.NewRoute(domain.RouteLogout)
	case "search":
		route = domain.NewRoute(domain.RouteSearch, "query", strings.Join(args, " "))
	case "play":
		if len(args) != 1 {
			return errors.New("usage: curio play <media id>")
		}
		route = domain.NewRoute(domain.RoutePlay, "id", args[0])
	case "ls":
		route = domain.NewRoute(domain.RouteIndex)
		if len(args) > 0 {
			r, err := domain.ParseRoute(args[0])
			if err != nil {
				return err
			}
			route = r
		}
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	// requests carry the client timeout; prompts may take as long as they need
	res, err := a.dispatcher.Dispatch(context.Background(), route)
	if err != nil {
		return err
	}

	switch {
	case res.Folder != nil:
		printFolder(out, res.Folder)
	case res.Playback != nil:
		fmt.Fprintf(out, "Playing %s\n", res.Playback.Item.Label)
		return a.launcher.Launch(res.Playback.URL, res.Playback.Subtitles)
	case name == "login" && a.dispatcher.LoggedIn():
		fmt.Fprintln(out, "✓ Logged in")
	case name == "logout" && !a.dispatcher.LoggedIn():
		fmt.Fprintln(out, "✓ Logged out")
	}
	return nil
}

// printFolder writes a folder as a table of labels and routes
func printFolder(w io.Writer, f *domain.Folder) {
	if f.Title != "" {
		fmt.Fprintln(w, f.Title)
		fmt.Fprintln(w, strings.Repeat("━", len([]rune(f.Title))))
	}
	if len(f.Items) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}

	labels := make([]string, len(f.Items))
	width := 0
	for i, item := range f.Items {
		labels[i] = item.Label
		if d := item.FormattedDuration(); item.Playable && d != "" {
			labels[i] += " · " + d
		}
		width = max(width, len([]rune(labels[i])))
	}
	for i, item := range f.Items {
		pad := strings.Repeat(" ", width-len([]rune(labels[i])))
		fmt.Fprintf(w, "%s%s  %s\n", labels[i], pad, item.Route)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
