// Package player hands playable streams to an external media player.
package player

import (
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoPlayer is returned when neither a configured nor a detected player could start
var ErrNoPlayer = errors.New("no media player found")

// Launcher launches stream URLs in an external player
type Launcher struct {
	command string   // configured player command, empty to auto-detect
	args    []string // additional arguments for the player
	subFlag string   // subtitle flag prefix, e.g., "--sub-file="
	logger  *slog.Logger

	goos     string
	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
	run      func(name string, args ...string) error
}

// launchPath defines a single way to start a player
type launchPath struct {
	path      string   // Command path: "mpv" or "open-a:AppName"
	openFlags []string // For "open-a:" paths only
}

type playerConfig struct {
	subFlag   string // one flag per subtitle file
	platforms map[string][]launchPath
}

var players = map[string]playerConfig{
	"mpv": {
		subFlag: "--sub-file=",
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}},
		},
	},
	"vlc": {
		subFlag: "--sub-file=",
		platforms: map[string][]launchPath{
			"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
			"linux":   {{path: "vlc"}},
			"windows": {{path: "vlc"}},
		},
	},
	"iina": {
		subFlag: "--mpv-sub-file=",
		platforms: map[string][]launchPath{
			"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
		},
	},
	"celluloid": {
		subFlag: "--mpv-sub-file=",
		platforms: map[string][]launchPath{
			"linux": {{path: "celluloid"}},
		},
	},
	"potplayer": {
		subFlag: "/sub=",
		platforms: map[string][]launchPath{
			"windows": {{path: "PotPlayerMini64.exe"}, {path: "PotPlayerMini.exe"}},
		},
	},
}

// candidatePlayers is the preferred detection order per platform.
// Only players that play HLS directly are listed.
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"mpv", "vlc", "potplayer"},
}

// NewLauncher creates a Launcher. An empty subFlag is auto-detected for
// known players.
func NewLauncher(command string, args []string, subFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	resolved := subFlag
	if resolved == "" && command != "" {
		if cfg, ok := players[playerName(command)]; ok {
			resolved = cfg.subFlag
			logger.Debug("auto-detected player subtitle flag", "player", playerName(command), "flag", resolved)
		}
	}

	return &Launcher{
		command:  command,
		args:     args,
		subFlag:  resolved,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// playerName reduces a command path to its registry key
func playerName(command string) string {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// subtitleArgs renders one flag per subtitle file. Flags ending in a space
// take the path as a separate argument.
func subtitleArgs(flag string, subtitles []string) []string {
	if flag == "" {
		return nil
	}
	var args []string
	for _, s := range subtitles {
		if strings.HasSuffix(flag, " ") {
			args = append(args, strings.TrimSuffix(flag, " "), s)
		} else {
			args = append(args, flag+s)
		}
	}
	return args
}

// Launch opens url in the configured player, a detected one, or the system
// default handler, in that order. Subtitles are dropped by the default handler.
func (l *Launcher) Launch(url string, subtitles []string) error {
	if l.command != "" {
		l.logger.Info("using configured player", "command", l.command)
		return l.launchConfigured(url, subtitles)
	}

	if name, err := l.detectAndLaunch(url, subtitles); err == nil {
		l.logger.Info("launched with detected player", "player", name)
		return nil
	}

	if len(subtitles) > 0 {
		l.logger.Warn("no subtitle-capable player found, subtitles dropped", "count", len(subtitles))
	}
	return l.launchDefault(url)
}

func (l *Launcher) launchConfigured(url string, subtitles []string) error {
	args := append([]string{}, l.args...)
	if len(subtitles) > 0 {
		if l.subFlag == "" {
			l.logger.Warn("cannot pass subtitles - unknown player, configure sub_flag in config",
				"command", l.command, "subtitles", len(subtitles))
		}
		args = append(args, subtitleArgs(l.subFlag, subtitles)...)
	}

	if l.goos == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			var openFlags []string
			if cfg, ok := players[playerName(l.command)]; ok {
				for _, lp := range cfg.platforms["darwin"] {
					if strings.HasPrefix(lp.path, "open-a:") {
						openFlags = lp.openFlags
						break
					}
				}
			}
			l.logger.Info("using macOS 'open -a' to launch GUI app", "app", l.command)
			return l.start("open", openArgs(l.command, url, args, openFlags)...)
		}
	}

	l.logger.Info("launching player", "command", l.command, "args", args, "url", url)
	return l.start(l.command, append(args, url)...)
}

// detectAndLaunch tries candidate players in order and returns the one that started
func (l *Launcher) detectAndLaunch(url string, subtitles []string) (string, error) {
	candidates, ok := candidatePlayers[l.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		cfg := players[name]
		paths, ok := cfg.platforms[l.goos]
		if !ok {
			continue
		}
		args := subtitleArgs(cfg.subFlag, subtitles)

		for _, lp := range paths {
			var err error
			if app, isApp := strings.CutPrefix(lp.path, "open-a:"); isApp {
				// open waits for the app lookup and fails if it is missing
				err = l.run("open", openArgs(app, url, args, lp.openFlags)...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, append(append([]string{}, args...), url)...)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}

	return "", ErrNoPlayer
}

// openArgs builds arguments for macOS "open -a"
func openArgs(app, url string, playerArgs, openFlags []string) []string {
	args := append([]string{}, openFlags...)
	args = append(args, "-a", app)
	if len(playerArgs) > 0 {
		args = append(args, "--args")
		args = append(args, playerArgs...)
	}
	return append(args, url)
}

func (l *Launcher) launchDefault(url string) error {
	l.logger.Info("launching with system default", "os", l.goos, "url", url)
	switch l.goos {
	case "darwin":
		return l.start("open", url)
	case "windows":
		return l.start("cmd", "/c", "start", "", url)
	default:
		return l.start("xdg-open", url)
	}
}
