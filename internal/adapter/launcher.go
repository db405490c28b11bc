package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Launcher opens stream URLs in an external player
type Launcher struct {
	command   string   // configured player command, empty for auto-detection
	args      []string // additional arguments for the player
	titleFlag string   // window title flag prefix, e.g. "--force-media-title="
	logger    *slog.Logger

	// run starts a process; replaced in tests
	run func(name string, args ...string) error
}

// player describes how to hand a URL to a known player
type player struct {
	titleFlag string   // empty when the player has no title option
	commands  []string // executables to try, in order
	macApp    string   // app name for "open -a" on macOS
}

// players registry, keyed by executable base name
var players = map[string]player{
	"mpv":       {titleFlag: "--force-media-title=", commands: []string{"mpv"}},
	"vlc":       {titleFlag: "--meta-title=", commands: []string{"vlc"}, macApp: "VLC"},
	"iina":      {titleFlag: "--mpv-force-media-title=", macApp: "IINA"},
	"celluloid": {commands: []string{"celluloid"}},
	"potplayer": {commands: []string{"PotPlayerMini64.exe", "PotPlayerMini.exe"}},
}

// candidatePlayers is the preferred detection order per platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv", "potplayer"},
}

// NewLauncher creates a Launcher. When titleFlag is empty and command is a
// known player, its title flag is filled in.
func NewLauncher(command string, args []string, titleFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	if titleFlag == "" && command != "" {
		if p, ok := players[playerName(command)]; ok {
			titleFlag = p.titleFlag
			logger.Debug("auto-detected player title flag", "command", command, "flag", titleFlag)
		}
	}

	return &Launcher{
		command:   command,
		args:      args,
		titleFlag: titleFlag,
		logger:    logger,
		run:       startCommand,
	}
}

func playerName(command string) string {
	base := filepath.Base(command)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func startCommand(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// Launch opens url in the configured player, a detected player, or the
// system default handler, in that order
func (l *Launcher) Launch(url, title string) error {
	if url == "" {
		return fmt.Errorf("no stream url")
	}

	if l.command != "" {
		args := append(append([]string{}, l.args...), titleArgs(l.titleFlag, title)...)
		args = append(args, url)
		l.logger.Info("launching configured player", "command", l.command, "title", title)
		return l.run(l.command, args...)
	}

	if name, err := l.detectAndLaunch(url, title); err == nil {
		l.logger.Info("launched with detected player", "player", name)
		return nil
	}

	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(url)
}

func titleArgs(flag, title string) []string {
	if flag == "" || title == "" {
		return nil
	}
	return []string{flag + title}
}

func (l *Launcher) detectAndLaunch(url, title string) (string, error) {
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		p := players[name]
		args := append(titleArgs(p.titleFlag, title), url)

		for _, cmd := range p.commands {
			if err := l.run(cmd, args...); err == nil {
				return name, nil
			}
		}
		if runtime.GOOS == "darwin" && p.macApp != "" {
			openArgs := []string{"-a", p.macApp, url}
			if t := titleArgs(p.titleFlag, title); len(t) > 0 {
				openArgs = []string{"-a", p.macApp, "--args", t[0], url}
			}
			if err := l.run("open", openArgs...); err == nil {
				return name, nil
			}
		}
		l.logger.Debug("player not available", "player", name)
	}
	return "", fmt.Errorf("no candidate players found")
}

func (l *Launcher) launchDefault(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return l.run("open", url)
	case "windows":
		return l.run("cmd", "/c", "start", "", url)
	default:
		return l.run("xdg-open", url)
	}
}
