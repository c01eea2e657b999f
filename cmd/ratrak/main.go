package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/b/ratrak/pkg/colors"
	"github.com/b/ratrak/pkg/companion"
	"github.com/b/ratrak/pkg/config"
	"github.com/b/ratrak/pkg/content"
	"github.com/b/ratrak/pkg/daemon"
	"github.com/b/ratrak/pkg/paths"
	"github.com/b/ratrak/pkg/quotes"
	"github.com/b/ratrak/pkg/sfx"
	"github.com/b/ratrak/pkg/tui"
)

var (
	configPath  = flag.String("config", "", "config file (default ~/.config/ratrak/config.yaml)")
	catalogPath = flag.String("content", "", "content catalog yaml (default built-in)")
	sessionName = flag.String("session", "default", "session name for the control socket")
	socketMode  = flag.Bool("socket", false, "serve state and accept input on a unix socket")
	soundMode   = flag.Bool("sound", false, "play blips for bubbles and bumps")
	debugMode   = flag.Bool("debug", false, "Enable debug logging")
)

var (
	debugLog *log.Logger
	eventLog *log.Logger
	crashLog *log.Logger
)

func openLog(path, prefix string) *log.Logger {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, prefix, log.LstdFlags|log.Lmicroseconds)
}

// initLogs never writes to stderr: the alt screen owns the terminal.
func initLogs() {
	pid := os.Getpid()
	crashLog = openLog(paths.LogPath(pid)+".crash", "")
	eventLog = openLog(paths.LogPath(pid)+".events", "[event] ")
	if *debugMode {
		debugLog = openLog(paths.LogPath(pid), "[ratrak] ")
	} else {
		debugLog = log.New(io.Discard, "", 0)
	}
}

func logEvent(format string, args ...interface{}) {
	eventLog.Printf(format, args...)
}

func logCrash(context string, r interface{}) {
	crashLog.Printf("=== CRASH in %s ===", context)
	crashLog.Printf("Panic: %v", r)
	crashLog.Printf("Stack trace:\n%s", debug.Stack())
	crashLog.Printf("=== END CRASH ===\n")
}

func recoverAndLog(context string) {
	if r := recover(); r != nil {
		logCrash(context, r)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			debugLog.Printf("config: %v, using defaults", err)
		}
		cfg = config.Default()
	}
	if err := config.ApplyEnv(cfg, nil); err != nil {
		debugLog.Printf("env: %v", err)
	}
	return cfg
}

func loadCatalog() *content.Catalog {
	if *catalogPath != "" {
		cat, err := content.Load(*catalogPath)
		if err == nil {
			return cat
		}
		debugLog.Printf("content: %v, using built-in catalog", err)
	}
	cat, err := content.Default()
	if err != nil {
		// the embedded catalog is validated by tests
		panic(err)
	}
	return cat
}

// fillQuotes tops the pool up from the LLM buffer when a provider is set.
func fillQuotes(cfg *config.Config) {
	if cfg.LLM.Provider == "" {
		return
	}
	gen, err := quotes.NewLLM(cfg.LLM)
	if err != nil {
		debugLog.Printf("quotes: %v", err)
		return
	}
	cfg.Quotes = quotes.Fill(context.Background(), cfg.Quotes, quotes.Options{
		Generate: gen,
		Count:    cfg.LLM.Count,
		Timeout:  cfg.LLM.Timeout,
		Log:      debugLog,
	})
}

func main() {
	flag.Parse()
	initLogs()
	defer recoverAndLog("main")

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg := loadConfig(path)
	fillQuotes(cfg)
	if *soundMode {
		cfg.Sound = true
	}
	if *socketMode {
		cfg.Terminal.Socket = true
	}

	lipgloss.SetColorProfile(termenv.ANSI256)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var sound func(companion.Cue)
	if cfg.Sound {
		player := sfx.New()
		if err := player.Init(); err != nil {
			debugLog.Printf("sound disabled: %v", err)
		} else {
			defer player.Close()
			sound = player.Play
		}
	}

	var server *daemon.Server
	if cfg.Terminal.Socket {
		server = daemon.NewServer(*sessionName)
		server.Log = debugLog
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "ratrak: %v\n", err)
			server = nil
		} else {
			defer server.Stop()
			debugLog.Printf("Server listening on %s", server.GetSocketPath())
		}
	}

	width, height := 80, 24
	light := false
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		// must run before the program takes over stdin
		light = !colors.Detector{}.IsDark(colors.Mode(cfg.Theme.Mode))
	}

	model := tui.New(tui.Options{
		Config:  cfg,
		Catalog: loadCatalog(),
		Log:     eventLog,
		Rand:    rand.New(rand.NewSource(seed)),
		Sound:   sound,
		OnView: func(v companion.View) {
			if server != nil {
				server.Publish(v)
			}
		},
		Width:  width,
		Height: height,
		Light:  light,
	})

	var opts []tea.ProgramOption
	if interactive {
		opts = append(opts, tea.WithAltScreen(), tea.WithMouseCellMotion())
	} else {
		// Headless: no terminal to draw on, driven over the socket.
		opts = append(opts, tea.WithoutRenderer(), tea.WithInput(nil))
	}
	p := tea.NewProgram(model, opts...)

	if server != nil {
		server.OnInput = func(clientID string, in daemon.InputPayload) {
			defer recoverAndLog("OnInput")
			debugLog.Printf("input from %s: %+v", clientID, in)
			p.Send(tui.InputMsg{Type: in.Type, Target: in.Target, Key: in.Key})
		}
	}

	stopWatch, err := config.Watch(path, func() {
		defer recoverAndLog("config-watch")
		next := loadConfig(path)
		fillQuotes(next)
		logEvent("CONFIG_RELOAD path=%s", path)
		p.Send(tui.ReloadMsg{Config: next})
	})
	if err != nil {
		debugLog.Printf("config watch: %v", err)
	} else {
		defer stopWatch()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		defer recoverAndLog("signals")
		sig := <-sigCh
		logEvent("SIGNAL %s", sig)
		p.Quit()
	}()

	logEvent("RATRAK_START pid=%d session=%s interactive=%v", os.Getpid(), *sessionName, interactive)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ratrak: %v\n", err)
		logEvent("RATRAK_STOP err=%v", err)
		os.Exit(1)
	}
	logEvent("RATRAK_STOP pid=%d", os.Getpid())
}
