// Templecore runs the temple RPG: a single-player terminal game, or a
// websocket server hosting one world for many players.
// Usage: templecore [--version] [--config <file>] [--serve] [--plain] [--script <file>] [--trace] [--name <player>] [game_directory]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nathoo/templecore/cli"
	"github.com/nathoo/templecore/config"
	"github.com/nathoo/templecore/engine"
	"github.com/nathoo/templecore/loader"
	"github.com/nathoo/templecore/logger"
	"github.com/nathoo/templecore/server"
	"github.com/nathoo/templecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: templecore [--version] [--config <file>] [--serve] [--plain] [--script <file>] [--trace] [--name <player>] [game_directory]\n"

func main() {
	plain := false
	trace := false
	serve := false
	var gameDir, scriptFile, configFile string
	name := "Pilgrim"

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		// value returns the argument following a flag.
		value := func() string {
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			i++
			return args[i]
		}

		switch args[i] {
		case "--version":
			fmt.Printf("templecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--serve":
			serve = true
		case "--script":
			scriptFile = value()
		case "--config":
			configFile = value()
		case "--name":
			name = value()
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if gameDir != "" {
		cfg.GameDir = gameDir
	}

	level := cfg.Log.Level
	if !serve && level == "" && os.Getenv("LOG_LEVEL") == "" {
		// Keep the terminal game readable.
		level = "warn"
	}
	logger.Init(logger.Options{Level: level, Format: cfg.Log.Format})

	// Load and compile Lua game content.
	defs, err := loader.Load(cfg.GameDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	if serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.New(defs, cfg).Run(ctx); err != nil {
			logger.Log.WithError(err).Error("server stopped")
			os.Exit(1)
		}
		return
	}

	eng := engine.New(defs, name, engine.Options{Seed: cfg.Seed})
	// Single-player saves live in the home directory unless configured.
	saveDir := cli.DefaultSaveDir()
	if _, ok := os.LookupEnv("TEMPLECORE_SAVE_DIR"); ok || configFile != "" {
		saveDir = cfg.SaveDir
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(eng, defs)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.SaveDir = saveDir
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(eng, defs)
		c.Trace = trace
		c.SaveDir = saveDir
		c.Run()
		return
	}

	if err := tui.Run(eng, defs, saveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
