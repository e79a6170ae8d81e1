// launcher-sim runs the multiboot launcher against a host directory
// standing in for the TF card and an in-memory flash part. The panel is
// drawn in the terminal; arrow keys (or h/j/k/l) and enter work the
// buttons.
//
// Selecting an application flashes it into the simulated part and
// performs a simulated handoff: the vector table and a fingerprint of
// the flashed image are printed and the simulator exits.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/moffa90/go-multiboot/appmgr"
	"github.com/moffa90/go-multiboot/boot"
	"github.com/moffa90/go-multiboot/config"
	"github.com/moffa90/go-multiboot/flash"
	"github.com/moffa90/go-multiboot/launcher"
	"github.com/moffa90/go-multiboot/storage"
	"github.com/moffa90/go-multiboot/termui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var cardDir string
	var logOutput string

	flagSet := pflag.NewFlagSet("launcher-sim", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: built-in board settings)")
	flagSet.StringVar(&cardDir, "sd", "", "directory used as the TF card (overrides storage.root)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cardDir != "" {
		cfg.Storage.Root = cardDir
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	logger, closeLog, err := openLogger(logOutput)
	if err != nil {
		return fmt.Errorf("cannot open log file %s: %w", logOutput, err)
	}
	defer closeLog()

	keys := &termui.Keys{}
	screen := termui.NewScreen()
	program := tea.NewProgram(termui.NewModel(keys), tea.WithAltScreen())
	screen.SetProgram(program)

	mem := flash.NewMemory(cfg.Flash.Size, cfg.MemoryOptions()...)
	handoff := &boot.Simulated{
		Memory: mem,
		Limit:  cfg.Boot.UpperLimit,
		Logger: logger,
		Exit: func(img boot.Image) {
			program.Send(termui.HandoffMsg{Image: img})
		},
	}

	mgr := appmgr.New(
		storage.NewDir(cfg.Storage.Root),
		mem,
		append(cfg.ManagerOptions(),
			appmgr.WithHandoff(handoff),
			appmgr.WithLogger(logger),
		)...,
	)
	l := launcher.New(mgr, screen, keys,
		append(cfg.LauncherOptions(), launcher.WithLogger(logger))...,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := l.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("launcher stopped", "error", err)
		}
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(termui.Model); ok {
		if img, ok := m.Handoff(); ok {
			fmt.Printf("started %s\n", img)
			stats := mem.Stats()
			fmt.Printf("flash: %d block erases, %d page writes\n", stats.Erases, stats.Writes)
		}
	}
	return nil
}

// openLogger returns a JSON logger writing to path, or a logger that
// discards everything when path is empty. Writing to stderr would corrupt
// the alt-screen display.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `launcher-sim runs the multiboot launcher in a terminal.

The TF card is a directory holding an apps/ folder with one
subdirectory per application (name, desc, author, app.bin and
optional icons).

Usage:
  launcher-sim [flags]

Examples:
  # Use ./sd as the card
  launcher-sim

  # Use another card directory and keep a log
  launcher-sim --sd /tmp/card --log-output launcher.log

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
