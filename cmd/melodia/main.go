package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Danondso/melodia/internal/compose"
	"github.com/Danondso/melodia/internal/config"
	"github.com/Danondso/melodia/internal/melody"
	"github.com/Danondso/melodia/internal/player"
	"github.com/Danondso/melodia/internal/server"
	"github.com/Danondso/melodia/internal/store"
	"github.com/Danondso/melodia/internal/tui"
)

const usage = `usage: melodia [flags] [serve|render|tui|init]

  serve   serve /api/generate-melody and static files (default)
  render  generate one melody and write it to a file
  tui     interactive terminal front end
  init    write the default config file
`

func main() {
	fs := flag.NewFlagSet("melodia", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	debug := fs.Bool("debug", false, "enable debug logging to stderr")
	cfgPath := fs.String("config", config.DefaultPath(), "path to config file")
	_ = fs.Parse(os.Args[1:])

	// Set up debug logger
	var dbg *log.Logger
	if *debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	cmd, args := "serve", fs.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	if cmd == "init" {
		if err := config.Save(*cfgPath, config.Default()); err != nil {
			log.Fatalf("write config: %v", err)
		}
		fmt.Printf("wrote %s\n", *cfgPath)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	switch cmd {
	case "serve":
		runServe(cfg, dbg)
	case "render":
		runRender(cfg, dbg, args)
	case "tui":
		runTUI(cfg, dbg, *debug)
	default:
		fs.Usage()
		os.Exit(2)
	}
}

func newStore(cfg *config.Config, dbg *log.Logger) *store.Store {
	if !cfg.Server.SaveFiles {
		return nil
	}
	return store.New(cfg.Server.OutputDir, dbg)
}

func runServe(cfg *config.Config, dbg *log.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A typed nil *store.Store would defeat the server's nil check.
	var saver server.Saver
	if st := newStore(cfg, dbg); st != nil {
		saver = st
	}

	srv := server.New(cfg, saver, dbg)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("melodia listening on %s", srv.Addr)

	<-ctx.Done()
	if err := srv.Stop(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func runRender(cfg *config.Config, dbg *log.Logger, args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	duration := fs.Float64("d", cfg.Generation.DefaultDurationSec, "melody duration in seconds")
	out := fs.String("o", "", "output file (default <uuid>.wav in the output dir)")
	seed := fs.Int64("seed", cfg.Generation.Seed, "random seed (0 = time based)")
	rate := fs.Int("rate", cfg.Export.SampleRate, "export sample rate (0 = native)")
	play := fs.Bool("play", false, "play the melody after writing it")
	_ = fs.Parse(args)

	if err := server.CheckDuration(*duration, cfg.Generation.MaxDurationSec); err != nil {
		log.Fatalf("duration: %v", err)
	}

	res, err := compose.Compose(*duration, melody.NewSource(*seed))
	if err != nil {
		log.Fatalf("compose: %v", err)
	}
	if *rate != 0 {
		if res, err = res.Resampled(*rate); err != nil {
			log.Fatalf("%v", err)
		}
	}
	data := res.WAV
	dbg.Printf("generate: notes=%d samples=%d rate=%d bytes=%d", len(res.Melody), res.Samples, res.SampleRate, len(data))

	path := *out
	if path == "" {
		if path, err = store.New(cfg.Server.OutputDir, dbg).Save(uuid.NewString(), data); err != nil {
			log.Fatalf("save: %v", err)
		}
	} else if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	fmt.Println(path)

	if *play {
		if err := player.New(true, dbg).Play(data); err != nil {
			log.Fatalf("play: %v", err)
		}
	}
}

func runTUI(cfg *config.Config, dbg *log.Logger, debug bool) {
	var saver tui.Saver = store.New(cfg.Server.OutputDir, dbg)
	var p tui.Player
	if cfg.Playback.Enabled {
		p = player.New(true, dbg)
	}

	model := tui.NewModel(cfg, p, saver, melody.NewSource(cfg.Generation.Seed), dbg, debug)
	prog := tea.NewProgram(model, tea.WithAltScreen())

	// When debug is enabled, redirect logger output into the TUI debug panel
	if debug {
		dbg.SetOutput(tui.NewLogWriter(prog))
	}

	if _, err := prog.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
}
