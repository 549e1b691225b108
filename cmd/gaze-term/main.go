// gaze-term: interactive dwell selection in the terminal
// Move the cursor over a target and hold it there until the dwell bar fills
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/focus"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/protocol"
	"github.com/teslashibe/go-gaze/pkg/relay"
)

func main() {
	envThreshold, err := config.Threshold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	pointerName := flag.String("pointer", config.PointerName(), "Pointer name")
	threshold := flag.Float64("threshold", envThreshold, "Dwell seconds before selection (overrides GAZE_THRESHOLD)")
	preset := flag.String("preset", "", "Dwell preset: "+strings.Join(focus.PresetNames, ", ")+" (-threshold wins)")
	targets := flag.String("targets", "Play,Pause,Stop,Settings,Help,Quit", "Comma-separated target labels")
	collector := flag.String("collector", config.CollectorURL(), "Collector URL to relay events to")
	logFile := flag.String("log-file", "", "Write logs to this file (the screen is in use)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := initLogging(*logFile, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		os.Exit(1)
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg := gaze.FastConfig()
	cfg.Name = *pointerName
	cfg.Threshold, err = dwellThreshold(*preset, *threshold, explicit["threshold"])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	reg := gaze.NewRegistry()
	board := NewBoard(parseTargets(*targets, reg))
	pointer, err := gaze.NewPointer(cfg, board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *collector != "" {
		client, err := relay.New(relay.DefaultConfig(*collector, cfg.Name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "relay: %v\n", err)
			os.Exit(1)
		}
		client.OnReset(func(protocol.ResetData) { pointer.Reset() })
		pointer.AddSink(client)
		go client.Run(ctx)
		defer client.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	log.Info("gaze-term started", "pointer", cfg.Name, "threshold", cfg.Threshold, "targets", len(reg.All()))
	NewUI(screen, board, pointer).Run(ctx.Done())
}

// dwellThreshold picks the preset's threshold unless -threshold was given
func dwellThreshold(preset string, threshold float64, thresholdSet bool) (float64, error) {
	if preset == "" || thresholdSet {
		return threshold, nil
	}
	cfg, err := focus.Preset(preset)
	if err != nil {
		return 0, err
	}
	return cfg.Threshold, nil
}

// initLogging keeps logs off the terminal unless a file is given
func initLogging(path string, debug bool) error {
	level := "info"
	if debug {
		level = "debug"
	}

	var w io.Writer = io.Discard
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w = f
	}
	log.InitWriter(w, level)
	return nil
}

// parseTargets interns one target per non-empty label
func parseTargets(labels string, reg *gaze.Registry) []*gaze.Target {
	var targets []*gaze.Target
	for _, label := range strings.Split(labels, ",") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		id := strings.ToLower(strings.ReplaceAll(label, " ", "-"))
		targets = append(targets, reg.Intern(id, label))
	}
	return targets
}
