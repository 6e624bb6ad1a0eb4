package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LdDl/colorblob-go/internal/config"
	"go.uber.org/zap"
)

func main() {
	configPtr := flag.String("config", "", "Path to YAML config (defaults are used if empty)")
	inputPtr := flag.String("input", "0", "Camera index, video file or image file")
	outputPtr := flag.String("output", "", "Directory for annotated frames (nothing is written if empty)")
	maxFramesPtr := flag.Int("max-frames", 0, "Stop after N frames (0 - until input ends)")
	drawPtr := flag.Bool("draw", false, "Draw fitted circles on frames (overrides config)")
	statsPtr := flag.Bool("stats", false, "Print process CPU and memory usage on exit")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if *drawPtr {
		cfg.Detector.Draw.Enabled = true
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		input:     *inputPtr,
		outputDir: *outputPtr,
		maxFrames: *maxFramesPtr,
		showStats: *statsPtr,
	}
	if err := run(ctx, cfg, logger, opts); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}
