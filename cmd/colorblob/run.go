package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LdDl/colorblob-go/bridge"
	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/LdDl/colorblob-go/internal/config"
	"github.com/LdDl/colorblob-go/tracker"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	input     string
	outputDir string
	maxFrames int
	showStats bool
}

// run is the composition root: it owns the detector and hands it to the bridge
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts runOptions) (err error) {
	detector := colorblob.NewDetector(cfg.DetectorOptions(logger.Named("detector"))...)
	defer func() {
		err = multierr.Append(err, detector.Close())
	}()
	b := bridge.New(detector, logger.Named("bridge"))
	tr := cfg.NewTracker(logger.Named("tracker"))

	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return errors.Wrapf(err, "Can't create output directory '%s'", opts.outputDir)
		}
	}

	src, err := openSource(opts.input)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, src.Close())
	}()

	logger.Info("processing started",
		zap.String("input", opts.input),
		zap.Any("color_range", detector.ColorRange()),
		zap.Float64("min_contour_area", detector.MinContourArea()),
		zap.Bool("tracker", tr != nil),
	)

	st := startStats(opts.showStats)
	frames := make(chan gocv.Mat, 2)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)
		for n := 0; opts.maxFrames == 0 || n < opts.maxFrames; n++ {
			frame := gocv.NewMat()
			if !src.Read(&frame) || frame.Empty() {
				frame.Close()
				return nil
			}
			select {
			case frames <- frame:
			case <-gctx.Done():
				frame.Close()
				return gctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			// Release frames left behind after an early return
			for frame := range frames {
				frame.Close()
			}
		}()
		idx := 0
		for frame := range frames {
			err := processFrame(b, tr, &frame, idx, opts.outputDir, logger)
			frame.Close()
			if err != nil {
				return err
			}
			idx++
			st.frames = idx
		}
		return nil
	})

	err = g.Wait()
	st.report(logger)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}

func processFrame(b *bridge.Bridge, tr *tracker.Tracker, frame *gocv.Mat, idx int, outputDir string, logger *zap.Logger) error {
	b.DetectColor(frame)
	blobs := bridge.UnpackBlobs(b.ListBlobs())
	fields := []zap.Field{
		zap.Int("frame", idx),
		zap.Int("blobs", len(blobs)),
		zap.Int("history", b.Detector().HistoryLen()),
	}
	if len(blobs) > 0 {
		fields = append(fields, zap.Any("first", blobs[0]))
	}
	logger.Info("frame", fields...)

	if tr != nil {
		if err := tr.MatchObjects(blobs); err != nil {
			return errors.Wrapf(err, "Can't match blobs on frame %d", idx)
		}
		for id, object := range tr.Objects {
			if !object.IsActive() {
				continue
			}
			logger.Debug("track",
				zap.String("id", id.String()),
				zap.Any("center", object.GetCenter()),
				zap.Any("predicted", object.GetPredicted()),
				zap.Float64("radius", object.GetRadius()),
				zap.Int("no_match_times", object.GetNoMatchTimes()),
			)
		}
	}

	if outputDir != "" {
		path := filepath.Join(outputDir, fmt.Sprintf("frame_%06d.png", idx))
		if ok := gocv.IMWrite(path, *frame); !ok {
			return errors.Errorf("Can't write frame to '%s'", path)
		}
	}
	return nil
}
