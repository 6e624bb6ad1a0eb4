package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// frameSource yields BGR frames until it is exhausted
type frameSource interface {
	Read(frame *gocv.Mat) bool
	Close() error
}

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

func isImageFile(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func openSource(input string) (frameSource, error) {
	if isImageFile(input) {
		return &imageSource{path: input}, nil
	}
	// Numeric input is treated as camera index, anything else as video file or stream URL
	capture, err := gocv.OpenVideoCapture(input)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open video capture '%s'", input)
	}
	return &videoSource{capture: capture}, nil
}

// imageSource yields a single still image
type imageSource struct {
	path string
	done bool
}

func (src *imageSource) Read(frame *gocv.Mat) bool {
	if src.done {
		return false
	}
	src.done = true
	img := gocv.IMRead(src.path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return false
	}
	img.CopyTo(frame)
	img.Close()
	return true
}

func (src *imageSource) Close() error {
	return nil
}

type videoSource struct {
	capture *gocv.VideoCapture
}

func (src *videoSource) Read(frame *gocv.Mat) bool {
	return src.capture.Read(frame)
}

func (src *videoSource) Close() error {
	return src.capture.Close()
}
