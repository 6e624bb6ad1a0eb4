// Command libcolorblob builds the detector as a C shared library:
//
//	go build -buildmode=c-shared -o libcolorblob.so ./cmd/libcolorblob
//
// The host application creates a detector with colorblob_new, passes the
// returned handle to every other call and releases it with colorblob_free.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/LdDl/colorblob-go/bridge"
	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

func bridgeFrom(h C.uintptr_t) *bridge.Bridge {
	return cgo.Handle(h).Value().(*bridge.Bridge)
}

func newHandle() cgo.Handle {
	return cgo.NewHandle(bridge.New(colorblob.NewDetector(), nil))
}

// freeHandle deletes handle and releases the detector behind it
func freeHandle(handle cgo.Handle) error {
	b := handle.Value().(*bridge.Bridge)
	handle.Delete()
	return b.Detector().Close()
}

// detectRGBA runs detection over a tightly packed RGBA buffer.
// Annotated pixels are copied back into buf when drawing is enabled.
func detectRGBA(b *bridge.Bridge, buf []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("Wrong frame size %dx%d", width, height)
	}
	if len(buf) != width*height*4 {
		return errors.Errorf("Wrong buffer length %d for frame %dx%d", len(buf), width, height)
	}
	frame, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, buf)
	if err != nil {
		return errors.Wrap(err, "Can't wrap RGBA buffer")
	}
	defer frame.Close()
	b.DetectColor(&frame)
	if b.Detector().EnabledDraw() {
		copy(buf, frame.ToBytes())
	}
	return nil
}

// listBlobsInto copies as many whole x, y, radius triples as fit into dst
// and returns the total number of blobs found on the last frame
func listBlobsInto(b *bridge.Bridge, dst []float32) int {
	packed := b.ListBlobs()
	limit := (len(dst) / bridge.ValuesPerBlob) * bridge.ValuesPerBlob
	copy(dst[:limit], packed)
	return len(packed) / bridge.ValuesPerBlob
}

//export colorblob_new
func colorblob_new() C.uintptr_t {
	return C.uintptr_t(newHandle())
}

//export colorblob_free
func colorblob_free(h C.uintptr_t) C.int {
	if err := freeHandle(cgo.Handle(h)); err != nil {
		return -1
	}
	return 0
}

//export colorblob_set_hsv_color
func colorblob_set_hsv_color(h C.uintptr_t, v0, v1, v2 C.double) {
	bridgeFrom(h).SetHsvColor(float64(v0), float64(v1), float64(v2))
}

//export colorblob_set_min_contour_area
func colorblob_set_min_contour_area(h C.uintptr_t, area C.double) {
	bridgeFrom(h).SetMinContourArea(float64(area))
}

//export colorblob_set_enable_draw
func colorblob_set_enable_draw(h C.uintptr_t, enabled C.int) {
	bridgeFrom(h).SetEnableDraw(enabled != 0)
}

// colorblob_detect_rgba processes a tightly packed RGBA buffer of width*height*4 bytes.
// When drawing is enabled the annotated pixels are written back into data.
// Returns 0 on success and -1 on bad arguments.
//
//export colorblob_detect_rgba
func colorblob_detect_rgba(h C.uintptr_t, data *C.uchar, width, height C.int) C.int {
	size := int(width) * int(height) * 4
	if data == nil || width <= 0 || height <= 0 {
		return -1
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(data)), size)
	if err := detectRGBA(bridgeFrom(h), buf, int(width), int(height)); err != nil {
		return -1
	}
	return 0
}

// colorblob_list_blobs writes up to capacity/3 blobs into out as x, y, radius
// triples and returns the total number of blobs found on the last frame.
//
//export colorblob_list_blobs
func colorblob_list_blobs(h C.uintptr_t, out *C.float, capacity C.int) C.int {
	var dst []float32
	if out != nil && capacity > 0 {
		dst = unsafe.Slice((*float32)(unsafe.Pointer(out)), int(capacity))
	}
	return C.int(listBlobsInto(bridgeFrom(h), dst))
}

func main() {}
