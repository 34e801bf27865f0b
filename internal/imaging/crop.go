package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Crop extracts a width x height region whose top-left corner is at (x, y),
// relative to the image origin.
//
// The region is clipped to the image bounds. It is an error for the width or
// height to be non-positive, or for the region to lie entirely outside the
// image.
func Crop(img image.Image, width, height, x, y int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid crop size %dx%d: width and height must be positive", width, height)
	}

	bounds := img.Bounds()
	region := image.Rect(x, y, x+width, y+height).Add(bounds.Min).Intersect(bounds)
	if region.Empty() {
		return nil, fmt.Errorf("crop region %dx%d at (%d,%d) outside image bounds %dx%d",
			width, height, x, y, bounds.Dx(), bounds.Dy())
	}

	return imaging.Crop(img, region), nil
}

// Resize scales img into the box maxWidth x maxHeight following the package
// resize policy. When the computed size equals the current size img is
// returned as is.
func Resize(img image.Image, maxWidth, maxHeight int, keepAspectRatio, allowUpscaling bool) image.Image {
	bounds := img.Bounds()
	w, h := FitSize(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight, keepAspectRatio, allowUpscaling)
	if w == bounds.Dx() && h == bounds.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// FitSize computes the dimensions Resize produces for a srcW x srcH source.
//
// A non-positive maxWidth or maxHeight leaves that axis unbounded. With
// keepAspectRatio the result is the largest size of the source ratio inside
// the box; otherwise each bounded axis is set to its bound. Without
// allowUpscaling no axis grows past the source, and a source that already fits
// keeps its dimensions.
func FitSize(srcW, srcH, maxWidth, maxHeight int, keepAspectRatio, allowUpscaling bool) (int, int) {
	if srcW <= 0 || srcH <= 0 || (maxWidth <= 0 && maxHeight <= 0) {
		return srcW, srcH
	}

	if !keepAspectRatio {
		w, h := srcW, srcH
		if maxWidth > 0 {
			w = maxWidth
		}
		if maxHeight > 0 {
			h = maxHeight
		}
		if !allowUpscaling {
			w = min(w, srcW)
			h = min(h, srcH)
		}
		return w, h
	}

	scale := math.Inf(1)
	if maxWidth > 0 {
		scale = float64(maxWidth) / float64(srcW)
	}
	if maxHeight > 0 {
		scale = math.Min(scale, float64(maxHeight)/float64(srcH))
	}
	if scale >= 1 && !allowUpscaling {
		return srcW, srcH
	}

	w := max(1, int(math.Round(float64(srcW)*scale)))
	h := max(1, int(math.Round(float64(srcH)*scale)))
	return w, h
}
