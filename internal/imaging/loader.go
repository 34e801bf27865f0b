package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Format identifies one of the raster formats a preview can be read from or
// written to.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
)

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// ErrUnsupportedFormat is returned for extensions outside the allow-list.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Extension returns the lowercased extension of path without the leading dot.
// A path without an extension yields "".
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FormatFromExtension maps a file extension (with or without the leading dot,
// any case) to a supported Format.
//
// # Errors
//
//   - Returns an error wrapping ErrUnsupportedFormat for anything other than
//     jpg, jpeg, png or gif.
func FormatFromExtension(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Supported reports whether ext is in the allow-list.
func Supported(ext string) bool {
	_, err := FormatFromExtension(ext)
	return err == nil
}

// Load opens and decodes the image at path.
//
// The extension is checked against the allow-list before the file is opened,
// so an unsupported file fails without any I/O.
//
// Returns:
//   - image.Image: The decoded image.
//   - Format: The format implied by the file extension.
//   - error: Non-nil if the format is unsupported, or the file cannot be
//     opened or decoded.
func Load(path string) (image.Image, Format, error) {
	format, err := FormatFromExtension(Extension(path))
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	return img, format, nil
}

// EncodeOptions controls how an image is written.
type EncodeOptions struct {
	// JPEGQuality ranges from 1 to 100. Zero selects DefaultJPEGQuality.
	JPEGQuality int

	// Background, when non-nil, is painted under the image before JPEG
	// encoding so transparent areas do not come out black.
	Background color.Color
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	var target imaging.Format
	switch format {
	case JPEG:
		target = imaging.JPEG
		if opts.Background != nil {
			img = Flatten(img, opts.Background)
		}
	case PNG:
		target = imaging.PNG
	case GIF:
		target = imaging.GIF
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	if err := imaging.Encode(w, img, target, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// Flatten composites img over a solid background of color bg.
func Flatten(img image.Image, bg color.Color) image.Image {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format implied by the file extension.
	Format Format `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads dimensions and size of the image at path.
//
// Only the image header is decoded, so this is cheap for large files.
func LoadImageInfo(path string) (*ImageInfo, error) {
	format, err := FormatFromExtension(Extension(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
