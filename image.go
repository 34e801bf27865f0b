package preview

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-preview/internal/imaging"
	"go.trai.ch/zerr"
)

// Orientation classifies an image by its current width and height.
type Orientation string

const (
	Square    Orientation = "square"
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// Image is an opened source image plus the log of transformations requested
// on it. Transformations change the pixels immediately and are recorded
// unconditionally, including ones that turn out to be no-ops.
//
// An Image is owned by the caller that created it and is not safe for
// concurrent use. Only the cached file outlives it.
type Image struct {
	service *Service

	original    string // requested filename, after BeforeOpen
	source      string // resolved path that was decoded
	substituted bool
	ext         string
	format      imaging.Format

	pixels image.Image
	log    TransformLog
	err    error
}

func newImage(s *Service, original, source string, format imaging.Format, pixels image.Image) *Image {
	return &Image{
		service:  s,
		original: original,
		source:   source,
		ext:      imaging.Extension(source),
		format:   format,
		pixels:   pixels,
	}
}

// Resize scales the image into maxWidth x maxHeight. A non-positive bound
// leaves that axis free. With keepAspectRatio the source ratio is preserved;
// without allowUpscaling an image that already fits keeps its size.
func (i *Image) Resize(maxWidth, maxHeight int, keepAspectRatio, allowUpscaling bool) *Image {
	i.log.Append(Operation{
		Method: MethodResize,
		Args:   []int{maxWidth, maxHeight, boolArg(keepAspectRatio), boolArg(allowUpscaling)},
	})
	if i.err != nil {
		return i
	}

	i.pixels = imaging.Resize(i.pixels, maxWidth, maxHeight, keepAspectRatio, allowUpscaling)
	return i
}

// Crop cuts a width x height region with its top-left corner at (srcX, srcY).
// The region is clipped to the image. A region that selects no pixels is
// recorded like any other and makes Err and Cache fail with ErrTransform.
func (i *Image) Crop(width, height, srcX, srcY int) *Image {
	i.log.Append(Operation{
		Method: MethodCrop,
		Args:   []int{width, height, srcX, srcY},
	})
	if i.err != nil {
		return i
	}

	cropped, err := imaging.Crop(i.pixels, width, height, srcX, srcY)
	if err != nil {
		i.err = zerr.With(classify(ErrTransform, err), "operation", i.log.ops[len(i.log.ops)-1].String())
		return i
	}
	i.pixels = cropped
	return i
}

// Apply replays a recorded operation through Resize or Crop. Omitted
// trailing arguments take their usual defaults: resize keeps the aspect
// ratio without upscaling, crop starts at the origin. An operation that
// cannot be replayed is not recorded and makes Err fail with ErrTransform.
func (i *Image) Apply(op Operation) *Image {
	full, err := op.Normalize()
	if err != nil {
		if i.err == nil {
			i.err = zerr.With(classify(ErrTransform, err), "operation", op.String())
		}
		return i
	}

	args := full.Args
	switch op.Method {
	case MethodResize:
		return i.Resize(args[0], args[1], args[2] != 0, args[3] != 0)
	default:
		return i.Crop(args[0], args[1], args[2], args[3])
	}
}

// Err returns the first transformation error, if any.
func (i *Image) Err() error { return i.err }

// Cache makes sure the preview exists in the cache directory and returns its
// path. The file is encoded only if it is not already there; in that case
// the BeforeSave and AfterSave hooks fire around the write.
func (i *Image) Cache() (string, error) {
	if i.err != nil {
		return "", i.err
	}
	if i.service == nil {
		return "", classify(ErrEncode, fmt.Errorf("image is not attached to a service"))
	}
	return i.service.materialize(i)
}

// Width returns the current width in pixels.
func (i *Image) Width() int { return i.pixels.Bounds().Dx() }

// Height returns the current height in pixels.
func (i *Image) Height() int { return i.pixels.Bounds().Dy() }

// Orientation reports the current shape. Equal sides count as square.
func (i *Image) Orientation() Orientation {
	w, h := i.Width(), i.Height()
	switch {
	case w == h:
		return Square
	case w > h:
		return Landscape
	default:
		return Portrait
	}
}

// OriginalFilename returns the filename the Image was requested with, after
// any BeforeOpen rewrite. It is the path part of the fingerprint.
func (i *Image) OriginalFilename() string { return i.original }

// SourceFilename returns the resolved path whose pixels were decoded. It
// differs from OriginalFilename when aliases are used or the default preview
// stood in.
func (i *Image) SourceFilename() string { return i.source }

// Substituted reports whether the default preview replaced the source.
func (i *Image) Substituted() bool { return i.substituted }

// Extension returns the extension of the cached file.
func (i *Image) Extension() string { return i.ext }

// Operations returns a copy of the recorded transformations.
func (i *Image) Operations() []Operation { return i.log.Operations() }

// Fingerprint derives the cache key from OriginalFilename and the log.
func (i *Image) Fingerprint() Fingerprint {
	return Digest(i.original, &i.log)
}

// Name returns the cache file name, <fingerprint>.<extension>.
func (i *Image) Name() string {
	return i.Fingerprint().Name(i.ext)
}

// Filename returns the full cache path of the preview. The file exists only
// after Cache.
func (i *Image) Filename() string {
	return i.service.store.Path(i.Name())
}

// URL returns the public URL of the preview under the configured base URL.
func (i *Image) URL() string {
	return i.service.url(i.Name())
}
