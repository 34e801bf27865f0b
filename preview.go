package preview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ironsheep/image-preview/internal/alias"
	"github.com/ironsheep/image-preview/internal/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"go.trai.ch/zerr"
)

// Service creates preview images and materializes them into the cache.
//
// A Service is safe for concurrent use. Each Create returns an independent
// Image that belongs to the caller.
type Service struct {
	cfg      Config
	store    *Store
	hooks    *Hooks
	resolver Resolver
	logger   zerolog.Logger

	baseURL        string
	defaultPreview string
	encode         imaging.EncodeOptions
}

// New validates cfg and returns a ready Service.
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hooks == nil {
		s.hooks = NewHooks()
	}
	if s.resolver == nil {
		m, err := alias.New(cfg.Aliases)
		if err != nil {
			return nil, classify(ErrConfig, err)
		}
		s.resolver = m
	}

	dir, err := s.resolver.Resolve(cfg.CacheDirectory)
	if err != nil {
		return nil, zerr.With(classify(ErrConfig, err), "cacheDirectory", cfg.CacheDirectory)
	}
	s.store = NewStore(dir, cfg.FileMode.Perm())

	if cfg.CacheBaseURL != "" {
		base, err := s.resolver.Resolve(cfg.CacheBaseURL)
		if err != nil {
			return nil, zerr.With(classify(ErrConfig, err), "cacheBaseURL", cfg.CacheBaseURL)
		}
		s.baseURL = strings.TrimRight(base, "/")
	}

	if cfg.DefaultPreviewImage != "" {
		def, err := s.resolver.Resolve(cfg.DefaultPreviewImage)
		if err != nil {
			return nil, zerr.With(classify(ErrConfig, err), "defaultPreviewImage", cfg.DefaultPreviewImage)
		}
		s.defaultPreview = def
	}

	s.encode.JPEGQuality = cfg.JPEGQuality
	if cfg.Background != "" {
		bg, err := colorful.Hex(cfg.Background)
		if err != nil {
			return nil, zerr.With(classify(ErrConfig, err), "background", cfg.Background)
		}
		s.encode.Background = bg
	}

	return s, nil
}

// Hooks returns the service's lifecycle registry.
func (s *Service) Hooks() *Hooks { return s.hooks }

// Store returns the cache store.
func (s *Service) Store() *Store { return s.store }

// Config returns the configuration the service was built with.
func (s *Service) Config() Config { return s.cfg }

// Resolve expands any alias in filename with the service resolver.
func (s *Service) Resolve(filename string) (string, error) {
	return s.resolver.Resolve(filename)
}

// Create opens filename and returns an Image ready for transformation.
//
// BeforeOpen handlers run first and may rewrite the filename. If the source
// cannot be opened and a default preview is configured, the default is
// decoded instead; the Image keeps the requested filename for its
// fingerprint. AfterOpen handlers run last.
func (s *Service) Create(filename string) (*Image, error) {
	ev := &Event{Filename: filename, Extension: imaging.Extension(filename)}
	if err := s.hooks.trigger(BeforeOpen, ev); err != nil {
		return nil, err
	}
	ev.Extension = imaging.Extension(ev.Filename)

	img, err := s.open(ev.Filename)
	if err != nil {
		return nil, err
	}

	if err := s.hooks.trigger(AfterOpen, ev); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) open(filename string) (*Image, error) {
	path, err := s.resolver.Resolve(filename)
	if err != nil {
		return nil, zerr.With(classify(ErrOpen, err), "filename", filename)
	}

	pix, format, err := imaging.Load(path)
	if err == nil {
		return newImage(s, filename, path, format, pix), nil
	}
	if s.defaultPreview == "" {
		return nil, zerr.With(classify(ErrOpen, err), "filename", filename)
	}

	s.logger.Warn().
		Err(err).
		Str("filename", filename).
		Str("default", s.defaultPreview).
		Msg("source unavailable, using default preview")

	pix, format, err = s.loadDefault()
	if err != nil {
		return nil, err
	}
	img := newImage(s, filename, s.defaultPreview, format, pix)
	img.substituted = true
	return img, nil
}

func (s *Service) loadDefault() (image.Image, imaging.Format, error) {
	path := s.defaultPreview

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("default preview does not exist")
		}
		return nil, "", zerr.With(classify(ErrConfig, err), "defaultPreviewImage", path)
	}
	if !imaging.Supported(imaging.Extension(path)) {
		err := fmt.Errorf("default preview format must be jpg, jpeg, png or gif")
		return nil, "", zerr.With(classify(ErrConfig, err), "defaultPreviewImage", path)
	}

	pix, format, err := imaging.Load(path)
	if err != nil {
		return nil, "", zerr.With(classify(ErrConfig, err), "defaultPreviewImage", path)
	}
	return pix, format, nil
}

// materialize makes sure the cache file for img exists and returns its path.
func (s *Service) materialize(img *Image) (string, error) {
	name := img.Name()

	path, created, err := s.store.Ensure(name, func(path string) error {
		ev := &Event{Filename: path, Extension: img.ext}
		if err := s.hooks.trigger(BeforeSave, ev); err != nil {
			return err
		}

		_, err := s.store.Publish(name, func(w io.Writer) error {
			return imaging.Encode(w, img.pixels, img.format, s.encode)
		})
		if err != nil {
			return err
		}

		s.logger.Info().
			Str("source", img.original).
			Str("path", path).
			Int("operations", img.log.Len()).
			Msg("preview encoded")

		return s.hooks.trigger(AfterSave, &Event{Filename: path, Extension: img.ext})
	})
	if err != nil {
		return "", err
	}

	if !created {
		s.logger.Debug().Str("source", img.original).Str("path", path).Msg("preview cache hit")
	}
	return path, nil
}

// url returns the public URL of the cache file name.
func (s *Service) url(name string) string {
	return s.baseURL + "/" + name
}
