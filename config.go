package preview

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/ironsheep/image-preview/internal/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "PREVIEW_"

// DefaultFileMode is applied to new cache files unless configured otherwise.
const DefaultFileMode FileMode = 0o664

// Config holds the recognized preview options.
//
// Paths and URLs may start with an alias ("@webroot/..."), resolved through
// Aliases or the resolver passed with WithResolver.
type Config struct {
	// CacheDirectory is where encoded previews are stored.
	CacheDirectory string `yaml:"cacheDirectory" env:"CACHE_DIRECTORY"`

	// CacheBaseURL is the public URL prefix that mirrors CacheDirectory.
	CacheBaseURL string `yaml:"cacheBaseURL" env:"CACHE_BASE_URL"`

	// FileMode is applied to every new cache file. Written in octal; only
	// permission bits (0777) are accepted.
	FileMode FileMode `yaml:"fileMode" env:"FILE_MODE"`

	// DefaultPreviewImage replaces a source that cannot be opened. Optional.
	DefaultPreviewImage string `yaml:"defaultPreviewImage" env:"DEFAULT_PREVIEW_IMAGE"`

	// JPEGQuality is the JPEG encoder quality, 1 to 100.
	JPEGQuality int `yaml:"jpegQuality" env:"JPEG_QUALITY"`

	// Background is the hex color transparent pixels are flattened onto when
	// a preview is written as JPEG. Empty disables flattening.
	Background string `yaml:"background" env:"BACKGROUND"`

	// Aliases maps alias names to concrete paths or URL prefixes.
	Aliases Aliases `yaml:"aliases" env:"ALIASES"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		CacheDirectory: "@webroot/preview_cache",
		CacheBaseURL:   "@web/preview_cache",
		FileMode:       DefaultFileMode,
		JPEGQuality:    imaging.DefaultJPEGQuality,
		Background:     "#ffffff",
		Aliases: Aliases{
			"@webroot": "web",
			"@web":     "",
		},
	}
}

// LoadConfig builds a Config from defaults, then the YAML file at path (if
// path is not empty), then PREVIEW_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, zerr.With(classify(ErrConfig, err), "path", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, zerr.With(classify(ErrConfig, err), "path", path)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, classify(ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values that can be checked without touching the
// filesystem. The default preview is checked when it is first needed.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CacheDirectory) == "" {
		return classify(ErrConfig, fmt.Errorf("cacheDirectory must not be empty"))
	}
	if c.FileMode == 0 || c.FileMode&^0o777 != 0 {
		return zerr.With(classify(ErrConfig, fmt.Errorf("fileMode must be permission bits between 0001 and 0777")), "fileMode", c.FileMode.String())
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return zerr.With(classify(ErrConfig, fmt.Errorf("jpegQuality must be between 1 and 100")), "jpegQuality", c.JPEGQuality)
	}
	if c.Background != "" {
		if _, err := colorful.Hex(c.Background); err != nil {
			return zerr.With(classify(ErrConfig, err), "background", c.Background)
		}
	}
	return nil
}

// FileMode is an os.FileMode that reads and writes as an octal string in
// YAML and environment variables ("0664", "664" and "0o664" are equal).
type FileMode os.FileMode

// Perm returns the mode as an os.FileMode.
func (m FileMode) Perm() os.FileMode { return os.FileMode(m) }

// String formats the mode as four octal digits.
func (m FileMode) String() string {
	return fmt.Sprintf("%04o", uint32(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FileMode) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid file mode %q: %w", string(text), err)
	}
	*m = FileMode(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m FileMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalYAML reads the raw scalar so that an unquoted 0664 is taken as
// octal rather than as a YAML integer.
func (m *FileMode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("file mode must be a scalar, got %v", value.Tag)
	}
	return m.UnmarshalText([]byte(value.Value))
}

// Aliases maps alias names to targets. In environment variables it is
// written as comma-separated name=target pairs; only the first "=" of a pair
// separates, so targets may be URLs.
type Aliases map[string]string

// UnmarshalText implements encoding.TextUnmarshaler. The parsed pairs
// replace any existing entries.
func (a *Aliases) UnmarshalText(text []byte) error {
	out := make(Aliases)
	for _, pair := range strings.Split(string(text), ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, target, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid alias %q: expected name=target", pair)
		}
		out[name] = strings.TrimSpace(target)
	}
	*a = out
	return nil
}
