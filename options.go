package preview

import (
	"github.com/rs/zerolog"
)

// Resolver translates alias-prefixed paths ("@webroot/...") into concrete
// paths or URLs.
type Resolver interface {
	Resolve(path string) (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithResolver replaces the resolver built from Config.Aliases.
func WithResolver(r Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithHooks shares an existing hook registry instead of creating a new one.
func WithHooks(h *Hooks) Option {
	return func(s *Service) {
		s.hooks = h
	}
}
