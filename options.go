package einops

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Option configures Compile.
type Option func(cfg *config)

type config struct {
	name      string
	axisSizes map[string]int
}

func newConfig(options []Option) *config {
	cfg := &config{axisSizes: make(map[string]int)}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

// key returns a canonical representation of the configuration, used to cache plans.
func (cfg *config) key() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "%q", cfg.name)
	for _, name := range slices.Sorted(maps.Keys(cfg.axisSizes)) {
		_, _ = fmt.Fprintf(&b, ";%q=%d", name, cfg.axisSizes[name])
	}
	return b.String()
}

// WithName sets the name of the plan. It is used as the module name when lowering the plan to StableHLO.
// The default is "einops".
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = name
	}
}

// WithAxisSize declares the size of an axis not sized in the pattern itself.
//
// It can be used for the member of a group of the input, e.g. "(h w) -> h w" with WithAxisSize("h", 2),
// or for a new axis of the output, e.g. "h w -> h w c" with WithAxisSize("c", 3).
// If the pattern also declares the size, like in "h:2", both must agree.
func WithAxisSize(name string, size int) Option {
	return func(cfg *config) {
		cfg.axisSizes[name] = size
	}
}

// WithAxisSizes declares the sizes of several axes, see WithAxisSize.
func WithAxisSizes(sizes map[string]int) Option {
	return func(cfg *config) {
		maps.Copy(cfg.axisSizes, sizes)
	}
}
