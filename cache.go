package einops

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/einops/types/shapes"
)

// DefaultCacheSize is the number of plans kept by the default Cache used by Execute.
const DefaultCacheSize = 256

// Cache of compiled plans, keyed by pattern, input shapes and options.
//
// It is safe for concurrent use. Errors are not cached.
type Cache struct {
	plans *lru.Cache
}

// NewCache creates a Cache that keeps up to size plans, evicting the least recently used ones.
func NewCache(size int) (*Cache, error) {
	plans, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "einops.NewCache(%d)", size)
	}
	return &Cache{plans: plans}, nil
}

var defaultCache *Cache

func init() {
	var err error
	defaultCache, err = NewCache(DefaultCacheSize)
	if err != nil {
		panic(err)
	}
}

func cacheKey(patternText string, inputs []shapes.Shape, cfg *config) string {
	var b strings.Builder
	b.WriteString(patternText)
	for _, input := range inputs {
		_, _ = fmt.Fprintf(&b, "|%s", input)
	}
	_, _ = fmt.Fprintf(&b, "|%s", cfg.key())
	return b.String()
}

// Compile returns the cached plan for the pattern and inputs, compiling it if needed. See einops.Compile.
func (c *Cache) Compile(patternText string, inputs []shapes.Shape, options ...Option) (*Plan, error) {
	key := cacheKey(patternText, inputs, newConfig(options))
	if value, found := c.plans.Get(key); found {
		klog.V(2).Infof("einops: cache hit for %q", key)
		return value.(*Plan), nil
	}
	klog.V(2).Infof("einops: cache miss for %q", key)
	plan, err := Compile(patternText, inputs, options...)
	if err != nil {
		return nil, err
	}
	c.plans.Add(key, plan)
	return plan, nil
}

// Len returns the number of plans in the cache.
func (c *Cache) Len() int {
	return c.plans.Len()
}

// Purge removes all plans from the cache.
func (c *Cache) Purge() {
	c.plans.Purge()
}
