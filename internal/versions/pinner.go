package versions

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Prefix is a version range operator prepended to resolved versions.
type Prefix string

func (Prefix) EnumValues() []string { return []string{"", "=", "~", "^"} }

// ParsePrefix validates a configured range prefix.
func ParsePrefix(s string) (Prefix, error) {
	if slices.Contains(Prefix("").EnumValues(), s) {
		return Prefix(s), nil
	}
	return "", fmt.Errorf("invalid version range prefix %q (want one of \"\", \"=\", \"~\", \"^\")", s)
}

// Pinner resolves package names to version ranges.
type Pinner struct {
	Registry Registry
	Prefix   Prefix
	// Timeout bounds a whole Pin call; zero means no limit beyond ctx.
	Timeout time.Duration
	// Concurrency bounds in-flight lookups; zero or less means 8.
	Concurrency int
}

// Pin resolves every distinct name and returns name → prefix+version. Any
// failure, including the deadline, fails the whole call with a PinError and
// no partial result.
func (p *Pinner) Pin(ctx context.Context, names []string) (map[string]string, error) {
	names = slices.Clone(names)
	slices.Sort(names)
	names = slices.Compact(names)
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	limit := p.Concurrency
	if limit <= 0 {
		limit = 8
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	pins := make(map[string]string, len(names))
	for _, name := range names {
		g.Go(func() error {
			version, err := p.Registry.Latest(gctx, name)
			if err != nil {
				return &PinError{Package: name, Err: err}
			}
			mu.Lock()
			pins[name] = string(p.Prefix) + version
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pins, nil
}
