// Package landingresolve serves published landing pages by slug through a
// bounded, time-based cache.
//
// Concurrent misses for one slug share a single store read. That read runs
// detached from any one caller's cancellation, bounded by LoadTimeout; each
// caller still returns as soon as its own context is done.
//
// A page is visible only when it exists and is active; both failure cases
// return the same ErrNotFound. Successful lookups are cached for Window and
// are not invalidated by admin writes, so an edit can take up to Window to
// appear publicly. Misses are never cached.
package landingresolve

import (
	"context"
	"errors"
	"sync"
	"time"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/app/system/timeouts"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned for missing and inactive pages alike.
var ErrNotFound = errors.New("page not found")

const (
	DefaultWindow     = 60 * time.Second
	DefaultMaxEntries = 1024
)

// PageSource is the slice of the repository the resolver reads from.
type PageSource interface {
	GetBySlug(ctx context.Context, slug string) (models.LandingPage, error)
}

// Options configures a Resolver. Zero values take the defaults; a zero
// LoadTimeout uses timeouts.Store() at load time.
type Options struct {
	Window      time.Duration
	MaxEntries  int
	LoadTimeout time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

type entry struct {
	page    models.LandingPage
	expires time.Time
}

// Resolver is safe for concurrent use.
type Resolver struct {
	src         PageSource
	window      time.Duration
	max         int
	loadTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// New creates a resolver over src.
func New(src PageSource, opts Options) *Resolver {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{
		src:         src,
		window:      opts.Window,
		max:         opts.MaxEntries,
		loadTimeout: opts.LoadTimeout,
		now:         opts.Now,
		logger:      opts.Logger,
		entries:     make(map[string]entry),
	}
}

// Window returns the staleness window, used for Cache-Control max-age.
func (r *Resolver) Window() time.Duration {
	return r.window
}

// Resolve returns the active page for slug.
func (r *Resolver) Resolve(ctx context.Context, slug string) (models.LandingPage, error) {
	slug = normalize.Slug(slug)
	if slug == "" {
		return models.LandingPage{}, ErrNotFound
	}

	if page, ok := r.cached(slug); ok {
		r.logger.Debug("landing page cache hit", zap.String("slug", slug))
		return page, nil
	}
	r.logger.Debug("landing page cache miss", zap.String("slug", slug))

	ch := r.group.DoChan(slug, func() (any, error) {
		return r.load(ctx, slug)
	})

	select {
	case <-ctx.Done():
		return models.LandingPage{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, ErrNotFound) || errors.Is(res.Err, landingpagestore.ErrNotFound) {
				return models.LandingPage{}, ErrNotFound
			}
			return models.LandingPage{}, res.Err
		}
		return res.Val.(models.LandingPage), nil
	}
}

// load reads slug from the source for every caller waiting on it. The read
// keeps the first caller's values but not its cancellation.
func (r *Resolver) load(ctx context.Context, slug string) (models.LandingPage, error) {
	timeout := r.loadTimeout
	if timeout <= 0 {
		timeout = timeouts.Store()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	page, err := r.src.GetBySlug(ctx, slug)
	if err != nil {
		return models.LandingPage{}, err
	}
	if !page.IsActive {
		return models.LandingPage{}, ErrNotFound
	}
	r.store(slug, page)
	return page, nil
}

// Sweep drops expired entries and returns how many were removed.
func (r *Resolver) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for slug, e := range r.entries {
		if !now.Before(e.expires) {
			delete(r.entries, slug)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries, expired or not.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Resolver) cached(slug string) (models.LandingPage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[slug]
	if !ok {
		return models.LandingPage{}, false
	}
	if !r.now().Before(e.expires) {
		delete(r.entries, slug)
		return models.LandingPage{}, false
	}
	return e.page, true
}

func (r *Resolver) store(slug string, page models.LandingPage) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[slug]; !exists && len(r.entries) >= r.max {
		r.evictLocked(now)
	}
	r.entries[slug] = entry{page: page, expires: now.Add(r.window)}
}

// evictLocked drops expired entries, or the entry expiring soonest when none
// have expired. Callers hold r.mu.
func (r *Resolver) evictLocked(now time.Time) {
	var (
		oldest    string
		oldestExp time.Time
		dropped   bool
	)
	for slug, e := range r.entries {
		if !now.Before(e.expires) {
			delete(r.entries, slug)
			dropped = true
			continue
		}
		if oldest == "" || e.expires.Before(oldestExp) {
			oldest, oldestExp = slug, e.expires
		}
	}
	if !dropped && oldest != "" {
		delete(r.entries, oldest)
	}
}
