package sqldialect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BannerParser is implemented by dialects whose version query returns text
// that ParseVersion would misread.
type BannerParser interface {
	ParseBanner(banner string) (Version, error)
}

// Resolver opens dialects at the version reported by a live connection.
// Results are cached per connection, name and options.
type Resolver struct {
	Logger *slog.Logger
	// Registry defaults to the package registry.
	Registry *Registry

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]Dialect
}

func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{Logger: logger}
}

func (resolver *Resolver) logger() *slog.Logger {
	if resolver.Logger == nil {
		return slog.Default()
	}
	return resolver.Logger
}

func (resolver *Resolver) registry() *Registry {
	if resolver.Registry == nil {
		return defaultRegistry
	}
	return resolver.Registry
}

// Resolve opens the dialect registered as name. A zero options.Version is
// replaced with the version the database reports.
func (resolver *Resolver) Resolve(ctx context.Context, db *sql.DB, name string, options Options) (Dialect, error) {
	if !options.Version.IsZero() {
		return resolver.registry().Open(name, options)
	}

	key := fmt.Sprintf("%p|%s|%+v", db, foldName(name), options)
	resolver.mu.RLock()
	dialect, ok := resolver.cache[key]
	resolver.mu.RUnlock()
	if ok {
		return dialect, nil
	}

	result, err, shared := resolver.group.Do(key, func() (interface{}, error) {
		resolver.mu.RLock()
		dialect, ok := resolver.cache[key]
		resolver.mu.RUnlock()
		if ok {
			return dialect, nil
		}
		dialect, err := resolver.detect(ctx, db, name, options)
		if err != nil {
			return nil, err
		}
		resolver.mu.Lock()
		if resolver.cache == nil {
			resolver.cache = make(map[string]Dialect)
		}
		resolver.cache[key] = dialect
		resolver.mu.Unlock()
		return dialect, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		resolver.logger().DebugContext(ctx, "shared dialect resolution", "dialect", name)
	}
	return result.(Dialect), nil
}

func (resolver *Resolver) detect(ctx context.Context, db *sql.DB, name string, options Options) (Dialect, error) {
	probe, err := resolver.registry().Open(name, options)
	if err != nil {
		return nil, err
	}

	var banner sql.NullString
	query := probe.VersionQuery()
	if err := db.QueryRowContext(ctx, query).Scan(&banner); err != nil {
		return nil, fmt.Errorf("sqldialect: detect %s version: %w", probe.Name(), probe.TranslateError(err))
	}
	if !banner.Valid {
		return nil, fmt.Errorf("sqldialect: detect %s version: %s returned null", probe.Name(), query)
	}

	var version Version
	if parser, ok := probe.(BannerParser); ok {
		version, err = parser.ParseBanner(banner.String)
	} else {
		version, err = ParseVersion(banner.String)
	}
	if err != nil {
		return nil, fmt.Errorf("sqldialect: detect %s version: %w", probe.Name(), err)
	}

	options.Version = version
	dialect, err := resolver.registry().Open(name, options)
	if err != nil {
		return nil, err
	}
	resolver.logger().InfoContext(ctx, "resolved dialect",
		"dialect", dialect.Name(),
		"version", dialect.DatabaseVersion().String(),
		"banner", banner.String,
	)
	return dialect, nil
}

// Forget drops every cached resolution.
func (resolver *Resolver) Forget() {
	resolver.mu.Lock()
	resolver.cache = nil
	resolver.mu.Unlock()
}
