package sqldialect

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type versionedDialect struct {
	testDialect
	version Version
}

func (dialect versionedDialect) DatabaseVersion() Version {
	return dialect.version
}

type bannerDialect struct {
	versionedDialect
}

func (dialect bannerDialect) VersionQuery() string {
	return "select @@version"
}

func (dialect bannerDialect) ParseBanner(banner string) (Version, error) {
	return ParseVersion(banner[strings.LastIndex(banner, " ")+1:])
}

func newTestRegistry() *Registry {
	registry := NewRegistry()
	registry.Register("test", func(options Options) (Dialect, error) {
		return versionedDialect{version: options.Version}, nil
	}, "testdb")
	registry.Register("banner", func(options Options) (Dialect, error) {
		return bannerDialect{versionedDialect{version: options.Version}}, nil
	})
	return registry
}

func TestResolverResolve(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal("failed to open sqlmock database:", err)
	}
	defer db.Close()

	resolver := &Resolver{Registry: newTestRegistry()}
	mock.ExpectQuery("select version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 13.4 on x86_64-pc-linux-gnu"))

	dialect, err := resolver.Resolve(context.Background(), db, "test", Options{})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(13, 4), dialect.DatabaseVersion())

	// names are case folded, so this is served from the cache
	dialect, err = resolver.Resolve(context.Background(), db, "TEST", Options{})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(13, 4), dialect.DatabaseVersion())
	require.NoError(t, mock.ExpectationsWereMet())

	dialect, err = resolver.Resolve(context.Background(), db, "test", Options{Version: MakeVersion(9, 6)})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(9, 6), dialect.DatabaseVersion())
}

func TestResolverBannerParser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	resolver := &Resolver{Registry: newTestRegistry()}
	mock.ExpectQuery("select @@version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("Product 2019 build 15.0.2000"))
	dialect, err := resolver.Resolve(context.Background(), db, "banner", Options{})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(15, 0, 2000), dialect.DatabaseVersion())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolverConcurrent(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	resolver := &Resolver{Registry: newTestRegistry()}
	mock.ExpectQuery("select version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("21.2.7"))

	var wg sync.WaitGroup
	versions := make([]Version, 8)
	errs := make([]error, 8)
	for i := range versions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dialect, err := resolver.Resolve(context.Background(), db, "testdb", Options{})
			errs[i] = err
			if err == nil {
				versions[i] = dialect.DatabaseVersion()
			}
		}(i)
	}
	wg.Wait()
	for i := range versions {
		require.NoError(t, errs[i])
		assert.Equal(t, MakeVersion(21, 2, 7), versions[i])
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolverErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	resolver := &Resolver{Registry: newTestRegistry()}
	ctx := context.Background()

	_, err = resolver.Resolve(ctx, db, "nope", Options{})
	assert.ErrorContains(t, err, "unknown dialect")

	mock.ExpectQuery("select version()").WillReturnError(sql.ErrConnDone)
	_, err = resolver.Resolve(ctx, db, "test", Options{})
	assert.True(t, errors.Is(err, sql.ErrConnDone), "got %v", err)

	mock.ExpectQuery("select version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(nil))
	_, err = resolver.Resolve(ctx, db, "test", Options{})
	assert.ErrorContains(t, err, "returned null")

	mock.ExpectQuery("select version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("unknown"))
	_, err = resolver.Resolve(ctx, db, "test", Options{})
	assert.ErrorContains(t, err, "no version number")

	// failures are not cached
	mock.ExpectQuery("select version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.1"))
	dialect, err := resolver.Resolve(ctx, db, "test", Options{})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(3, 1), dialect.DatabaseVersion())

	resolver.Forget()
	mock.ExpectQuery("select version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.2"))
	dialect, err = resolver.Resolve(ctx, db, "test", Options{})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(3, 2), dialect.DatabaseVersion())
	require.NoError(t, mock.ExpectationsWereMet())
}
