package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acmsl/licdata/eventstore/postgresengine"
	"github.com/acmsl/licdata/shell/config"
)

// DSNEnv names the environment variable that enables Postgres-backed tests.
const DSNEnv = "LICDATA_TEST_POSTGRES_DSN"

// AdapterEnv selects the adapter for tests that run on a single one.
const AdapterEnv = "LICDATA_TEST_POSTGRES_ADAPTER"

// Adapters lists every database adapter the Postgres engine can run on.
var Adapters = []string{config.AdapterPGXPool, config.AdapterSQLDB, config.AdapterSQLXDB}

// AdapterFromEnv returns the adapter named by AdapterEnv, pgx.pool when unset.
func AdapterFromEnv() string {
	if adapter := os.Getenv(AdapterEnv); adapter != "" {
		return adapter
	}

	return config.AdapterPGXPool
}

// Wrapper holds an event store on a throwaway table and the func that releases its connection.
type Wrapper struct {
	Adapter    string
	EventStore postgresengine.EventStore
	table      string
	dropTable  func(ctx context.Context, statement string) error
	closeFn    func()
}

// CreateWrapper opens an event store for the given adapter on a fresh table.
// The test is skipped when DSNEnv is not set. Cleanup drops the table and closes the connection.
func CreateWrapper(t testing.TB, adapter string) *Wrapper {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", DSNEnv)
	}

	cfg, err := config.LoadFrom(map[string]string{
		"LICDATA_STORE":            config.StorePostgres,
		"LICDATA_POSTGRES_DSN":     dsn,
		"LICDATA_POSTGRES_ADAPTER": adapter,
		"LICDATA_EVENT_TABLE":      fmt.Sprintf("events_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	w := &Wrapper{Adapter: adapter, table: cfg.EventTable}
	options := []postgresengine.Option{postgresengine.WithTableName(cfg.EventTable)}

	switch adapter {
	case config.AdapterSQLDB:
		db, openErr := cfg.OpenSQLDB(ctx)
		require.NoError(t, openErr)
		w.closeFn = func() { _ = db.Close() }
		w.dropTable = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}
		w.EventStore, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.AdapterSQLXDB:
		db, openErr := cfg.OpenSQLXDB(ctx)
		require.NoError(t, openErr)
		w.closeFn = func() { _ = db.Close() }
		w.dropTable = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}
		w.EventStore, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		pool, openErr := cfg.OpenPGXPool(ctx)
		require.NoError(t, openErr)
		w.closeFn = pool.Close
		w.dropTable = func(ctx context.Context, statement string) error {
			_, execErr := pool.Exec(ctx, statement)
			return execErr
		}
		w.EventStore, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)
	}

	require.NoError(t, err)
	require.NoError(t, w.EventStore.EnsureSchema(ctx))

	t.Cleanup(w.cleanUp)

	return w
}

func (w *Wrapper) cleanUp() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = w.dropTable(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, w.table))
	w.closeFn()
}
