package eventstore

import (
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an empty table name is supplied to an engine.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when an engine is constructed without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConcurrencyConflict is returned by Append when the stream changed since it was queried.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrQueryingEventsFailed wraps failures of the underlying query.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed wraps failures while scanning a result row.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEventFailed wraps invalid rows coming back from the store.
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")

	// ErrAppendingEventFailed wraps failures of the underlying insert.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrGettingRowsAffectedFailed wraps failures reading the affected row count.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrBuildingQueryFailed wraps SQL building failures.
	ErrBuildingQueryFailed = errors.New("building query failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
