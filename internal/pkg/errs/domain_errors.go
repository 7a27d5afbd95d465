package errs

import "errors"

// Sentinel errors for the stay event pipeline
var (
	// Batch errors (fatal: propagate to the host for retry/DLQ)
	ErrBatchFetchFailed = errors.New("batch fetch failed")

	// Warehouse errors
	ErrWarehouseUnavailable = errors.New("warehouse unavailable")
	ErrSecretMalformed      = errors.New("warehouse secret malformed")

	// Ledger errors
	ErrLedgerReadFailed  = errors.New("ledger read failed")
	ErrLedgerWriteFailed = errors.New("ledger write failed")

	// Publish errors
	ErrPublishFailed = errors.New("event publish failed")
)
