package warehouse

import (
	"context"
	"log/slog"

	"stay-event-adapter/internal/infra"
	"stay-event-adapter/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// stayCompletedQuery pre-filters in the warehouse what the eligibility filter
// re-checks defensively in process.
const stayCompletedQuery = `
SELECT
    rewards_id,
    resv_detail_id,
    property_id,
    arrival_dt_key,
    departure_dt_key,
    rate_code,
    record_update_dttm,
    dim_dist_channel_3_key
FROM bwhrdw.fact_bookings
WHERE departure_dt_key::DATE = CURRENT_DATE
    AND rewards_id IS NOT NULL
    AND rewards_id <> 'XXXXX'
    AND cancel_dt_key IS NULL
    AND rate_code <> 'FX'
    AND dim_dist_channel_1_key <> '4'
`

type connectFunc func(ctx context.Context, dsn string) (*pgx.Conn, error)

// Source fetches one batch of completed-stay rows from the warehouse. The
// connection is scoped to a single fetch: credentials are retrieved, the
// query runs, the connection closes.
type Source struct {
	secrets   SecretsAPI
	secretARN string
	connect   connectFunc
	logger    *slog.Logger
}

func NewSource(secrets SecretsAPI, secretARN string, logger *slog.Logger) *Source {
	return &Source{
		secrets:   secrets,
		secretARN: secretARN,
		connect:   pgx.Connect,
		logger:    logger,
	}
}

func (s *Source) FetchRows(ctx context.Context) ([]map[string]any, error) {
	creds, err := fetchCredentials(ctx, s.secrets, s.secretARN)
	if err != nil {
		return nil, infra.WrapInfraErr(s.logger, infra.KindSecretFailure, "failed to resolve warehouse credentials", err)
	}

	conn, err := s.connect(ctx, creds.dsn())
	if err != nil {
		wrapped := infra.WrapInfraErr(s.logger, infra.KindWarehouseFailure, "failed to connect to warehouse", err)
		return nil, errs.Mark(wrapped, errs.ErrWarehouseUnavailable)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, stayCompletedQuery)
	if err != nil {
		return nil, infra.WrapInfraErr(s.logger, infra.KindWarehouseFailure, "stay query failed", err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	batch := make([]map[string]any, 0, 64)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			// Driver error on a single row: skip it, keep the batch.
			s.logger.Warn("failed to read warehouse row, skipping", slog.Any("error", err))
			continue
		}
		raw := make(map[string]any, len(descs))
		for i, desc := range descs {
			raw[desc.Name] = fromWireValue(values[i])
		}
		batch = append(batch, raw)
	}
	if err := rows.Err(); err != nil {
		// The batch is incomplete; surface it as fatal so the host retries.
		return nil, infra.WrapInfraErr(s.logger, infra.KindWarehouseFailure, "warehouse row iteration aborted", err)
	}

	return batch, nil
}

// fromWireValue lifts driver-specific types into what the row model
// understands, in particular exact NUMERIC values.
func fromWireValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid || n.NaN || n.Int == nil {
			return nil
		}
		return decimal.NewFromBigInt(n.Int, n.Exp)
	default:
		return v
	}
}
