//go:build unit

package stay_test

import (
	"encoding/json"
	"testing"

	"stay-event-adapter/internal/domain/stay"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("drops unknown columns", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"rewards_id":      "R1",
			"mystery_column":  "whatever",
			"another_unknown": 42,
		})

		assert.True(t, row.Present(stay.FieldRewardsID))
		assert.False(t, row.Present("mystery_column"))
		assert.Equal(t, 1, row.Len())
	})

	t.Run("null becomes explicit absence", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"rewards_id":    "R1",
			"cancel_dt_key": nil,
		})

		assert.False(t, row.Present(stay.FieldCancelDateKey))
		v, ok := row.Get(stay.FieldCancelDateKey)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("missing expected column is absent, not zero", func(t *testing.T) {
		row := stay.Normalize(map[string]any{"rewards_id": "R1"})

		assert.False(t, row.Present(stay.FieldDepartureDateKey))
	})

	t.Run("integral decimal collapses to int64", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"departure_dt_key": decimal.NewFromInt(20240101),
		})

		v, ok := row.Get(stay.FieldDepartureDateKey)
		require.True(t, ok)
		assert.Equal(t, int64(20240101), v)
	})

	t.Run("fractional decimal collapses to float64", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"rev_usd": decimal.RequireFromString("129.95"),
		})

		v, ok := row.Get("rev_usd")
		require.True(t, ok)
		assert.Equal(t, 129.95, v)
	})

	t.Run("json numbers normalize like decimals", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"arrival_dt_key": json.Number("20240101"),
			"adr_usd":        json.Number("99.5"),
		})

		arrival, ok := row.Get(stay.FieldArrivalDateKey)
		require.True(t, ok)
		assert.Equal(t, int64(20240101), arrival)

		adr, ok := row.Get("adr_usd")
		require.True(t, ok)
		assert.Equal(t, 99.5, adr)
	})

	t.Run("small ints widen to int64", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"nbr_adults":   int32(2),
			"nbr_children": 1,
		})

		adults, _ := row.Get("nbr_adults")
		assert.Equal(t, int64(2), adults)
		children, _ := row.Get("nbr_children")
		assert.Equal(t, int64(1), children)
	})

	t.Run("unexpected scalar types degrade to string form", func(t *testing.T) {
		row := stay.Normalize(map[string]any{
			"rewards_id": []byte("R1"),
		})

		v, ok := row.Get(stay.FieldRewardsID)
		require.True(t, ok)
		_, isString := v.(string)
		assert.True(t, isString)
	})

	t.Run("row is detached from the raw mapping", func(t *testing.T) {
		raw := map[string]any{"rewards_id": "R1"}
		row := stay.Normalize(raw)

		raw["rewards_id"] = "R2"
		delete(raw, "rewards_id")

		v, ok := row.Get(stay.FieldRewardsID)
		require.True(t, ok)
		assert.Equal(t, "R1", v)
	})
}

func TestRow_FieldNames(t *testing.T) {
	row := stay.Normalize(map[string]any{
		"rewards_id":       "R1",
		"property_id":      "P9",
		"arrival_dt_key":   int64(20231230),
		"departure_dt_key": int64(20240101),
	})

	assert.Equal(t, []string{
		"arrival_dt_key",
		"departure_dt_key",
		"property_id",
		"rewards_id",
	}, row.FieldNames())
}
