//go:build unit

package bootstrap_test

import (
	"testing"

	"stay-event-adapter/cmd/bootstrap"
	"stay-event-adapter/internal/domain/stay"
	"stay-event-adapter/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

// The warehouse query selects stays departing on the current date, so the
// policy built from an untouched configuration must admit exactly the row
// shape that query returns.
func TestNewEligibilityPolicy_DefaultAdmitsWarehouseQueryRows(t *testing.T) {
	policy := bootstrap.NewEligibilityPolicy(config.NewTestConfig())

	todayKey := 20240102
	row := stay.Normalize(map[string]any{
		"rewards_id":             "R1",
		"resv_detail_id":         "D42",
		"property_id":            "P9",
		"departure_dt_key":       int64(todayKey),
		"rate_code":              "BAR",
		"dim_dist_channel_1_key": "2",
	})

	assert.True(t, policy.Eligible(row, todayKey))
}

func TestNewEligibilityPolicy_CutoffMapping(t *testing.T) {
	cfg := config.NewTestConfig()

	cfg.Adapter.DepartureCutoff = config.CutoffByToday
	assert.Equal(t, stay.EligibilityPolicy{Cutoff: stay.DepartedByToday}, bootstrap.NewEligibilityPolicy(cfg))

	cfg.Adapter.DepartureCutoff = config.CutoffBeforeToday
	assert.Equal(t, stay.EligibilityPolicy{Cutoff: stay.DepartedBeforeToday}, bootstrap.NewEligibilityPolicy(cfg))
}
