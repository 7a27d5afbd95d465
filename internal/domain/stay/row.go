package stay

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Field names used by the eligibility filter, the fingerprint, and the event
// transformer. The remaining warehouse columns are only carried through.
const (
	FieldResvNbr          = "resv_nbr"
	FieldResvDetailID     = "resv_detail_id"
	FieldPropertyID       = "property_id"
	FieldRewardsID        = "rewards_id"
	FieldArrivalDateKey   = "arrival_dt_key"
	FieldDepartureDateKey = "departure_dt_key"
	FieldCancelDateKey    = "cancel_dt_key"
	FieldRateCode         = "rate_code"
	FieldDistChannel1Key  = "dim_dist_channel_1_key"
	FieldDistChannel3Key  = "dim_dist_channel_3_key"
	FieldRecordUpdateDttm = "record_update_dttm"
)

// SentinelRewardsID marks "no loyalty membership" in the warehouse and is
// never eligible for publication.
const SentinelRewardsID = "XXXXX"

// knownFields is the full column set of the warehouse fact table. Columns not
// listed here are dropped during normalization.
var knownFields = map[string]struct{}{
	"resv_nbr": {}, "resv_detail_id": {}, "booking_dt_key": {},
	"arrival_dt_key": {}, "departure_dt_key": {}, "cancel_dt_key": {},
	"conf_nbr": {}, "nbr_adults": {}, "nbr_children": {},
	"dim_property_key": {}, "property_id": {}, "dist_channel_0": {},
	"rewards_id": {}, "dim_ta_key": {}, "ta_id": {}, "dim_ca_key": {},
	"ca_id": {}, "dim_rate_code_key": {}, "dim_rewards_key": {},
	"rate_code": {}, "dim_room_type_key": {}, "room_category": {},
	"dim_country_origin_key": {}, "country_origin_code": {},
	"record_update_dttm": {}, "stay": {}, "stay_before_cancellation": {},
	"length_of_stay": {}, "length_of_stay_before_cancellation": {},
	"rev_local_curr": {}, "rev_usd": {},
	"rev_before_cancellation_local_curr": {}, "rev_before_cancellation_usd": {},
	"roomnights": {}, "roomnights_before_cancellation": {},
	"adr_usd": {}, "adr_local_curr": {},
	"adr_before_cancellation_usd": {}, "adr_before_cancellation_local_curr": {},
	"vat_usd": {}, "vat_local_curr": {},
	"vat_usd_departure": {}, "vat_local_curr_departure": {},
	"dim_dist_channel_1_key": {}, "dim_dist_channel_2_key": {},
	"dim_dist_channel_3_key": {}, "dim_dist_channel_4_key": {},
	"dim_business_source_key": {}, "business_source_code": {},
	"booking_exchange_rate": {}, "booking_currency_code": {},
	"property_currency_exchange_rate": {}, "property_currency_code": {},
	"name_id": {}, "ota_enroll_ind": {}, "wh_conf_nbr": {}, "sx_ind": {},
	"lynx_ad_code": {}, "operator_user_id": {}, "guarantee_code": {},
	"rate_code_original": {}, "dim_rate_code_original_key": {},
	"dim_parent_acct_key": {}, "dim_sales_mgr_key": {}, "comm_ind": {},
	"dim_operator_worker_key": {}, "operator_worker_id": {},
	"dim_rate_header_market_segment_key": {},
	"dim_update_operator_worker_key": {}, "update_operator_worker_id": {},
	"gds_record_locator": {}, "source_record_update_dttm": {},
	"dim_guest_key": {}, "guest_id": {}, "cancel_by_date": {},
	"leg_no": {}, "original_leg_no": {}, "booking_dttm": {},
	"dim_guest_departure_dt_key": {}, "batch_ind": {}, "batch_update_dttm": {},
	"rev_usd_fx": {}, "rev_local_curr_fx": {}, "day_use_ind": {},
	"no_show_ind": {}, "external_reference": {}, "crx_resv_ind": {},
}

// Row is one normalized warehouse record. It is immutable after construction;
// a field that was missing or null in the source is explicitly absent rather
// than holding a zero value.
type Row struct {
	fields map[string]any
}

// Normalize builds a Row from a raw column→value mapping. Unknown columns are
// dropped, nulls become explicit absence, and arbitrary-precision decimals
// collapse to int64 when exactly integral, otherwise float64. Normalize never
// fails: values it cannot make sense of degrade to their string form.
func Normalize(raw map[string]any) Row {
	fields := make(map[string]any, len(raw))
	for name, value := range raw {
		if _, ok := knownFields[name]; !ok {
			continue
		}
		v, present := normalizeValue(value)
		if !present {
			continue
		}
		fields[name] = v
	}
	return Row{fields: fields}
}

func normalizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case decimal.Decimal:
		return collapseDecimal(v), true
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return collapseDecimal(d), true
		}
		return v.String(), true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string, bool, time.Time:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// collapseDecimal keeps exact integers as int64 so that NUMERIC(10,0) columns
// survive normalization without a float round trip.
func collapseDecimal(d decimal.Decimal) any {
	if d.IsInteger() && d.BigInt().IsInt64() {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}

// Get returns the normalized value for name. The second return is false when
// the field is absent (missing, null, or unknown at normalization time).
func (r Row) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Present reports whether the field carries a value.
func (r Row) Present(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// FieldNames returns the present field names in sorted order.
func (r Row) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of present fields.
func (r Row) Len() int {
	return len(r.fields)
}
