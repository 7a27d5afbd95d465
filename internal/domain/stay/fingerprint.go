package stay

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// fingerprintFields is the business-identity scope of the content hash:
// enough to identify one guest's stay at one property, plus the record update
// timestamp as a coarse revision marker. Revenue recalculations and other
// non-identity column churn do not produce new events.
var fingerprintFields = []string{
	FieldArrivalDateKey,
	FieldDepartureDateKey,
	FieldPropertyID,
	FieldRecordUpdateDttm,
	FieldResvDetailID,
	FieldRewardsID,
}

// Fingerprint computes the canonical SHA-256 content hash of a row as
// lowercase hex. Two rows with equal business-identity values hash equal
// regardless of source field order or decimal-vs-float representation. Each
// value is length-prefixed so separator characters inside a value cannot
// forge a field boundary.
func Fingerprint(row Row) string {
	var b strings.Builder
	for _, name := range fingerprintFields {
		v := canonicalValue(row, name)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// canonicalValue renders one field deterministically. Numbers go through a
// normalized decimal literal so int64(1230), 1230.0 and "1230" scanned as
// NUMERIC all serialize to "1230"; absent fields render as "null".
func canonicalValue(row Row, name string) string {
	v, ok := row.Get(name)
	if !ok {
		return "null"
	}
	switch c := v.(type) {
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return decimal.NewFromFloat(c).String()
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		return c.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(c)
	}
}
