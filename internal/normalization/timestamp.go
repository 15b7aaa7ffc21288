package normalization

import (
	"strings"
	"time"

	"genesis-sniper-lab/internal/domain"
)

// readableLayouts are tried in order; zone-less layouts are read as UTC.
var readableLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// epochMillisCutoff separates epoch seconds from epoch milliseconds.
const epochMillisCutoff = 1e12

// ResolveTimestamp reconciles the readable and epoch timestamp fields into
// Unix milliseconds. The readable field wins when it parses; 0 means unknown.
func ResolveTimestamp(raw domain.RawSwap) int64 {
	if ms, ok := parseReadable(raw[domain.RawKeyTimestampReadable]); ok {
		return ms
	}
	return parseEpoch(raw[domain.RawKeyTimestamp])
}

func parseReadable(v any) (int64, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return 0, false
		}
		return val.UnixMilli(), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		for _, layout := range readableLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UnixMilli(), true
			}
		}
	}
	return 0, false
}

func parseEpoch(v any) int64 {
	if v == nil {
		return 0
	}
	if ms, ok := parseReadable(v); ok {
		return ms
	}
	sec := ToNumber(v)
	if sec <= 0 {
		return 0
	}
	if sec >= epochMillisCutoff {
		return int64(sec)
	}
	return int64(sec * 1000)
}
