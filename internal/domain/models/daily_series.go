package models

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DailySeries is the usable part of a TIME_SERIES_DAILY answer.
//
// Fields:
//   - Symbol: ticker the series was requested for.
//   - MetaData: the provider's "Meta Data" block, untouched.
//   - Days: date -> daily record, in the order the provider returned them
//     (most recent first in practice, not guaranteed by the provider).
type DailySeries struct {
	Symbol   string
	MetaData json.RawMessage
	Days     *orderedmap.OrderedMap[string, json.RawMessage]
}

// Len returns the number of days in the series.
func (s *DailySeries) Len() int {
	if s == nil || s.Days == nil {
		return 0
	}
	return s.Days.Len()
}
