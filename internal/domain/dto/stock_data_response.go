package dto

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StockDataResponse represents the JSON structure returned by the
// GET /get_stock_data endpoint.
//
// Key names mirror the provider's so existing clients keep working.
// MetaData is passed through byte for byte; TimeSeries keeps the order in
// which the provider listed the days.
type StockDataResponse struct {
	MetaData   json.RawMessage                                 `json:"Meta Data" swaggertype:"object"`
	TimeSeries *orderedmap.OrderedMap[string, json.RawMessage] `json:"Time Series (Daily)" swaggertype:"object"`
}
