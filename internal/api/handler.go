package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/service"
)

// Handler provides the HTTP handler for the stock data relay.
//
// Responsibilities:
//   - Validate the incoming ticker query parameter
//   - Delegate fetching and trimming to the service layer
//   - Return the trimmed series as JSON, or hand the error to middleware.ErrorHandler
type Handler struct {
	svc service.StockService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.StockService) *Handler {
	return &Handler{svc: svc}
}

// GetStockData handles GET /get_stock_data requests.
//
// Query Parameters:
//   - ticker (string, required): Stock ticker symbol (e.g., "IBM"), forwarded as given.
//
// Responses:
//   - 200 OK: {"Meta Data": {...}, "Time Series (Daily)": {...}} with at most 30 days.
//   - 400 Bad Request: missing ticker.
//   - 404 Not Found: provider error message, or no daily series.
//   - 500 Internal Server Error: missing API key, provider unreachable, anything unexpected.
//
// GetStockData godoc
// @Summary      Get daily prices by ticker
// @Description  Relays TIME_SERIES_DAILY from Alpha Vantage and returns the first 30 days in provider order
// @Tags         stocks
// @Produce      json
// @Param        ticker  query     string  true  "Stock ticker" example(IBM)
// @Success      200     {object}  dto.StockDataResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse      "Missing ticker"
// @Failure      404     {object}  dto.ErrorResponse      "Provider error or no data"
// @Failure      500     {object}  dto.ErrorResponse      "Configuration, transport or internal error"
// @Router       /get_stock_data [get]
func (h *Handler) GetStockData(c *gin.Context) {
	// ─── Validate "ticker" param ──────────────────────────────
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		_ = c.Error(apperr.MissingTicker())
		c.Abort()
		return
	}

	// ─── Query service (with request context) ─────────────────
	resp, err := h.svc.GetDailySeries(c.Request.Context(), ticker)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, resp)
}
