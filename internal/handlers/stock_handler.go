package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockstalk/internal/pagination"
	"stockstalk/internal/services"
)

// StockHandler handles stock-related requests.
type StockHandler struct {
	stockService services.StockServicer
	auditService services.AuditServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer, auditService services.AuditServicer) *StockHandler {
	return &StockHandler{stockService: stockService, auditService: auditService}
}

// StockRequest is the payload for creating or replacing a stock.
type StockRequest struct {
	Symbol    string              `json:"symbol" binding:"required,ticker"`
	Name      string              `json:"name" binding:"required,max=255"`
	LastPrice decimal.NullDecimal `json:"last_price" swaggertype:"string"`
}

func (r StockRequest) input() services.StockInput {
	return services.StockInput{Symbol: r.Symbol, Name: r.Name, LastPrice: r.LastPrice}
}

// ListStocks handles listing stocks.
// @Summary     List stocks
// @Description Get a paginated list of tracked stocks ordered by symbol
// @Tags        stocks
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[StockResponse] "Paginated stocks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/ [get]
func (h *StockHandler) ListStocks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.stockService.ListStocks(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(
		serializeStocks(result.Data), result.Page, result.PageSize, result.TotalItems,
	))
}

// CreateStock handles creating a stock.
// @Summary     Create stock
// @Description Start tracking a stock symbol
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       request body StockRequest true "Stock details"
// @Success     201 {object} StockDetailResponse "Stock created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate symbol"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/ [post]
func (h *StockHandler) CreateStock(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	stock, err := h.stockService.CreateStock(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "CREATE_STOCK", "stock", stock.ID, c.ClientIP(),
		map[string]interface{}{"symbol": stock.Symbol})

	c.JSON(http.StatusCreated, serializeStockDetail(stock))
}

// GetStock handles retrieving a stock.
// @Summary     Get stock by ID
// @Description Get a stock with its stored price history, newest first
// @Tags        stocks
// @Produce     json
// @Param       id path int true "Stock ID"
// @Success     200 {object} StockDetailResponse "Stock details"
// @Failure     400 {object} ErrorResponse "Invalid stock ID"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /stocks/{id}/ [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stock, err := h.stockService.GetStockByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializeStockDetail(stock))
}

// UpdateStock handles replacing a stock's writable fields.
// @Summary     Update stock
// @Description Replace the symbol, name and last price of a stock
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       id      path int          true "Stock ID"
// @Param       request body StockRequest true "Stock details"
// @Success     200 {object} StockDetailResponse "Stock updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /stocks/{id}/ [put]
func (h *StockHandler) UpdateStock(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	stock, err := h.stockService.UpdateStock(id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "UPDATE_STOCK", "stock", stock.ID, c.ClientIP(),
		map[string]interface{}{"symbol": stock.Symbol, "name": stock.Name})

	c.JSON(http.StatusOK, serializeStockDetail(stock))
}

// DeleteStock handles deleting a stock and its history.
// @Summary     Delete stock
// @Description Delete a stock, its price history and its watchlist memberships
// @Tags        stocks
// @Param       id path int true "Stock ID"
// @Success     204 "Stock deleted"
// @Failure     400 {object} ErrorResponse "Invalid stock ID"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /stocks/{id}/ [delete]
func (h *StockHandler) DeleteStock(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.stockService.DeleteStock(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "DELETE_STOCK", "stock", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// SearchStocks handles symbol search.
// @Summary     Search stocks
// @Description Resolve a ticker against the market data provider and upsert every match
// @Tags        stocks
// @Produce     json
// @Param       q query string true "Ticker symbol"
// @Success     200 {array}  StockResponse "Matched stocks"
// @Failure     400 {object} ErrorResponse "Missing query"
// @Failure     500 {object} ErrorResponse "Provider error"
// @Router      /stocks/search/ [get]
func (h *StockHandler) SearchStocks(c *gin.Context) {
	stocks, err := h.stockService.SearchStocks(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializeStocks(stocks))
}

// StockDetails handles refreshing a stock from the provider.
// @Summary     Refresh stock details
// @Description Fetch the current quote and recent daily bars, replace the stored history and return both
// @Tags        stocks
// @Produce     json
// @Param       id path int true "Stock ID"
// @Success     200 {object} StockDetailsResponse "Refreshed stock"
// @Failure     400 {object} ErrorResponse "Invalid stock ID"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     500 {object} ErrorResponse "Provider error"
// @Router      /stocks/{id}/details/ [get]
func (h *StockHandler) StockDetails(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	details, err := h.stockService.RefreshDetails(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializeStockDetails(details))
}

// PredictPrice handles next-close price prediction.
// @Summary     Predict price
// @Description Fit a model on the last 60 days of stored history and store the estimate
// @Tags        stocks
// @Produce     json
// @Param       id path int true "Stock ID"
// @Success     200 {object} PredictionResponse "Prediction"
// @Failure     400 {object} ErrorResponse "Insufficient data"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     500 {object} ErrorResponse "Prediction error"
// @Router      /stocks/{id}/predict_price/ [post]
func (h *StockHandler) PredictPrice(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	prediction, err := h.stockService.PredictPrice(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "PREDICT_PRICE", "stock", id, c.ClientIP(),
		map[string]interface{}{
			"predicted_price": prediction.PredictedPrice.StringFixed(2),
			"accuracy":        prediction.Accuracy,
		})

	c.JSON(http.StatusOK, serializePrediction(prediction))
}

// GetPriceHistory handles listing stored history.
// @Summary     Get price history
// @Description Get the stored daily bars of a stock, newest first
// @Tags        stocks
// @Produce     json
// @Param       id path int true "Stock ID"
// @Success     200 {array}  PriceHistoryResponse "Price history"
// @Failure     400 {object} ErrorResponse "Invalid stock ID"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /stocks/{id}/history/ [get]
func (h *StockHandler) GetPriceHistory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.stockService.GetPriceHistory(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializeHistory(rows))
}
