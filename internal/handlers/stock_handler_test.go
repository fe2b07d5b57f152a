package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	apperrors "stockstalk/internal/errors"
	"stockstalk/internal/marketdata"
	"stockstalk/internal/models"
	"stockstalk/internal/pagination"
	"stockstalk/internal/services"
)

// --- mock stock service ---

type mockStockService struct {
	listStocksFn      func(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	getStockByIDFn    func(id uint) (*models.Stock, error)
	createStockFn     func(input services.StockInput) (*models.Stock, error)
	updateStockFn     func(id uint, input services.StockInput) (*models.Stock, error)
	deleteStockFn     func(id uint) error
	searchStocksFn    func(ctx context.Context, query string) ([]models.Stock, error)
	refreshDetailsFn  func(ctx context.Context, id uint) (*services.StockDetails, error)
	predictPriceFn    func(id uint) (*services.Prediction, error)
	getPriceHistoryFn func(id uint) ([]models.PriceHistory, error)
}

var _ services.StockServicer = (*mockStockService)(nil)

func (m *mockStockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	if m.listStocksFn != nil {
		return m.listStocksFn(page)
	}
	resp := pagination.NewPageResponse([]models.Stock{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStockService) GetStockByID(id uint) (*models.Stock, error) {
	if m.getStockByIDFn != nil {
		return m.getStockByIDFn(id)
	}
	return &models.Stock{Base: models.Base{ID: id}}, nil
}

func (m *mockStockService) CreateStock(input services.StockInput) (*models.Stock, error) {
	if m.createStockFn != nil {
		return m.createStockFn(input)
	}
	return &models.Stock{Base: models.Base{ID: 1}, Symbol: input.Symbol, Name: input.Name}, nil
}

func (m *mockStockService) UpdateStock(id uint, input services.StockInput) (*models.Stock, error) {
	if m.updateStockFn != nil {
		return m.updateStockFn(id, input)
	}
	return &models.Stock{Base: models.Base{ID: id}, Symbol: input.Symbol, Name: input.Name}, nil
}

func (m *mockStockService) DeleteStock(id uint) error {
	if m.deleteStockFn != nil {
		return m.deleteStockFn(id)
	}
	return nil
}

func (m *mockStockService) SearchStocks(ctx context.Context, query string) ([]models.Stock, error) {
	if m.searchStocksFn != nil {
		return m.searchStocksFn(ctx, query)
	}
	return []models.Stock{}, nil
}

func (m *mockStockService) RefreshDetails(ctx context.Context, id uint) (*services.StockDetails, error) {
	if m.refreshDetailsFn != nil {
		return m.refreshDetailsFn(ctx, id)
	}
	return &services.StockDetails{Stock: &models.Stock{Base: models.Base{ID: id}}}, nil
}

func (m *mockStockService) PredictPrice(id uint) (*services.Prediction, error) {
	if m.predictPriceFn != nil {
		return m.predictPriceFn(id)
	}
	return &services.Prediction{}, nil
}

func (m *mockStockService) GetPriceHistory(id uint) ([]models.PriceHistory, error) {
	if m.getPriceHistoryFn != nil {
		return m.getPriceHistoryFn(id)
	}
	return []models.PriceHistory{}, nil
}

// --- router setup ---

func setupStockRouter(handler *StockHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks/", handler.ListStocks)
	r.POST("/stocks/", handler.CreateStock)
	r.GET("/stocks/search/", handler.SearchStocks)
	r.GET("/stocks/:id/", handler.GetStock)
	r.PUT("/stocks/:id/", handler.UpdateStock)
	r.DELETE("/stocks/:id/", handler.DeleteStock)
	r.GET("/stocks/:id/details/", handler.StockDetails)
	r.POST("/stocks/:id/predict_price/", handler.PredictPrice)
	r.GET("/stocks/:id/history/", handler.GetPriceHistory)
	return r
}

func testDate(s string) datatypes.Date {
	d, _ := time.Parse(dateLayout, s)
	return datatypes.Date(d)
}

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

// --- tests ---

func TestStockHandler_ListStocks(t *testing.T) {
	t.Run("returns page envelope", func(t *testing.T) {
		svc := &mockStockService{
			listStocksFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
				if page.Page != 2 || page.PageSize != 1 {
					t.Errorf("expected page=2 page_size=1, got %+v", page)
				}
				resp := pagination.NewPageResponse([]models.Stock{
					{Base: models.Base{ID: 2}, Symbol: "MSFT", Name: "Microsoft", LastPrice: decimal.NewNullDecimal(decimal.NewFromFloat(420.5))},
				}, 2, 1, 2)
				return &resp, nil
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/?page=2&page_size=1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 stock, got %d", len(data))
		}
		stock := data[0].(map[string]interface{})
		if stock["last_price"] != "420.50" {
			t.Errorf("expected last_price=420.50, got %v", stock["last_price"])
		}
		if result["total_pages"].(float64) != 2 {
			t.Errorf("expected total_pages=2, got %v", result["total_pages"])
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockHandler_CreateStock(t *testing.T) {
	t.Run("returns 201 with decimal price", func(t *testing.T) {
		var got services.StockInput
		svc := &mockStockService{
			createStockFn: func(input services.StockInput) (*models.Stock, error) {
				got = input
				return &models.Stock{Base: models.Base{ID: 7}, Symbol: "AAPL", Name: input.Name, LastPrice: input.LastPrice}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupStockRouter(NewStockHandler(svc, audit))

		rec := doRequest(r, "POST", "/stocks/", `{"symbol":"aapl","name":"Apple Inc.","last_price":"189.9"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.LastPrice.Valid || !got.LastPrice.Decimal.Equal(decimal.RequireFromString("189.9")) {
			t.Errorf("expected last_price 189.9, got %v", got.LastPrice)
		}
		result := parseJSON(t, rec)
		if result["last_price"] != "189.90" {
			t.Errorf("expected last_price=189.90, got %v", result["last_price"])
		}
		if _, ok := result["price_history"].([]interface{}); !ok {
			t.Errorf("expected price_history array, got %v", result["price_history"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_STOCK" {
			t.Errorf("expected CREATE_STOCK audit entry, got %v", audit.actions)
		}
	})

	t.Run("accepts null price", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks/", `{"symbol":"BTC-USD","name":"Bitcoin USD","last_price":null}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["last_price"] != nil {
			t.Error("expected null last_price")
		}
	})

	t.Run("returns 400 on invalid ticker", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks/", `{"symbol":"AA PL","name":"Bad"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on duplicate symbol", func(t *testing.T) {
		svc := &mockStockService{
			createStockFn: func(_ services.StockInput) (*models.Stock, error) {
				return nil, apperrors.ErrDuplicateStock
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks/", `{"symbol":"AAPL","name":"Apple Inc."}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorMessage(t, parseJSON(t, rec), apperrors.ErrDuplicateStock.Message)
	})
}

func TestStockHandler_GetStock(t *testing.T) {
	t.Run("returns history with formatted dates", func(t *testing.T) {
		svc := &mockStockService{
			getStockByIDFn: func(id uint) (*models.Stock, error) {
				return &models.Stock{
					Base:   models.Base{ID: id},
					Symbol: "AAPL",
					Name:   "Apple Inc.",
					PriceHistory: []models.PriceHistory{{
						Date:       testDate("2024-06-03"),
						OpenPrice:  decimal.NewFromInt(190),
						HighPrice:  decimal.RequireFromString("192.5"),
						LowPrice:   decimal.NewFromInt(189),
						ClosePrice: decimal.RequireFromString("191.25"),
						Volume:     1200,
					}},
				}, nil
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/3/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		history := parseJSON(t, rec)["price_history"].([]interface{})
		if len(history) != 1 {
			t.Fatalf("expected 1 history row, got %d", len(history))
		}
		row := history[0].(map[string]interface{})
		if row["date"] != "2024-06-03" {
			t.Errorf("expected date=2024-06-03, got %v", row["date"])
		}
		if row["open_price"] != "190.00" || row["close_price"] != "191.25" {
			t.Errorf("unexpected prices: %v", row)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockStockService{
			getStockByIDFn: func(_ uint) (*models.Stock, error) {
				return nil, apperrors.ErrStockNotFound
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/99/", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorMessage(t, parseJSON(t, rec), "Stock not found")
	})

	t.Run("returns 400 on bad id", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/abc/", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockHandler_UpdateStock(t *testing.T) {
	var gotID uint
	svc := &mockStockService{
		updateStockFn: func(id uint, input services.StockInput) (*models.Stock, error) {
			gotID = id
			return &models.Stock{Base: models.Base{ID: id}, Symbol: input.Symbol, Name: input.Name}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/stocks/4/", `{"symbol":"MSFT","name":"Microsoft Corp"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != 4 {
		t.Errorf("expected id 4, got %d", gotID)
	}
	if parseJSON(t, rec)["name"] != "Microsoft Corp" {
		t.Error("expected updated name")
	}
}

func TestStockHandler_DeleteStock(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupStockRouter(NewStockHandler(&mockStockService{}, audit))

		rec := doRequest(r, "DELETE", "/stocks/4/", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_STOCK" {
			t.Errorf("expected DELETE_STOCK audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockStockService{
			deleteStockFn: func(_ uint) error { return apperrors.ErrStockNotFound },
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/stocks/4/", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestStockHandler_SearchStocks(t *testing.T) {
	t.Run("returns matched stocks", func(t *testing.T) {
		var gotQuery string
		svc := &mockStockService{
			searchStocksFn: func(_ context.Context, query string) ([]models.Stock, error) {
				gotQuery = query
				return []models.Stock{
					{Base: models.Base{ID: 1}, Symbol: "BTC-USD", Name: "Bitcoin USD"},
				}, nil
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/search/?q=btc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotQuery != "btc" {
			t.Errorf("expected raw query btc, got %q", gotQuery)
		}
		items := parseJSONArray(t, rec)
		if len(items) != 1 || items[0].(map[string]interface{})["symbol"] != "BTC-USD" {
			t.Errorf("unexpected items: %v", items)
		}
	})

	t.Run("returns empty array when nothing resolves", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/search/?q=zzzz", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "[]" {
			t.Errorf("expected [], got %s", rec.Body.String())
		}
	})

	t.Run("returns 400 without query", func(t *testing.T) {
		svc := &mockStockService{
			searchStocksFn: func(_ context.Context, _ string) ([]models.Stock, error) {
				return nil, apperrors.ErrMissingQuery
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/search/", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorMessage(t, parseJSON(t, rec), "Query parameter 'q' is required")
	})

	t.Run("returns 500 with provider text", func(t *testing.T) {
		svc := &mockStockService{
			searchStocksFn: func(_ context.Context, _ string) ([]models.Stock, error) {
				return nil, apperrors.Raw(apperrors.ErrMarketData, errors.New("yahoo: connection reset"))
			},
		}
		r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stocks/search/?q=AAPL", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorMessage(t, parseJSON(t, rec), "yahoo: connection reset")
	})
}

func TestStockHandler_StockDetails(t *testing.T) {
	svc := &mockStockService{
		refreshDetailsFn: func(_ context.Context, id uint) (*services.StockDetails, error) {
			return &services.StockDetails{
				Stock: &models.Stock{
					Base:         models.Base{ID: id},
					Symbol:       "AAPL",
					Name:         "Apple Inc.",
					LastPrice:    decimal.NewNullDecimal(decimal.RequireFromString("191.25")),
					PriceHistory: []models.PriceHistory{},
				},
				Extended: marketdata.Extended{
					MarketCap: floatPtr(2.9e12),
					Sector:    strPtr("Technology"),
				},
			}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/stocks/1/details/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["symbol"] != "AAPL" {
		t.Errorf("expected symbol AAPL, got %v", result["symbol"])
	}
	if result["sector"] != "Technology" {
		t.Errorf("expected sector Technology, got %v", result["sector"])
	}
	if result["marketCap"].(float64) != 2.9e12 {
		t.Errorf("expected marketCap 2.9e12, got %v", result["marketCap"])
	}
	if v, ok := result["peRatio"]; !ok || v != nil {
		t.Errorf("expected peRatio null, got %v (present=%v)", v, ok)
	}
}

func TestStockHandler_PredictPrice(t *testing.T) {
	t.Run("returns prediction", func(t *testing.T) {
		when := time.Date(2024, 6, 28, 15, 30, 0, 0, time.UTC)
		svc := &mockStockService{
			predictPriceFn: func(_ uint) (*services.Prediction, error) {
				return &services.Prediction{
					Symbol:         "AAPL",
					PredictedPrice: decimal.RequireFromString("193.4"),
					PredictionDate: when,
					Accuracy:       0.87,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupStockRouter(NewStockHandler(svc, audit))

		rec := doRequest(r, "POST", "/stocks/1/predict_price/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["predicted_price"] != "193.40" {
			t.Errorf("expected predicted_price=193.40, got %v", result["predicted_price"])
		}
		if result["accuracy"].(float64) != 0.87 {
			t.Errorf("expected accuracy 0.87, got %v", result["accuracy"])
		}
		if result["prediction_date"] != "2024-06-28T15:30:00Z" {
			t.Errorf("unexpected prediction_date %v", result["prediction_date"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "PREDICT_PRICE" {
			t.Errorf("expected PREDICT_PRICE audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on insufficient data", func(t *testing.T) {
		svc := &mockStockService{
			predictPriceFn: func(_ uint) (*services.Prediction, error) {
				return nil, apperrors.ErrInsufficientData
			},
		}
		audit := &mockAuditService{}
		r := setupStockRouter(NewStockHandler(svc, audit))

		rec := doRequest(r, "POST", "/stocks/1/predict_price/", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorMessage(t, parseJSON(t, rec), "Insufficient data for prediction")
		if len(audit.actions) != 0 {
			t.Errorf("expected no audit entry, got %v", audit.actions)
		}
	})
}

func TestStockHandler_GetPriceHistory(t *testing.T) {
	svc := &mockStockService{
		getPriceHistoryFn: func(_ uint) ([]models.PriceHistory, error) {
			return []models.PriceHistory{
				{Date: testDate("2024-06-04"), ClosePrice: decimal.NewFromInt(2)},
				{Date: testDate("2024-06-03"), ClosePrice: decimal.NewFromInt(1)},
			}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/stocks/1/history/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rows := parseJSONArray(t, rec)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].(map[string]interface{})["date"] != "2024-06-04" {
		t.Errorf("expected newest first, got %v", rows[0])
	}
}
