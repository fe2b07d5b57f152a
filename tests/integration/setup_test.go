package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stockstalk/internal/forecast"
	"stockstalk/internal/logger"
	"stockstalk/internal/marketdata"
	"stockstalk/internal/models"
	"stockstalk/internal/server"
	"stockstalk/internal/services"
	"stockstalk/internal/validator"
)

// testHistoryDays is the refresh window used by the test app. It is wide
// enough for a refresh to leave a predictable history behind.
const testHistoryDays = 45

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Gateway *fakeGateway
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
	validator.Register()
}

// fakeGateway serves canned quotes and synthesizes one bar per calendar day.
type fakeGateway struct {
	quotes map[string]*marketdata.Quote
	fail   error
	calls  atomic.Int64
}

func newFakeGateway() *fakeGateway {
	price := 191.25
	btc := 64000.5
	return &fakeGateway{quotes: map[string]*marketdata.Quote{
		"AAPL": {
			Symbol:    "AAPL",
			ShortName: "Apple Inc.",
			LongName:  "Apple Inc.",
			Price:     &price,
			Extended:  marketdata.Extended{Sector: strPtr("Technology")},
		},
		"BTC-USD": {Symbol: "BTC-USD", ShortName: "Bitcoin USD", Price: &btc},
	}}
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Profile(_ context.Context, symbol string) (*marketdata.Quote, error) {
	g.calls.Add(1)
	if g.fail != nil {
		return nil, g.fail
	}
	q, ok := g.quotes[symbol]
	if !ok {
		return nil, marketdata.ErrSymbolNotFound
	}
	return q, nil
}

func (g *fakeGateway) History(_ context.Context, symbol string, start, end time.Time) ([]marketdata.Bar, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	if _, ok := g.quotes[symbol]; !ok {
		return nil, marketdata.ErrSymbolNotFound
	}
	var bars []marketdata.Bar
	i := 0
	for d := start.UTC().Truncate(24 * time.Hour); d.Before(end); d = d.AddDate(0, 0, 1) {
		px := 100 + float64(i%7) + float64(i)*0.5
		bars = append(bars, marketdata.Bar{
			Date:   d,
			Open:   decimal.NewFromFloat(px - 1),
			High:   decimal.NewFromFloat(px + 2),
			Low:    decimal.NewFromFloat(px - 2),
			Close:  decimal.NewFromFloat(px),
			Volume: int64(1000 + 10*i),
		})
		i++
	}
	return bars, nil
}

func strPtr(s string) *string { return &s }

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	gateway := newFakeGateway()

	router := server.NewRouter(db, server.Services{
		Users:      services.NewUserService(db),
		Stocks:     services.NewStockService(db, gateway, forecast.NewPredictor(forecast.DefaultConfig()), testHistoryDays),
		Watchlists: services.NewWatchlistService(db),
		Audit:      services.NewAuditService(db),
	}, server.Options{CORSAllowedOrigins: []string{"http://localhost:3000"}})

	return &testApp{DB: db, Router: router, Gateway: gateway}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorMessage returns the flat error message of an error response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, ok := parseJSON(t, rec)["error"].(string)
	if !ok {
		t.Fatalf("expected error string, got %s", rec.Body.String())
	}
	return msg
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// searchStock runs a search that must resolve exactly one stock and returns its ID.
func (app *testApp) searchStock(t *testing.T, q string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/stocks/search/?q="+q, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search failed: %d %s", rec.Code, rec.Body.String())
	}
	items := parseJSONArray(t, rec)
	if len(items) != 1 {
		t.Fatalf("expected 1 search result for %q, got %d", q, len(items))
	}
	return items[0].(map[string]interface{})["id"].(float64)
}
