package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockstalk/internal/forecast"
	"stockstalk/internal/marketdata"
	"stockstalk/internal/models"
	"stockstalk/internal/pagination"
	"stockstalk/internal/testutil"
)

// fakeGateway serves canned quotes and bars. Symbols missing from quotes
// report ErrSymbolNotFound unless errs has an entry for them.
type fakeGateway struct {
	quotes     map[string]*marketdata.Quote
	errs       map[string]error
	bars       []marketdata.Bar
	historyErr error
	profiled   []string
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Profile(_ context.Context, symbol string) (*marketdata.Quote, error) {
	g.profiled = append(g.profiled, symbol)
	if err, ok := g.errs[symbol]; ok {
		return nil, err
	}
	q, ok := g.quotes[symbol]
	if !ok {
		return nil, &marketdata.ProviderError{Provider: "fake", Symbol: symbol, Err: marketdata.ErrSymbolNotFound}
	}
	cp := *q
	cp.Symbol = symbol
	return &cp, nil
}

func (g *fakeGateway) History(_ context.Context, _ string, _, _ time.Time) ([]marketdata.Bar, error) {
	if g.historyErr != nil {
		return nil, g.historyErr
	}
	return g.bars, nil
}

func floatPtr(v float64) *float64 { return &v }

var fixedNow = time.Date(2024, 6, 28, 15, 30, 0, 0, time.UTC)

func newTestStockService(t *testing.T, gw marketdata.Gateway) (*stockService, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewStockService(db, gw, forecast.NewPredictor(forecast.DefaultConfig()), 30).(*stockService)
	svc.now = func() time.Time { return fixedNow }
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func TestSearchStocks(t *testing.T) {
	t.Run("empty_query", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		_, err := svc.SearchStocks(context.Background(), "   ")
		testutil.AssertAppError(t, err, "MISSING_QUERY")
	})

	t.Run("literal_and_related", func(t *testing.T) {
		gw := &fakeGateway{quotes: map[string]*marketdata.Quote{
			"BTC":     {ShortName: "Grayscale BTC", Price: floatPtr(45.123)},
			"BTC-USD": {ShortName: "Bitcoin USD", Price: floatPtr(64000)},
			"BTC.DE":  {LongName: "Only long name"},
		}}
		svc, done := newTestStockService(t, gw)
		defer done()

		stocks, err := svc.SearchStocks(context.Background(), "btc")
		testutil.AssertNoError(t, err)

		if len(stocks) != 2 {
			t.Fatalf("expected 2 stocks, got %d", len(stocks))
		}
		if stocks[0].Symbol != "BTC" || stocks[1].Symbol != "BTC-USD" {
			t.Errorf("unexpected order: %s, %s", stocks[0].Symbol, stocks[1].Symbol)
		}
		testutil.AssertPrice(t, stocks[0].LastPrice, "45.12")

		want := []string{"BTC", "BTC.X", "BTC-USD", "BTC.DE"}
		if len(gw.profiled) != len(want) {
			t.Fatalf("expected probes %v, got %v", want, gw.profiled)
		}
		for i := range want {
			if gw.profiled[i] != want[i] {
				t.Errorf("probe %d: expected %s, got %s", i, want[i], gw.profiled[i])
			}
		}
	})

	t.Run("fallback_when_nothing_resolves", func(t *testing.T) {
		gw := &fakeGateway{quotes: map[string]*marketdata.Quote{}}
		svc, done := newTestStockService(t, gw)
		defer done()

		stocks, err := svc.SearchStocks(context.Background(), "ZZZ")
		testutil.AssertNoError(t, err)

		if len(stocks) != 0 {
			t.Errorf("expected no stocks, got %d", len(stocks))
		}
		// literal + 3 related + 3 fallback
		if len(gw.profiled) != 7 {
			t.Errorf("expected 7 probes, got %v", gw.profiled)
		}
	})

	t.Run("upsert_updates_existing", func(t *testing.T) {
		gw := &fakeGateway{quotes: map[string]*marketdata.Quote{
			"AAPL": {ShortName: "Apple Inc.", Price: floatPtr(190)},
		}}
		svc, done := newTestStockService(t, gw)
		defer done()

		_, err := svc.SearchStocks(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)

		gw.quotes["AAPL"] = &marketdata.Quote{ShortName: "Apple", Price: floatPtr(195.5)}
		stocks, err := svc.SearchStocks(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)

		var count int64
		svc.db.Model(&models.Stock{}).Where("symbol = ?", "AAPL").Count(&count)
		if count != 1 {
			t.Fatalf("expected 1 AAPL row, got %d", count)
		}
		if stocks[0].Name != "Apple" {
			t.Errorf("expected name Apple, got %s", stocks[0].Name)
		}

		var stored models.Stock
		svc.db.Where("symbol = ?", "AAPL").First(&stored)
		testutil.AssertPrice(t, stored.LastPrice, "195.50")
	})

	t.Run("literal_provider_error", func(t *testing.T) {
		gw := &fakeGateway{errs: map[string]error{"AAPL": errors.New("connection refused")}}
		svc, done := newTestStockService(t, gw)
		defer done()

		_, err := svc.SearchStocks(context.Background(), "AAPL")
		testutil.AssertAppError(t, err, "MARKET_DATA_ERROR")
		if err.Error() != "connection refused" {
			t.Errorf("expected raw provider message, got %q", err.Error())
		}
	})

	t.Run("variant_error_is_skipped", func(t *testing.T) {
		gw := &fakeGateway{
			quotes: map[string]*marketdata.Quote{"AAPL": {ShortName: "Apple"}},
			errs:   map[string]error{"AAPL.X": errors.New("timeout")},
		}
		svc, done := newTestStockService(t, gw)
		defer done()

		stocks, err := svc.SearchStocks(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)
		if len(stocks) != 1 {
			t.Errorf("expected 1 stock, got %d", len(stocks))
		}
		if stocks[0].LastPrice.Valid {
			t.Error("expected null last price when the quote has none")
		}
	})
}

func TestRefreshDetails(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	bar := func(d int, close string) marketdata.Bar {
		c := decimal.RequireFromString(close)
		return marketdata.Bar{Date: day(d), Open: c, High: c, Low: c, Close: c, Volume: int64(d * 100)}
	}

	t.Run("replaces_history", func(t *testing.T) {
		gw := &fakeGateway{
			quotes: map[string]*marketdata.Quote{
				"MSFT": {
					ShortName: "Microsoft",
					Price:     floatPtr(420.456),
					Extended:  marketdata.Extended{MarketCap: floatPtr(3e12)},
				},
			},
			bars: []marketdata.Bar{bar(25, "410"), bar(26, "415"), bar(27, "418"), bar(27, "419")},
		}
		svc, done := newTestStockService(t, gw)
		defer done()

		stock := testutil.CreateTestStockWithSymbol(t, svc.db, "MSFT")
		testutil.CreateTestHistory(t, svc.db, stock.ID, day(10), 5)

		details, err := svc.RefreshDetails(context.Background(), stock.ID)
		testutil.AssertNoError(t, err)

		if details.Stock.Name != "Microsoft" {
			t.Errorf("expected name Microsoft, got %s", details.Stock.Name)
		}
		testutil.AssertPrice(t, details.Stock.LastPrice, "420.46")
		if details.Extended.MarketCap == nil || *details.Extended.MarketCap != 3e12 {
			t.Errorf("expected market cap to pass through, got %v", details.Extended.MarketCap)
		}

		history := details.Stock.PriceHistory
		if len(history) != 3 {
			t.Fatalf("expected 3 history rows, got %d", len(history))
		}
		if got := time.Time(history[0].Date).Format("2006-01-02"); got != "2024-06-27" {
			t.Errorf("expected newest first, got %s", got)
		}
		if history[0].ClosePrice.String() != "419" {
			t.Errorf("expected duplicate date to keep the last bar, got %s", history[0].ClosePrice)
		}

		var count int64
		svc.db.Model(&models.PriceHistory{}).Where("stock_id = ?", stock.ID).Count(&count)
		if count != 3 {
			t.Errorf("expected old history to be replaced, got %d rows", count)
		}
	})

	t.Run("keeps_price_when_quote_has_none", func(t *testing.T) {
		gw := &fakeGateway{quotes: map[string]*marketdata.Quote{"IBM": {}}}
		svc, done := newTestStockService(t, gw)
		defer done()

		stock := testutil.CreateTestStockWithSymbol(t, svc.db, "IBM")

		details, err := svc.RefreshDetails(context.Background(), stock.ID)
		testutil.AssertNoError(t, err)
		if details.Stock.Name != "IBM Corp" {
			t.Errorf("expected existing name to be kept, got %s", details.Stock.Name)
		}
		testutil.AssertPrice(t, details.Stock.LastPrice, "100.00")
		if len(details.Stock.PriceHistory) != 0 {
			t.Errorf("expected empty history, got %d rows", len(details.Stock.PriceHistory))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		_, err := svc.RefreshDetails(context.Background(), 999)
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})

	t.Run("history_error_keeps_quote_and_stored_rows", func(t *testing.T) {
		gw := &fakeGateway{
			quotes:     map[string]*marketdata.Quote{"NFLX": {ShortName: "Netflix", Price: floatPtr(612.3)}},
			historyErr: errors.New("rate limited"),
		}
		svc, done := newTestStockService(t, gw)
		defer done()

		stock := testutil.CreateTestStockWithSymbol(t, svc.db, "NFLX")
		testutil.CreateTestHistory(t, svc.db, stock.ID, day(10), 4)

		_, err := svc.RefreshDetails(context.Background(), stock.ID)
		testutil.AssertAppError(t, err, "MARKET_DATA_ERROR")

		var count int64
		svc.db.Model(&models.PriceHistory{}).Where("stock_id = ?", stock.ID).Count(&count)
		if count != 4 {
			t.Errorf("expected stored history untouched, got %d rows", count)
		}

		var saved models.Stock
		testutil.AssertNoError(t, svc.db.First(&saved, stock.ID).Error)
		if saved.Name != "Netflix" {
			t.Errorf("expected quote name to be saved, got %s", saved.Name)
		}
		testutil.AssertPrice(t, saved.LastPrice, "612.30")
	})
}

func TestPredictPrice(t *testing.T) {
	t.Run("insufficient_data", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock := testutil.CreateTestStock(t, svc.db)
		testutil.CreateTestHistory(t, svc.db, stock.ID, fixedNow, 29)

		_, err := svc.PredictPrice(stock.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_DATA")

		var stored models.Stock
		svc.db.First(&stored, stock.ID)
		if stored.PredictedPrice.Valid || stored.PredictionDate != nil || stored.ModelAccuracy != nil {
			t.Error("expected prediction fields to stay empty")
		}
	})

	t.Run("old_rows_do_not_count", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock := testutil.CreateTestStock(t, svc.db)
		testutil.CreateTestHistory(t, svc.db, stock.ID, fixedNow.AddDate(0, 0, -90), 40)

		_, err := svc.PredictPrice(stock.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_DATA")
	})

	t.Run("refresh_window_below_minimum", func(t *testing.T) {
		var bars []marketdata.Bar
		for d := fixedNow.AddDate(0, 0, -30); !d.After(fixedNow); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			c := decimal.NewFromInt(int64(150 + d.Day()))
			bars = append(bars, marketdata.Bar{Date: d, Open: c, High: c, Low: c, Close: c, Volume: 1000})
		}
		gw := &fakeGateway{
			quotes: map[string]*marketdata.Quote{"AMD": {ShortName: "AMD", Price: floatPtr(160)}},
			bars:   bars,
		}
		svc, done := newTestStockService(t, gw)
		defer done()

		stock := testutil.CreateTestStockWithSymbol(t, svc.db, "AMD")
		details, err := svc.RefreshDetails(context.Background(), stock.ID)
		testutil.AssertNoError(t, err)
		if n := len(details.Stock.PriceHistory); n == 0 || n >= 30 {
			t.Fatalf("expected a partial trading month, got %d rows", n)
		}

		_, err = svc.PredictPrice(stock.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_DATA")
	})

	t.Run("persists_prediction", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock := testutil.CreateTestStock(t, svc.db)
		testutil.CreateTestHistory(t, svc.db, stock.ID, fixedNow, 45)

		first, err := svc.PredictPrice(stock.ID)
		testutil.AssertNoError(t, err)
		second, err := svc.PredictPrice(stock.ID)
		testutil.AssertNoError(t, err)

		if !first.PredictedPrice.Equal(second.PredictedPrice) || first.Accuracy != second.Accuracy {
			t.Errorf("expected repeatable prediction, got %s/%v and %s/%v",
				first.PredictedPrice, first.Accuracy, second.PredictedPrice, second.Accuracy)
		}
		if first.Symbol != stock.Symbol {
			t.Errorf("expected symbol %s, got %s", stock.Symbol, first.Symbol)
		}
		if !first.PredictionDate.Equal(fixedNow) {
			t.Errorf("expected prediction date %v, got %v", fixedNow, first.PredictionDate)
		}
		// Closes run 100..144 and a forest never leaves the training range.
		if first.PredictedPrice.LessThan(decimal.NewFromInt(100)) || first.PredictedPrice.GreaterThan(decimal.NewFromInt(144)) {
			t.Errorf("prediction %s outside the observed range", first.PredictedPrice)
		}

		var stored models.Stock
		svc.db.First(&stored, stock.ID)
		if !stored.PredictedPrice.Valid || !stored.PredictedPrice.Decimal.Equal(first.PredictedPrice) {
			t.Errorf("expected stored prediction %s, got %v", first.PredictedPrice, stored.PredictedPrice)
		}
		if stored.ModelAccuracy == nil || *stored.ModelAccuracy != first.Accuracy {
			t.Errorf("expected stored accuracy %v, got %v", first.Accuracy, stored.ModelAccuracy)
		}
		if stored.PredictionDate == nil {
			t.Error("expected prediction date to be stored")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		_, err := svc.PredictPrice(42)
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})
}

func TestStockCRUD(t *testing.T) {
	t.Run("create_and_duplicate", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock, err := svc.CreateStock(StockInput{Symbol: "goog", Name: "Alphabet"})
		testutil.AssertNoError(t, err)
		if stock.Symbol != "GOOG" {
			t.Errorf("expected upper-cased symbol, got %s", stock.Symbol)
		}

		_, err = svc.CreateStock(StockInput{Symbol: "GOOG", Name: "Alphabet again"})
		testutil.AssertAppError(t, err, "DUPLICATE_STOCK")
	})

	t.Run("create_requires_fields", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		_, err := svc.CreateStock(StockInput{Name: "No symbol"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateStock(StockInput{Symbol: "X"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("update", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock := testutil.CreateTestStock(t, svc.db)
		updated, err := svc.UpdateStock(stock.ID, StockInput{
			Symbol:    stock.Symbol,
			Name:      "Renamed",
			LastPrice: decimal.NewNullDecimal(decimal.RequireFromString("12.345")),
		})
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed" {
			t.Errorf("expected Renamed, got %s", updated.Name)
		}
		testutil.AssertPrice(t, updated.LastPrice, "12.35")

		_, err = svc.UpdateStock(9999, StockInput{Symbol: "A", Name: "B"})
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})

	t.Run("delete_cascades", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		user := testutil.CreateTestUser(t, svc.db)
		stock := testutil.CreateTestStock(t, svc.db)
		testutil.CreateTestHistory(t, svc.db, stock.ID, fixedNow, 3)
		watchlist := testutil.CreateTestWatchlist(t, svc.db, user.ID)
		if err := svc.db.Model(watchlist).Association("Stocks").Append(stock); err != nil {
			t.Fatalf("failed to add stock: %v", err)
		}

		testutil.AssertNoError(t, svc.DeleteStock(stock.ID))

		var history, members int64
		svc.db.Model(&models.PriceHistory{}).Where("stock_id = ?", stock.ID).Count(&history)
		svc.db.Table("watchlist_stocks").Where("stock_id = ?", stock.ID).Count(&members)
		if history != 0 || members != 0 {
			t.Errorf("expected history and memberships removed, got %d/%d", history, members)
		}

		testutil.AssertAppError(t, svc.DeleteStock(stock.ID), "STOCK_NOT_FOUND")
	})

	t.Run("list_paginated", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		for _, sym := range []string{"CCC", "AAA", "BBB"} {
			testutil.CreateTestStockWithSymbol(t, svc.db, sym)
		}

		page, err := svc.ListStocks(pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 || page.TotalPages != 2 {
			t.Errorf("expected 3 items over 2 pages, got %d/%d", page.TotalItems, page.TotalPages)
		}
		if len(page.Data) != 2 || page.Data[0].Symbol != "AAA" {
			t.Errorf("expected AAA first, got %+v", page.Data)
		}
	})

	t.Run("history_newest_first", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock := testutil.CreateTestStock(t, svc.db)
		testutil.CreateTestHistory(t, svc.db, stock.ID, fixedNow, 3)

		rows, err := svc.GetPriceHistory(stock.ID)
		testutil.AssertNoError(t, err)
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if !time.Time(rows[0].Date).After(time.Time(rows[2].Date)) {
			t.Error("expected rows ordered newest first")
		}

		_, err = svc.GetPriceHistory(9999)
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})

	t.Run("unique_stock_date", func(t *testing.T) {
		svc, done := newTestStockService(t, &fakeGateway{})
		defer done()

		stock := testutil.CreateTestStock(t, svc.db)
		rows := testutil.CreateTestHistory(t, svc.db, stock.ID, fixedNow, 1)

		dup := rows[0]
		dup.ID = 0
		err := svc.db.Create(&dup).Error
		if err == nil {
			t.Fatal("expected duplicate (stock, date) insert to fail")
		}
		if !isDuplicate(err) {
			t.Errorf("expected a duplicate-key error, got %v", err)
		}
	})
}
