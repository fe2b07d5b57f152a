package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	yahooBaseURL = "https://query1.finance.yahoo.com"
	yahooUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	yahooChartPath   = "/v8/finance/chart/{symbol}"
	yahooSummaryPath = "/v10/finance/quoteSummary/{symbol}"
)

// yahooChartResponse is the v8 chart endpoint payload.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooAPIError     `json:"error"`
	} `json:"chart"`
}

type yahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta       yahooChartMeta `json:"meta"`
	Timestamp  []int64        `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yahooChartMeta struct {
	Symbol               string   `json:"symbol"`
	Currency             string   `json:"currency"`
	ShortName            string   `json:"shortName"`
	LongName             string   `json:"longName"`
	GMTOffset            int64    `json:"gmtoffset"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *float64 `json:"regularMarketVolume"`
	FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
}

// yahooSummaryResponse is the subset of the v10 quoteSummary payload used to
// enrich a profile.
type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string     `json:"longName"`
				MarketCap yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    yahooValue `json:"trailingPE"`
				AverageVolume yahooValue `json:"averageVolume"`
				DividendYield yahooValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *yahooAPIError `json:"error"`
	} `json:"quoteSummary"`
}

// yahooValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

// YahooGateway talks to the public Yahoo Finance chart and quoteSummary APIs.
type YahooGateway struct {
	client *resty.Client
}

// NewYahooGateway creates a Yahoo Finance gateway on top of httpClient.
func NewYahooGateway(httpClient *http.Client) *YahooGateway {
	client := resty.NewWithClient(httpClient).
		SetBaseURL(yahooBaseURL).
		SetHeader("User-Agent", yahooUA).
		SetHeader("Accept", "application/json")
	return &YahooGateway{client: client}
}

// SetBaseURL points the gateway at a different host. Used by tests.
func (g *YahooGateway) SetBaseURL(url string) {
	g.client.SetBaseURL(url)
}

// Name returns the provider's display name.
func (g *YahooGateway) Name() string { return "Yahoo Finance" }

// Profile returns the chart metadata for symbol, enriched with quoteSummary
// fields when that endpoint answers.
func (g *YahooGateway) Profile(ctx context.Context, symbol string) (*Quote, error) {
	result, err := g.chart(ctx, symbol, map[string]string{
		"range":    "1d",
		"interval": "1d",
	})
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	q := &Quote{
		Symbol:    symbol,
		ShortName: meta.ShortName,
		LongName:  meta.LongName,
		Price:     meta.RegularMarketPrice,
		Extended: Extended{
			DayHigh:  meta.RegularMarketDayHigh,
			DayLow:   meta.RegularMarketDayLow,
			Volume:   meta.RegularMarketVolume,
			YearHigh: meta.FiftyTwoWeekHigh,
			YearLow:  meta.FiftyTwoWeekLow,
		},
	}
	if meta.RegularMarketPrice != nil && meta.ChartPreviousClose != nil && *meta.ChartPreviousClose != 0 {
		change := *meta.RegularMarketPrice - *meta.ChartPreviousClose
		pct := change / *meta.ChartPreviousClose * 100
		q.Extended.PriceChange = &change
		q.Extended.PercentChange = &pct
	}

	g.enrich(ctx, q)
	return q, nil
}

// History returns daily bars for symbol between start and end.
func (g *YahooGateway) History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	result, err := g.chart(ctx, symbol, map[string]string{
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.Unix(), 10),
		"interval": "1d",
		"events":   "history",
	})
	if err != nil {
		return nil, err
	}
	return chartBars(result), nil
}

// chart calls the v8 chart endpoint and returns its single result.
func (g *YahooGateway) chart(ctx context.Context, symbol string, params map[string]string) (*yahooChartResult, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(params).
		Get(yahooChartPath)
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: fmt.Errorf("http request: %w", err)}
	}

	var chartResp yahooChartResponse
	decodeErr := json.Unmarshal(resp.Body(), &chartResp)

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: ErrSymbolNotFound}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
	if decodeErr != nil {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: fmt.Errorf("decoding response: %w", decodeErr)}
	}
	if e := chartResp.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: ErrSymbolNotFound}
		}
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: fmt.Errorf("%s: %s", e.Code, e.Description)}
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: ErrSymbolNotFound}
	}
	return &chartResp.Chart.Result[0], nil
}

// enrich fills fields only quoteSummary carries. Failures leave q untouched.
func (g *YahooGateway) enrich(ctx context.Context, q *Quote) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("symbol", q.Symbol).
		SetQueryParam("modules", "price,summaryDetail,assetProfile").
		Get(yahooSummaryPath)
	if err != nil || resp.StatusCode() != http.StatusOK {
		return
	}

	var summary yahooSummaryResponse
	if err := json.Unmarshal(resp.Body(), &summary); err != nil || len(summary.QuoteSummary.Result) == 0 {
		return
	}
	r := summary.QuoteSummary.Result[0]

	if q.LongName == "" {
		q.LongName = r.Price.LongName
	}
	q.Extended.MarketCap = r.Price.MarketCap.Raw
	q.Extended.PERatio = r.SummaryDetail.TrailingPE.Raw
	q.Extended.AvgVolume = r.SummaryDetail.AverageVolume.Raw
	q.Extended.DividendYield = r.SummaryDetail.DividendYield.Raw
	if r.AssetProfile.Sector != "" {
		q.Extended.Sector = &r.AssetProfile.Sector
	}
	if r.AssetProfile.Industry != "" {
		q.Extended.Industry = &r.AssetProfile.Industry
	}
}

// chartBars converts the parallel timestamp/indicator arrays into bars,
// skipping any day with a missing value.
func chartBars(result *yahooChartResult) []Bar {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	ind := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(ind.Open) || i >= len(ind.High) || i >= len(ind.Low) || i >= len(ind.Close) || i >= len(ind.Volume) {
			break
		}
		if ind.Open[i] == nil || ind.High[i] == nil || ind.Low[i] == nil || ind.Close[i] == nil || ind.Volume[i] == nil {
			continue
		}
		bars = append(bars, Bar{
			Date:   tradingDay(time.Unix(ts+result.Meta.GMTOffset, 0).UTC()),
			Open:   roundPrice(*ind.Open[i]),
			High:   roundPrice(*ind.High[i]),
			Low:    roundPrice(*ind.Low[i]),
			Close:  roundPrice(*ind.Close[i]),
			Volume: *ind.Volume[i],
		})
	}
	return bars
}
