package marketdata

import (
	"context"
	"net/http"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
)

// FinanceGoGateway reads Yahoo data through the piquette/finance-go client.
// The library does not take a context, so cancellation only applies between
// calls.
type FinanceGoGateway struct{}

// NewFinanceGoGateway configures the finance-go backend to use httpClient.
func NewFinanceGoGateway(httpClient *http.Client) *FinanceGoGateway {
	finance.SetHTTPClient(httpClient)
	return &FinanceGoGateway{}
}

// Name returns the provider's display name.
func (g *FinanceGoGateway) Name() string { return "finance-go" }

// Profile looks up the quote and, best-effort, the equity fundamentals.
func (g *FinanceGoGateway) Profile(ctx context.Context, symbol string) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fq, err := quote.Get(symbol)
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: err}
	}
	if fq == nil {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: ErrSymbolNotFound}
	}

	q := quoteFromFinance(symbol, fq)
	if eq, err := equity.Get(symbol); err == nil && eq != nil {
		applyEquity(q, eq)
	}
	return q, nil
}

// History iterates the finance-go chart for symbol.
func (g *FinanceGoGateway) History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []Bar
	for iter.Next() {
		bars = append(bars, barFromFinance(iter.Bar()))
	}
	if err := iter.Err(); err != nil {
		return nil, &ProviderError{Provider: g.Name(), Symbol: symbol, Err: err}
	}
	return bars, nil
}

func quoteFromFinance(symbol string, fq *finance.Quote) *Quote {
	price := fq.RegularMarketPrice
	change := fq.RegularMarketChange
	pct := fq.RegularMarketChangePercent
	dayHigh := fq.RegularMarketDayHigh
	dayLow := fq.RegularMarketDayLow
	volume := float64(fq.RegularMarketVolume)
	avgVolume := float64(fq.AverageDailyVolume3Month)
	yearHigh := fq.FiftyTwoWeekHigh
	yearLow := fq.FiftyTwoWeekLow

	return &Quote{
		Symbol:    symbol,
		ShortName: fq.ShortName,
		Price:     &price,
		Extended: Extended{
			DayHigh:       &dayHigh,
			DayLow:        &dayLow,
			Volume:        &volume,
			AvgVolume:     &avgVolume,
			YearHigh:      &yearHigh,
			YearLow:       &yearLow,
			PriceChange:   &change,
			PercentChange: &pct,
		},
	}
}

func applyEquity(q *Quote, eq *finance.Equity) {
	if q.LongName == "" {
		q.LongName = eq.LongName
	}
	if eq.MarketCap != 0 {
		mc := float64(eq.MarketCap)
		q.Extended.MarketCap = &mc
	}
	if eq.TrailingPE != 0 {
		pe := eq.TrailingPE
		q.Extended.PERatio = &pe
	}
	if eq.TrailingAnnualDividendYield != 0 {
		dy := eq.TrailingAnnualDividendYield
		q.Extended.DividendYield = &dy
	}
}

func barFromFinance(b *finance.ChartBar) Bar {
	return Bar{
		Date:   tradingDay(time.Unix(int64(b.Timestamp), 0).UTC()),
		Open:   b.Open.Round(2),
		High:   b.High.Round(2),
		Low:    b.Low.Round(2),
		Close:  b.Close.Round(2),
		Volume: int64(b.Volume),
	}
}
