// Package fmp is a Financial Modeling Prep API client used as the
// financial-data provider.
package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/atlasbio/atlas/internal/domain"
)

// ErrNotFound is returned when the provider has no data for a ticker.
var ErrNotFound = errors.New("company not found")

// ErrInvalidTicker is returned when a ticker fails validation.
var ErrInvalidTicker = errors.New("invalid ticker")

// ErrShortQuery is returned when a search query is under two characters.
var ErrShortQuery = errors.New("query must be at least 2 characters")

var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]*$`)

// ValidTicker reports whether a ticker symbol is acceptable to the provider.
func ValidTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}

// Client is a Financial Modeling Prep API client
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Financial Modeling Prep client
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "fmp").Logger(),
	}
}

// GetProfile fetches a company's financial profile: company profile, latest
// income statement, latest balance sheet, and a five-year CAGR derived from
// historical closes. Statement requests are issued one at a time to keep
// the outbound request rate bounded.
func (c *Client) GetProfile(ctx context.Context, ticker string) (*domain.FinancialProfile, error) {
	if !ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}

	profiles, err := c.getList(ctx, "/profile", url.Values{"symbol": {ticker}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	profile := profiles[0]

	incomes, err := c.getList(ctx, "/income-statement", url.Values{"symbol": {ticker}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income statement: %w", err)
	}
	balances, err := c.getList(ctx, "/balance-sheet-statement", url.Values{"symbol": {ticker}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance sheet: %w", err)
	}

	var income, balance map[string]interface{}
	if len(incomes) > 0 {
		income = incomes[0]
	}
	if len(balances) > 0 {
		balance = balances[0]
	}

	marketCap := getFloat64(profile, "marketCap")
	totalDebt := getFloat64(balance, "totalDebt")
	cash := getFloat64(balance, "cashAndCashEquivalents")
	price := getFloat64(profile, "price")
	eps := getFloat64(income, "eps")

	peRatio := 0.0
	if eps > 0 {
		peRatio = price / eps
	}

	result := &domain.FinancialProfile{
		CompanyName: getString(profile, "companyName"),
		Sector:      getString(profile, "sector"),
		Industry:    getString(profile, "industry"),
		Employees:   getInt(profile, "fullTimeEmployees"),

		Price:         price,
		MarketCap:     marketCap,
		Beta:          getFloat64(profile, "beta"),
		Volume:        int64(getFloat64(profile, "volume")),
		AverageVolume: int64(getFloat64(profile, "averageVolume")),

		Revenue:    getFloat64(income, "revenue"),
		NetIncome:  getFloat64(income, "netIncome"),
		EPS:        eps,
		EPSDiluted: getFloat64(income, "epsDiluted"),
		PERatio:    peRatio,

		TotalDebt:       totalDebt,
		Cash:            cash,
		EnterpriseValue: marketCap + totalDebt - cash,

		RDExpense:       getFloat64(income, "researchAndDevelopmentExpenses"),
		GrossProfit:     getFloat64(income, "grossProfit"),
		OperatingIncome: getFloat64(income, "operatingIncome"),
		EBITDA:          getFloat64(income, "ebitda"),
		EBIT:            getFloat64(income, "ebit"),
	}

	// Year-over-year growth against the prior statement, when present
	if len(incomes) > 1 {
		prev := incomes[1]
		if prevRevenue := getFloat64(prev, "revenue"); prevRevenue > 0 {
			growth := (result.Revenue - prevRevenue) / prevRevenue * 100
			result.RevenueGrowth = &growth
		}
		if prevNetIncome := getFloat64(prev, "netIncome"); prevNetIncome > 0 {
			growth := (result.NetIncome - prevNetIncome) / prevNetIncome * 100
			result.NetIncomeGrowth = &growth
		}
	}

	cagr, err := c.getCAGR(ctx, ticker, price)
	if err != nil {
		// CAGR is a derived nicety; a failed history fetch should not sink
		// the whole profile
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to compute CAGR")
	} else {
		result.CAGR = cagr
	}

	c.log.Info().
		Str("ticker", ticker).
		Float64("market_cap", result.MarketCap).
		Msg("Fetched financial profile")

	return result, nil
}

// Search performs a free-text company search. Queries shorter than two
// characters are rejected before any request is made.
func (c *Client) Search(ctx context.Context, query string) ([]domain.CompanySearchResult, error) {
	if len(query) < 2 {
		return nil, ErrShortQuery
	}

	body, err := c.get(ctx, "/search-symbol", url.Values{"query": {query}})
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}

	var results []domain.CompanySearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return results, nil
}

// getCAGR computes a five-year compound annual growth rate from historical
// daily closes, anchored to the current price.
func (c *Client) getCAGR(ctx context.Context, ticker string, currentPrice float64) (float64, error) {
	body, err := c.get(ctx, "/historical-price-full/"+url.PathEscape(ticker), nil)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Historical []struct {
			Date  string  `json:"date"`
			Close float64 `json:"close"`
		} `json:"historical"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("failed to parse historical prices: %w", err)
	}

	if len(payload.Historical) < 2 || currentPrice <= 0 {
		return 0, nil
	}

	fiveYearsAgo := time.Now().AddDate(-5, 0, 0)

	// Entries arrive newest first; find the first close at or before the
	// five-year mark
	for _, h := range payload.Historical {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		if !date.After(fiveYearsAgo) && h.Close > 0 {
			return math.Pow(currentPrice/h.Close, 1.0/5) - 1, nil
		}
	}

	return 0, nil
}

// getList fetches an endpoint returning a JSON array of objects.
func (c *Client) getList(ctx context.Context, endpoint string, params url.Values) ([]map[string]interface{}, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return list, nil
}

// get performs a GET request against the provider, appending the API key.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) float64 {
	if m == nil {
		return 0
	}
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0
}

func getInt(m map[string]interface{}, key string) int {
	return int(getFloat64(m, key))
}

func getString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}
