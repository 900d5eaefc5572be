// Package rates fetches currency rates from an external HTTP provider.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"novabank/internal/core/domain"
)

const (
	fetchTimeout    = 10 * time.Second
	maxResponseSize = 1 << 20 // 1 MiB
)

// HTTPSource pulls a USD-based rate table from an exchange-rate API.
// The provider response is expected to carry a "rates" object mapping
// currency codes to units per 1 USD.
type HTTPSource struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPSource creates a rate source for the given provider URL.
func NewHTTPSource(url string, log zerolog.Logger) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
		log:    log.With().Str("component", "rate_source").Logger(),
	}
}

type providerResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Fetch retrieves the current rate table. Only currencies the ledger
// understands are kept; everything else in the provider payload is ignored.
func (s *HTTPSource) Fetch(ctx context.Context) (domain.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading rate response: %w", err)
	}

	var payload providerResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding rate response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rate response carries no rates")
	}

	table := domain.RateTable{}
	for code, value := range payload.Rates {
		cur, err := domain.ParseCurrency(code)
		if err != nil {
			continue
		}
		table[cur] = decimal.NewFromFloat(value)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("rate response carries no supported currencies")
	}

	s.log.Debug().Int("currencies", len(table)).Msg("fetched rate table")
	return table, nil
}
