package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"novabank/internal/core/domain"
	"novabank/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateServiceImpl implements ports.RateService. It holds the latest table
// behind a read lock and refreshes it from a RateSource in the background.
// A failed refresh keeps the previous table; until the first success the
// fallback table is served.
type RateServiceImpl struct {
	mu     sync.RWMutex
	table  domain.RateTable
	source ports.RateSource
	log    zerolog.Logger
}

// NewRateService creates a RateServiceImpl seeded with the fallback table.
func NewRateService(source ports.RateSource, log zerolog.Logger) *RateServiceImpl {
	return &RateServiceImpl{
		table:  domain.FallbackRates(),
		source: source,
		log:    log,
	}
}

// Current implements ports.RateService.
func (s *RateServiceImpl) Current() domain.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Refresh implements ports.RateService. The fetched table is normalised:
// non-positive entries are dropped and USDT is pegged at 1.
func (s *RateServiceImpl) Refresh(ctx context.Context) error {
	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("rate refresh failed, keeping previous table")
		return fmt.Errorf("fetching rates: %w", err)
	}

	table := make(domain.RateTable, len(fetched))
	for cur, rate := range fetched {
		if rate.IsPositive() {
			table[cur] = rate
		}
	}
	table[domain.CurrencyUSDT] = decimal.NewFromInt(1)

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	s.log.Debug().Int("currencies", len(table)).Msg("rate table refreshed")
	return nil
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (s *RateServiceImpl) Run(ctx context.Context, interval time.Duration) {
	_ = s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}
