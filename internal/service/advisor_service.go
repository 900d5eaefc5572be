package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"novabank/internal/core/domain"
	"novabank/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// advisorHistoryLimit caps how many recent transactions go into the prompt.
const advisorHistoryLimit = 10

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AdvisorServiceImpl implements ports.AdvisorService by asking a remote
// generative model to summarise the user's finances. Any upstream problem
// (missing key, network, malformed reply) degrades to canned advice.
type AdvisorServiceImpl struct {
	ledger     ports.LedgerService
	rates      ports.RateService
	endpoint   string
	apiKey     string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewAdvisorService creates a new AdvisorServiceImpl.
func NewAdvisorService(ledger ports.LedgerService, rates ports.RateService, endpoint, apiKey string, httpClient HTTPClient, log zerolog.Logger) *AdvisorServiceImpl {
	return &AdvisorServiceImpl{
		ledger:     ledger,
		rates:      rates,
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        log,
	}
}

type advisorRequest struct {
	Prompt string `json:"prompt"`
}

type advisorResponse struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

// Advise implements ports.AdvisorService.
func (s *AdvisorServiceImpl) Advise(ctx context.Context) (*ports.Advice, error) {
	if s.apiKey == "" {
		s.log.Debug().Msg("advisor: no API key configured, serving fallback advice")
		return fallbackAdviceUnavailable(), nil
	}

	snap := s.ledger.State(ctx)
	prompt := s.buildPrompt(snap)

	body, err := json.Marshal(advisorRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal advisor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Msg("advisor: upstream call failed, serving fallback advice")
		return fallbackAdviceError(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Msg("advisor: upstream returned non-200, serving fallback advice")
		return fallbackAdviceError(), nil
	}

	var parsed advisorResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.Summary == "" {
		s.log.Warn().Err(err).Msg("advisor: malformed upstream reply, serving fallback advice")
		return fallbackAdviceError(), nil
	}

	return &ports.Advice{Summary: parsed.Summary, Tips: parsed.Tips}, nil
}

// buildPrompt renders the RUB-equivalent total balance and the most recent
// operations into the analysis prompt.
func (s *AdvisorServiceImpl) buildPrompt(snap domain.Snapshot) string {
	rates := s.rates.Current()

	total := decimal.Zero
	for _, acc := range snap.Accounts {
		rate, err := rates.Rate(acc.Currency, domain.CurrencyRUB)
		if err != nil {
			continue
		}
		total = total.Add(acc.Balance.Mul(rate))
	}

	history := make([]string, 0, advisorHistoryLimit)
	for i, txn := range snap.Transactions {
		if i >= advisorHistoryLimit {
			break
		}
		sign := "+"
		if txn.Type == domain.TransactionTypeDebit || txn.Type == domain.TransactionTypeExchange {
			sign = "-"
		}
		history = append(history, fmt.Sprintf("%s: %s%s%s", txn.Counterparty, sign, txn.Amount.StringFixed(2), txn.Currency))
	}

	return fmt.Sprintf(
		"Проанализируй финансовую ситуацию пользователя. Текущий баланс (в эквиваленте RUB): %s₽. Последние операции: %s. Предоставь краткое резюме (summary) и 3 конкретных совета (tips) на русском языке.",
		total.StringFixed(2), strings.Join(history, ", "),
	)
}

func fallbackAdviceUnavailable() *ports.Advice {
	return &ports.Advice{
		Summary: "Искусственный интеллект Nova временно недоступен. Настройте API ключ.",
		Tips:    []string{"Планируйте бюджет заранее", "Создайте финансовую подушку", "Диверсифицируйте накопления"},
	}
}

func fallbackAdviceError() *ports.Advice {
	return &ports.Advice{
		Summary: "Не удалось получить анализ от нейросети. Попробуйте позже.",
		Tips:    []string{"Следите за расходами вручную", "Установите лимиты", "Копите на мечту"},
	}
}
