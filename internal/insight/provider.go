// Package insight produces the generated text shown next to the catalog and
// on the dashboard: product descriptions and a short sales trend summary.
// Every call returns displayable text; failures degrade to fixed messages.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/itsneelabh/gomind/core"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"tacklepos/internal/domain"
	"tacklepos/internal/log"
)

const (
	FallbackUnavailable = "AI feature unavailable (check API key)."
	FallbackDescription = "Description could not be generated."
	FallbackAnalysis    = "Market analysis is currently unavailable."
	FallbackNoData      = "No transaction data yet."
	FallbackNoAdvice    = "No recommendation at the moment."

	// TrendWindow is how many of the latest transactions feed the summary.
	TrendWindow = 5
)

type Provider struct {
	client  core.AIClient
	cache   Cache
	model   string
	timeout time.Duration
	group   singleflight.Group
}

type Option func(*Provider)

func WithCache(c Cache) Option {
	return func(p *Provider) {
		if c != nil {
			p.cache = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithModel(m string) Option { return func(p *Provider) { p.model = m } }

// NewProvider accepts a nil client; every call then returns its fallback.
func NewProvider(client core.AIClient, opts ...Option) *Provider {
	p := &Provider{client: client, cache: nopCache{}, timeout: 15 * time.Second}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Available() bool { return p != nil && p.client != nil }

// DescribeProduct writes a short sales blurb for a product.
func (p *Provider) DescribeProduct(ctx context.Context, name, category string) string {
	if !p.Available() {
		return FallbackUnavailable
	}
	key := describeKey(name, category)
	if text, ok := p.cache.Get(ctx, key); ok {
		return text
	}

	v, _, _ := p.group.Do(key, func() (any, error) {
		prompt := fmt.Sprintf(
			"Write one short, persuasive product description (max 3 sentences) for a fishing tackle shop.\nProduct: %s\nCategory: %s",
			name, category)
		text, err := p.generate(ctx, "describe", prompt)
		if err != nil {
			return FallbackUnavailable, nil
		}
		if text == "" {
			return FallbackDescription, nil
		}
		if err := p.cache.Set(ctx, key, text); err != nil {
			log.Warn(nil, "insight_cache_set", map[string]any{"err": err.Error()})
		}
		return text, nil
	})
	return v.(string)
}

type trendPoint struct {
	Total int64  `json:"total"`
	Date  string `json:"date"`
}

// SummarizeTrend analyses the last TrendWindow transactions of recent.
func (p *Provider) SummarizeTrend(ctx context.Context, recent []domain.Transaction) string {
	if len(recent) == 0 {
		return FallbackNoData
	}
	if !p.Available() {
		return FallbackAnalysis
	}
	if len(recent) > TrendWindow {
		recent = recent[len(recent)-TrendWindow:]
	}
	points := make([]trendPoint, 0, len(recent))
	for _, t := range recent {
		points = append(points, trendPoint{Total: t.Total, Date: t.Date})
	}
	data, err := json.Marshal(points)
	if err != nil {
		return FallbackAnalysis
	}
	prompt := "Here are the latest sales of a fishing tackle shop as JSON: " + string(data) +
		"\nGive one short sentence about the sales trend and one concrete restocking recommendation."
	text, err := p.generate(ctx, "trend", prompt)
	if err != nil {
		return FallbackAnalysis
	}
	if text == "" {
		return FallbackNoAdvice
	}
	return text
}

func (p *Provider) generate(ctx context.Context, kind, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("insight provider panic: %v", r)
			log.Warn(nil, "insight_"+kind, map[string]any{"err": err.Error()})
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.GenerateResponse(ctx, prompt, &core.AIOptions{
		Model:       p.model,
		Temperature: 0.7,
		MaxTokens:   256,
	})
	if err != nil {
		log.Warn(nil, "insight_"+kind, map[string]any{"err": err.Error(), "ms": time.Since(start).Milliseconds()})
		return "", errors.Wrap(err, "generate "+kind)
	}
	if resp == nil {
		return "", nil
	}
	log.Info(nil, "insight_"+kind, map[string]any{"ms": time.Since(start).Milliseconds(), "tokens": resp.Usage.TotalTokens})
	return strings.TrimSpace(resp.Content), nil
}
