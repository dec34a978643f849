package openai

import (
	"sync"

	"github.com/jg-phare/loom/pkg/genai"
	"github.com/jg-phare/loom/pkg/types"
)

// ModelPricing holds per-model token costs in USD per million tokens.
type ModelPricing struct {
	InputPerMTok       float64
	OutputPerMTok      float64
	CachedInputPerMTok float64
}

var (
	pricingMu      sync.RWMutex
	defaultPricing = map[string]ModelPricing{
		"gpt-4.1":          {InputPerMTok: 2.00, OutputPerMTok: 8.00, CachedInputPerMTok: 0.50},
		"gpt-4.1-mini":     {InputPerMTok: 0.40, OutputPerMTok: 1.60, CachedInputPerMTok: 0.10},
		"gpt-4o":           {InputPerMTok: 2.50, OutputPerMTok: 10.00, CachedInputPerMTok: 1.25},
		"qwen3-coder-plus": {InputPerMTok: 1.00, OutputPerMTok: 5.00, CachedInputPerMTok: 0.10},
	}
)

// GetPricing returns the pricing for a model and whether it was found.
func GetPricing(model string) (ModelPricing, bool) {
	pricingMu.RLock()
	defer pricingMu.RUnlock()
	p, ok := defaultPricing[model]
	return p, ok
}

// SetPricing overrides the pricing for a model. Safe for concurrent use.
func SetPricing(model string, p ModelPricing) {
	pricingMu.Lock()
	defer pricingMu.Unlock()
	defaultPricing[model] = p
}

// CalculateCost computes the USD cost of one response. Unknown models cost
// zero rather than failing.
func CalculateCost(model string, usage genai.Usage) float64 {
	pricing, ok := GetPricing(model)
	if !ok {
		return 0
	}
	fresh := usage.InputTokens - usage.CachedInputTokens
	if fresh < 0 {
		fresh = 0
	}
	return float64(fresh)*pricing.InputPerMTok/1e6 +
		float64(usage.CachedInputTokens)*pricing.CachedInputPerMTok/1e6 +
		float64(usage.OutputTokens)*pricing.OutputPerMTok/1e6
}

// CostTracker accumulates per-model usage and cost across requests.
// Safe for concurrent use.
type CostTracker struct {
	mu       sync.Mutex
	perModel map[string]types.ModelUsage
}

// NewCostTracker creates an empty tracker.
func NewCostTracker() *CostTracker {
	return &CostTracker{perModel: make(map[string]types.ModelUsage)}
}

// Record adds one response's usage to the model's running totals.
func (t *CostTracker) Record(model string, usage genai.Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mu := t.perModel[model]
	mu.InputTokens += usage.InputTokens
	mu.OutputTokens += usage.OutputTokens
	mu.CachedInputTokens += usage.CachedInputTokens
	mu.TotalTokens += usage.TotalTokens
	mu.CostUSD += CalculateCost(model, usage)
	t.perModel[model] = mu
}

// Snapshot returns a copy of the per-model usage table.
func (t *CostTracker) Snapshot() map[string]types.ModelUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]types.ModelUsage, len(t.perModel))
	for k, v := range t.perModel {
		out[k] = v
	}
	return out
}
