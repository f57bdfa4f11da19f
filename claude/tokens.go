package claude

// Context accounting for Claude models. All current models share a 200k
// token window.
const (
	ContextWindow        = 200_000
	DefaultReserveTokens = 20_000

	// charsPerToken is the rough estimation ratio; accurate counts
	// require the API.
	charsPerToken = 4

	// imageTokens is the average cost of one attached image.
	imageTokens = 1600
)

// Pricing is the cost per million tokens for one model.
type Pricing struct {
	InputPerMTok     float64
	OutputPerMTok    float64
	CacheReadPerMTok float64
}

// pricingTable holds USD prices per million tokens, October 2025.
var pricingTable = map[string]Pricing{
	"claude-sonnet-4-5-20250929": {InputPerMTok: 3.0, OutputPerMTok: 15.0, CacheReadPerMTok: 0.3},
	"claude-opus-4":              {InputPerMTok: 15.0, OutputPerMTok: 75.0, CacheReadPerMTok: 1.5},
	"claude-haiku-4-5":           {InputPerMTok: 1.0, OutputPerMTok: 5.0, CacheReadPerMTok: 0.1},
}

// PricingFor returns the pricing for a model. Unknown models fall back
// to sonnet pricing with ok=false.
func PricingFor(model string) (Pricing, bool) {
	if p, ok := pricingTable[model]; ok {
		return p, true
	}
	return pricingTable[DefaultModel], false
}

// Cost returns the total USD cost for the usage at this pricing.
func (p Pricing) Cost(u Usage) float64 {
	input := float64(u.InputTokens) / 1_000_000 * p.InputPerMTok
	output := float64(u.OutputTokens) / 1_000_000 * p.OutputPerMTok
	cacheRead := float64(u.CacheReadTokens) / 1_000_000 * p.CacheReadPerMTok
	return input + output + cacheRead
}

// CacheSavings returns the USD saved by cache reads versus full-price
// input tokens.
func (p Pricing) CacheSavings(u Usage) float64 {
	return float64(u.CacheReadTokens) / 1_000_000 * (p.InputPerMTok - p.CacheReadPerMTok)
}

// EstimateTokens estimates the token count of text at ~4 characters per
// token.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// EstimateMessageTokens estimates the token count of a message list,
// charging a flat rate per attached image.
func EstimateMessageTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m.Content)
		total += len(m.Images) * imageTokens
	}
	return total
}
