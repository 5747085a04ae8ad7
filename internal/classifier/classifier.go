// Package classifier turns free-text trading alerts into structured
// signal fields with deterministic keyword heuristics. It performs no I/O
// and never fails: every field falls back to a default.
package classifier

import (
	"regexp"
	"strings"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// Classification holds the fields derived from one alert message.
type Classification struct {
	SignalType models.SignalType
	Direction  models.Direction
	Timeframe  models.Timeframe
	Ticker     string
}

// signalTypeRules are evaluated in order; the first match wins.
// "full send" must beat "confluence" when both appear.
var signalTypeRules = []struct {
	keywords []string
	typ      models.SignalType
}{
	{[]string{"full send", "🚀"}, models.SignalTypeFullSend},
	{[]string{"confluence"}, models.SignalTypeConfluence},
	{[]string{"manipulation", "🐋"}, models.SignalTypeManipulation},
	{[]string{"divergence"}, models.SignalTypeDivergence},
	{[]string{"flip"}, models.SignalTypeFlip},
}

// timeframeRules are evaluated in order; the first match wins.
// "15m" must be checked before "5m", which is a substring of it.
var timeframeRules = []struct {
	keywords []string
	tf       models.Timeframe
}{
	{[]string{"15m"}, models.Timeframe15m},
	{[]string{"5m", "scalp"}, models.Timeframe5m},
	{[]string{"1h", "intraday"}, models.Timeframe1H},
	{[]string{"4h", "swing"}, models.Timeframe4H},
	{[]string{"1d", "daily"}, models.Timeframe1D},
}

var bullishKeywords = []string{"bullish", "long", "🟢", "📈"}
var bearishKeywords = []string{"bearish", "short", "🔴", "📉"}

// tickerPatterns match whitelisted symbols on word boundaries,
// case-insensitively, checked in whitelist order against the
// original-case message.
var tickerPatterns = compileTickerPatterns()

func compileTickerPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(models.Tickers))
	for i, symbol := range models.Tickers {
		patterns[i] = regexp.MustCompile(`(?i)\b` + symbol + `\b`)
	}
	return patterns
}

// Classify maps a raw alert message to structured signal fields.
// Each field is evaluated independently against the lower-cased message,
// except the ticker which matches the original-case text.
func Classify(raw string) Classification {
	lower := strings.ToLower(raw)

	return Classification{
		SignalType: classifySignalType(lower),
		Direction:  classifyDirection(lower),
		Timeframe:  classifyTimeframe(lower),
		Ticker:     classifyTicker(raw),
	}
}

func classifyDirection(lower string) models.Direction {
	if containsAny(lower, bullishKeywords) {
		return models.DirectionBullish
	}
	if containsAny(lower, bearishKeywords) {
		return models.DirectionBearish
	}
	return models.DirectionNeutral
}

func classifySignalType(lower string) models.SignalType {
	for _, rule := range signalTypeRules {
		if containsAny(lower, rule.keywords) {
			return rule.typ
		}
	}
	return models.SignalTypeSignal
}

func classifyTimeframe(lower string) models.Timeframe {
	for _, rule := range timeframeRules {
		if containsAny(lower, rule.keywords) {
			return rule.tf
		}
	}
	return models.TimeframeUnknown
}

func classifyTicker(raw string) string {
	for i, pattern := range tickerPatterns {
		if pattern.MatchString(raw) {
			return models.Tickers[i]
		}
	}
	return models.DefaultTicker
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
