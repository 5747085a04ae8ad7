package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdxcapital/capitalflow/internal/models"
)

func TestClassify_Direction(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected models.Direction
	}{
		{"bullish keyword", "BTC looking bullish here", models.DirectionBullish},
		{"long keyword", "entered a long on ETH", models.DirectionBullish},
		{"green circle emoji", "🟢 breakout confirmed", models.DirectionBullish},
		{"chart up emoji", "📈 momentum building", models.DirectionBullish},
		{"bearish keyword", "turning bearish on the 4H", models.DirectionBearish},
		{"short keyword", "short setup forming", models.DirectionBearish},
		{"red circle emoji", "🔴 rejection at resistance", models.DirectionBearish},
		{"chart down emoji", "📉 losing support", models.DirectionBearish},
		{"uppercase keyword", "BULLISH ENGULFING", models.DirectionBullish},
		{"no keyword", "consolidating in range", models.DirectionNeutral},
		{"bullish beats bearish", "bullish flip of bearish structure", models.DirectionBullish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.message).Direction)
		})
	}
}

func TestClassify_SignalType(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected models.SignalType
	}{
		{"full send phrase", "full send into resistance", models.SignalTypeFullSend},
		{"rocket emoji", "🚀 here we go", models.SignalTypeFullSend},
		{"confluence", "triple confluence zone", models.SignalTypeConfluence},
		{"manipulation", "classic manipulation wick", models.SignalTypeManipulation},
		{"whale emoji", "🐋 absorbing sells", models.SignalTypeManipulation},
		{"divergence", "hidden divergence on RSI", models.SignalTypeDivergence},
		{"flip", "support flip retest", models.SignalTypeFlip},
		{"default", "price update", models.SignalTypeSignal},
		{"full send beats confluence", "full send at the confluence zone", models.SignalTypeFullSend},
		{"confluence beats flip", "confluence with a flip", models.SignalTypeConfluence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.message).SignalType)
		})
	}
}

// signalType must always land on one of the six enumerated values, no
// matter the input.
func TestClassify_SignalTypeEnumTotal(t *testing.T) {
	valid := map[models.SignalType]bool{
		models.SignalTypeSignal:       true,
		models.SignalTypeFullSend:     true,
		models.SignalTypeConfluence:   true,
		models.SignalTypeManipulation: true,
		models.SignalTypeDivergence:   true,
		models.SignalTypeFlip:         true,
	}

	messages := []string{
		"", "   ", "{}", "random text", "🚀🐋📈📉", "FULL SEND full send",
		"divergence manipulation confluence flip",
	}
	for _, msg := range messages {
		c := Classify(msg)
		assert.True(t, valid[c.SignalType], "message %q produced %q", msg, c.SignalType)
	}
}

func TestClassify_Timeframe(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected models.Timeframe
	}{
		{"5m", "5m chart says go", models.Timeframe5m},
		{"scalp", "quick scalp setup", models.Timeframe5m},
		{"15m", "watching the 15m close", models.Timeframe15m},
		{"1h", "1h trend intact", models.Timeframe1H},
		{"intraday", "intraday levels hold", models.Timeframe1H},
		{"4h", "4H structure bullish", models.Timeframe4H},
		{"swing", "swing entry zone", models.Timeframe4H},
		{"1d", "1D close above", models.Timeframe1D},
		{"daily", "daily candle looks strong", models.Timeframe1D},
		{"unknown", "no timeframe mentioned", models.TimeframeUnknown},
		{"15m not swallowed by 5m", "15m breakout forming", models.Timeframe15m},
		{"15m beats scalp", "scalp inside the 15m range", models.Timeframe15m},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.message).Timeframe)
		})
	}
}

func TestClassify_Ticker(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"plain symbol", "ETH breaking out", "ETH"},
		{"lowercase symbol", "watch sol here", "SOL"},
		{"symbol inside pair", "DOGE pump incoming", "DOGE"},
		{"no whitelisted ticker defaults to BTC", "market looking heavy", "BTC"},
		{"substring does not match", "ethereal vibes only", "BTC"},
		{"whitelist order wins", "ETH vs SOL battle", "ETH"},
		{"word boundary with punctuation", "entry: LINK, target up 5%", "LINK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.message).Ticker)
		})
	}
}

func TestClassify_FullAlert(t *testing.T) {
	c := Classify("🚀 BTC 4H full send bullish breakout")

	assert.Equal(t, models.SignalTypeFullSend, c.SignalType)
	assert.Equal(t, models.DirectionBullish, c.Direction)
	assert.Equal(t, models.Timeframe4H, c.Timeframe)
	assert.Equal(t, "BTC", c.Ticker)
}
