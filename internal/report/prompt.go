package report

import (
	"fmt"
	"strings"

	"github.com/mdxcapital/capitalflow/internal/market"
)

// buildPrompt assembles the analyst instructions for the vision model.
// The output format is fixed HTML so the message renders correctly in
// Telegram.
func buildPrompt(date string, fg *market.FearGreed) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert crypto trading analyst. Analyze this BTC/USDT 4H chart with the MDX Capital Flow indicator.

TODAY'S DATE IS: %s

CRITICAL INSTRUCTIONS:
1. The GREEN price label on the RIGHT AXIS shows current price
2. Open level labels on chart: "DO" = Daily Open, "WO" = Weekly Open, "MO" = Monthly Open, "Q1" = Quarterly Open, "YO" = Yearly Open
3. Price BELOW a level line = LOST that level (bearish); price ABOVE = HOLDING it (bullish)
4. GREEN horizontal zones = Support, RED horizontal zones = Resistance
5. DO NOT make up prices - only report what you can actually see on the chart

Read the CAPITAL FLOW PANEL (top right) for the MACRO, CRYPTO and SECTORS values and the overall signal (BULLISH/BEARISH/NEUTRAL/LEAN BULL/LEAN BEAR) with percentage.

Generate a concise daily market report in this EXACT format:

📊 <b>MDX CAPITAL FLOW — DAILY BTC REPORT</b>
📅 %s

<b>🎯 SIGNAL:</b> [signal from panel + percentage]

<b>💰 PRICE:</b> $XX,XXX (read actual price from chart)

<b>🌍 MACRO:</b>
• DXY: [exact %%] — [interpretation]
• VIX: [exact %%] — [interpretation]
• GOLD: [exact %%] — [interpretation]
• YIELDS: [exact %%] — [interpretation]

<b>₿ CRYPTO LEADERS:</b>
• BTC Flow: [exact %%]
• ETH Flow: [exact %%]

<b>📈 SECTORS:</b>
• BTC.D: [exact %%] — [majors vs alts interpretation]
• TOTAL3: [exact %%]
`, date, date)

	if fg != nil {
		sentiment := "GREED"
		if fg.IsFear {
			sentiment = "FEAR"
		}
		if fg.IsExtreme {
			sentiment = "EXTREME " + sentiment
		}
		fmt.Fprintf(&b, `
<b>😨 FEAR & GREED:</b> %d — %s %s
• Signal Alignment: [✅ Confirms / ⚠️ Diverges] Capital Flow — [brief interpretation]

F&G INTERPRETATION (index currently reads %s):
- BULLISH flow + FEAR = strong contrarian confirmation
- BULLISH flow + GREED = caution, crowded trade
- BEARISH flow + GREED = strong distribution confirmation
- BEARISH flow + FEAR = caution, possible capitulation bottom
`, fg.Value, fg.Classification, fg.Emoji, sentiment)
	}

	b.WriteString(`
<b>📝 ANALYSIS:</b>
[2-3 sentences on what the Capital Flow data suggests for the next 24-48 hours. Be specific about potential scenarios.]

<b>⚠️ KEY LEVELS:</b>
• Resistance: $XX,XXX (from RED zones)
• Support: $XX,XXX (from GREEN zones)

<b>📍 OPEN LEVELS:</b>
• Daily: $XX,XXX — [✅ Holding / ❌ Lost] — [context]
• Weekly: $XX,XXX — [✅ Holding / ❌ Lost] — [context]
• Monthly: $XX,XXX — [✅ Holding / ❌ Lost] — [context]

Write "Not visible" for any open level not on the chart.

<i>Not financial advice. Trade at your own risk.</i>
#BTC #CapitalFlow #MDX`)

	return b.String()
}
