package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// countryFlags maps calendar currencies to their display flags.
var countryFlags = map[string]string{
	"USD": "🇺🇸",
	"EUR": "🇪🇺",
	"GBP": "🇬🇧",
	"JPY": "🇯🇵",
	"CNY": "🇨🇳",
	"AUD": "🇦🇺",
	"CAD": "🇨🇦",
	"CHF": "🇨🇭",
}

// displayLocation is the timezone used for digest timestamps. Falls
// back to UTC when tzdata is unavailable.
var displayLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Digest is a rendered daily alert plus the events behind it.
type Digest struct {
	Message   string
	Events    []Event
	TimeSlots int
	HasVIP    bool
}

// TodayEvents filters events down to those still upcoming today, in
// the display timezone.
func TodayEvents(events []Event, now time.Time) []Event {
	local := now.In(displayLocation)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, displayLocation)

	var today []Event
	for _, e := range events {
		ts := time.Unix(e.Timestamp, 0)
		if !ts.Before(now) && !ts.After(dayEnd) {
			today = append(today, e)
		}
	}
	return today
}

// BuildDigest renders the HTML Telegram message for a day's events.
// Events are grouped by their exact start time so simultaneous
// releases share one time header.
func BuildDigest(events []Event) Digest {
	if len(events) == 0 {
		return Digest{}
	}

	hasVIP := false
	groups := make(map[int64][]Event)
	var slots []int64
	for _, e := range events {
		if _, ok := groups[e.Timestamp]; !ok {
			slots = append(slots, e.Timestamp)
		}
		groups[e.Timestamp] = append(groups[e.Timestamp], e)
		if e.IsVIP {
			hasVIP = true
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	var b strings.Builder
	if hasVIP {
		b.WriteString("🚨 <b>MAJOR ECONOMIC EVENTS TODAY</b> 🚨\n\n")
	} else {
		b.WriteString("📅 <b>High-Impact Events Today</b>\n\n")
	}

	for _, slot := range slots {
		local := time.Unix(slot, 0).In(displayLocation)
		b.WriteString(fmt.Sprintf("⏰ <b>%s ET</b>\n", local.Format("3:04 PM")))
		for _, e := range groups[slot] {
			flag := countryFlags[e.Country]
			if flag == "" {
				flag = e.Country
			}
			marker := "•"
			if e.IsVIP {
				marker = "🔥"
			}
			b.WriteString(fmt.Sprintf("%s %s %s", marker, flag, e.Title))
			if e.Forecast != "" {
				b.WriteString(fmt.Sprintf(" (forecast: %s)", e.Forecast))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("⚡ Expect volatility around these times.")

	return Digest{
		Message:   b.String(),
		Events:    events,
		TimeSlots: len(slots),
		HasVIP:    hasVIP,
	}
}
