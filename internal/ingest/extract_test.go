package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "plain text",
			body:     "BTC breaking out, 4H bullish",
			expected: "BTC breaking out, 4H bullish",
		},
		{
			name:     "json string",
			body:     `"🚀 full send"`,
			expected: "🚀 full send",
		},
		{
			name:     "message field",
			body:     `{"message":"ETH swing long"}`,
			expected: "ETH swing long",
		},
		{
			name:     "text field",
			body:     `{"text":"SOL scalp short"}`,
			expected: "SOL scalp short",
		},
		{
			name:     "message beats text",
			body:     `{"message":"from message","text":"from text"}`,
			expected: "from message",
		},
		{
			name:     "arbitrary object is serialized",
			body:     `{"ticker":"BTC","price":64000}`,
			expected: "{\n  \"price\": 64000,\n  \"ticker\": \"BTC\"\n}",
		},
		{
			name:     "empty object falls back to raw body",
			body:     `{}`,
			expected: PlaceholderMessage,
		},
		{
			name:     "empty body uses placeholder",
			body:     "",
			expected: PlaceholderMessage,
		},
		{
			name:     "whitespace body uses placeholder",
			body:     "   ",
			expected: PlaceholderMessage,
		},
		{
			name:     "empty message field serializes the payload",
			body:     `{"message":""}`,
			expected: "{\n  \"message\": \"\"\n}",
		},
		{
			name:     "json null uses placeholder",
			body:     `null`,
			expected: PlaceholderMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMessage([]byte(tt.body)))
		})
	}
}
