package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected Platform
		ok       bool
	}{
		{"tiktok", PlatformTikTok, true},
		{"TikTok", PlatformTikTok, true},
		{" INSTAGRAM ", PlatformInstagram, true},
		{"myspace", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		platform, ok := ParsePlatform(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, platform, "input %q", tt.input)
	}
}

func TestParseSentimentLabel(t *testing.T) {
	label, ok := ParseSentimentLabel("POSITIVE")
	assert.True(t, ok)
	assert.Equal(t, SentimentPositive, label)

	_, ok = ParseSentimentLabel("ecstatic")
	assert.False(t, ok)
}

func TestParseEntityType_AcceptsPlurals(t *testing.T) {
	for _, s := range []string{"brand", "brands"} {
		et, ok := ParseEntityType(s)
		assert.True(t, ok)
		assert.Equal(t, EntityBrand, et)
	}

	_, ok := ParseEntityType("influencer")
	assert.False(t, ok)
}

func TestEngagementTotal_ExcludesViews(t *testing.T) {
	e := Engagement{Likes: 10, Comments: 3, Shares: 1, Views: 5000}

	assert.Equal(t, 14, e.Total())
}

func TestFilterSpec_IsZero(t *testing.T) {
	assert.True(t, FilterSpec{}.IsZero())
	assert.False(t, FilterSpec{Platforms: []string{"tiktok"}}.IsZero())
}
