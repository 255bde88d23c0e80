package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/models"
)

func emotionItem(url string, emotions map[string]float64) models.AnalyzedItem {
	return models.AnalyzedItem{
		ID:          url,
		Platform:    models.PlatformTikTok,
		PostURL:     url,
		PublishedAt: ts("2025-03-01T00:00:00Z"),
		Sentiment:   models.Sentiment{Label: models.SentimentNeutral},
		Emotions:    emotions,
	}
}

func TestEmotions_CountsAndPrevalence(t *testing.T) {
	items := []models.AnalyzedItem{
		emotionItem("a", map[string]float64{"joy": 0.8, "trust": 0.2}),
		emotionItem("b", map[string]float64{"joy": 0.5}),
		emotionItem("c", nil), // no emotion block, excluded from the denominator
	}

	snapshot := Emotions(items, testProv())

	assert.Equal(t, 2, snapshot.TotalAnalyzed)
	require.Len(t, snapshot.Emotions, 2)
	assert.Equal(t, "joy", snapshot.Emotions[0].Emotion)
	assert.Equal(t, 2, snapshot.Emotions[0].Count)
	assert.Equal(t, 100.0, snapshot.Emotions[0].Percentage)
	assert.Equal(t, "trust", snapshot.Emotions[1].Emotion)
	assert.Equal(t, 1, snapshot.Emotions[1].Count)
	assert.Equal(t, 50.0, snapshot.Emotions[1].Percentage)
	assert.Equal(t, "joy", snapshot.DominantEmotion)
}

func TestEmotions_AvgIntensityIsShareOfItemTotal(t *testing.T) {
	items := []models.AnalyzedItem{
		// joy is 80% of this item's emotional weight
		emotionItem("a", map[string]float64{"joy": 0.8, "trust": 0.2}),
	}

	snapshot := Emotions(items, testProv())

	require.Len(t, snapshot.Emotions, 2)
	assert.Equal(t, 80.0, snapshot.Emotions[0].AvgIntensity)
	assert.Equal(t, 20.0, snapshot.Emotions[1].AvgIntensity)
}

func TestEmotions_ZeroWeightsDoNotCount(t *testing.T) {
	items := []models.AnalyzedItem{
		emotionItem("a", map[string]float64{"joy": 0.9, "anger": 0}),
	}

	snapshot := Emotions(items, testProv())

	require.Len(t, snapshot.Emotions, 1)
	assert.Equal(t, "joy", snapshot.Emotions[0].Emotion)
}

func TestEmotions_AllZeroItemExcludedFromDenominator(t *testing.T) {
	items := []models.AnalyzedItem{
		emotionItem("a", map[string]float64{"joy": 0, "anger": 0}),
		emotionItem("b", map[string]float64{"sadness": 0.4}),
	}

	snapshot := Emotions(items, testProv())

	assert.Equal(t, 1, snapshot.TotalAnalyzed)
	require.Len(t, snapshot.Emotions, 1)
	assert.Equal(t, 100.0, snapshot.Emotions[0].Percentage)
}

func TestEmotions_EmptyInput(t *testing.T) {
	snapshot := Emotions(nil, testProv())

	assert.Equal(t, 0, snapshot.TotalAnalyzed)
	assert.NotNil(t, snapshot.Emotions)
	assert.Empty(t, snapshot.Emotions)
	assert.Empty(t, snapshot.DominantEmotion)
}
