package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorTable(t *testing.T) {
	want := map[Label]string{
		Happy:   "#FFD700",
		Excited: "#FFA500",
		Sad:     "#ADD8E6",
		Angry:   "#FF4500",
		Anxious: "#FFB6C1",
	}
	for label, color := range want {
		assert.Equal(t, color, label.Color(), "label %s", label)
		assert.True(t, label.Known())
	}
	assert.Len(t, Labels(), len(want))
}

func TestUnknownColor(t *testing.T) {
	assert.Equal(t, FallbackColor, Unknown.Color())
	assert.Equal(t, "#FFFFFF", Label("neutral").Color())
	assert.False(t, Unknown.Known())
}

func TestParse(t *testing.T) {
	tests := map[string]Label{
		"happy":          Happy,
		"  Sad\n":        Sad,
		"ANGRY.":         Angry,
		"anxious!":       Anxious,
		"Excited":        Excited,
		"":               Unknown,
		"neutral":        Unknown,
		"happy and sad":  Unknown,
		"Emotion: happy": Unknown,
	}
	for raw, want := range tests {
		assert.Equal(t, want, Parse(raw), "raw %q", raw)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Classification{Emotion: Sad, Color: "#ADD8E6"}, Classify(Sad))
	assert.Equal(t, Classification{Emotion: Unknown, Color: "#FFFFFF"}, Classify("bored"))
	assert.Equal(t, Classification{Emotion: Unknown, Color: "#FFFFFF"}, Classify(Unknown))
}
