package emotion

import "strings"

// Label 表示分类器可以返回的情绪标签。
type Label string

const (
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Anxious Label = "anxious"
	Excited Label = "excited"
	Unknown Label = "unknown"
)

// FallbackColor is shown for Unknown and any label outside the palette.
const FallbackColor = "#FFFFFF"

var palette = map[Label]string{
	Happy:   "#FFD700",
	Excited: "#FFA500",
	Sad:     "#ADD8E6",
	Angry:   "#FF4500",
	Anxious: "#FFB6C1",
}

// Labels lists the known vocabulary in prompt order.
func Labels() []Label {
	return []Label{Happy, Sad, Angry, Anxious, Excited}
}

// Color returns the display colour for label.
func (l Label) Color() string {
	if color, ok := palette[l]; ok {
		return color
	}
	return FallbackColor
}

// Known reports whether l belongs to the palette.
func (l Label) Known() bool {
	_, ok := palette[l]
	return ok
}

// Parse normalises raw model output into a label. Output that is not exactly
// one known word after trimming, lower-casing and dropping trailing
// punctuation becomes Unknown.
func Parse(raw string) Label {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimRight(normalized, ".!")
	label := Label(strings.TrimSpace(normalized))
	if !label.Known() {
		return Unknown
	}
	return label
}

// Classification pairs a label with its display colour.
type Classification struct {
	Emotion Label
	Color   string
}

// Classify builds the Classification for label; labels outside the palette
// collapse to Unknown.
func Classify(label Label) Classification {
	if !label.Known() {
		label = Unknown
	}
	return Classification{Emotion: label, Color: label.Color()}
}
