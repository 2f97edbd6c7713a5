package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      IntentKind
	}{
		{"weather", "wie ist das Wetter heute", IntentWeather},
		{"time via zeit", "wie viel Zeit habe ich noch", IntentTime},
		{"time via uhr", "wie spät ist es auf deiner Uhr", IntentTime},
		{"math via rechne", "rechne 3 mal 4", IntentMath},
		{"math via plus", "bitte plus 5 und 7", IntentMath},
		{"game via spiel", "lass uns ein Spiel spielen", IntentGame},
		{"game via gesture", "ich nehme Schere", IntentGame},
		{"news", "gibt es neue Nachrichten", IntentNews},
		{"news english trigger", "zeig mir die news", IntentNews},
		{"finance via aktien", "wie stehen die Aktien", IntentFinance},
		{"finance via börse", "was macht die Börse", IntentFinance},
		{"chat fallback", "hallo wie geht es dir", IntentChat},
		{"empty string", "", IntentChat},
		{"gibberish", "xyzzy 42", IntentChat},
		{"upper case", "WETTER BITTE", IntentWeather},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance))
		})
	}
}

// Overlapping utterances must resolve to the highest-priority group.
func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      IntentKind
	}{
		{"weather beats time", "wetter zur mittagszeit", IntentWeather},
		{"time beats math", "rechne die zeit aus", IntentTime},
		{"math beats game", "spiel mal mit", IntentMath},
		{"game beats news", "spiel mit den nachrichten", IntentGame},
		{"news beats finance", "nachrichten über aktien", IntentNews},
		{"weather beats everything", "wetter zeit rechne spiel nachrichten aktien", IntentWeather},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	utterance := "spiel mit den nachrichten über aktien"
	first := Classify(utterance)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Classify(utterance))
	}
}
