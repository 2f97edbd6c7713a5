package assistant

import "strings"

type IntentKind string

const (
	IntentWeather IntentKind = "weather"
	IntentTime    IntentKind = "time"
	IntentMath    IntentKind = "math"
	IntentGame    IntentKind = "game"
	IntentNews    IntentKind = "news"
	IntentFinance IntentKind = "finance"
	IntentChat    IntentKind = "chat"
)

// intentGroups is the classification priority list. First matching group
// wins; the order must not change, since an utterance can hit several
// groups ("spiel mal" matches both math and game triggers).
var intentGroups = []struct {
	kind     IntentKind
	triggers []string
}{
	{IntentWeather, []string{"wetter"}},
	{IntentTime, []string{"zeit", "uhr"}},
	{IntentMath, []string{"rechne", "mal", "plus"}},
	{IntentGame, []string{"spiel", "schere", "stein", "papier"}},
	{IntentNews, []string{"nachrichten", "news"}},
	{IntentFinance, []string{"aktien", "krypto", "börse"}},
}

// Classify maps an utterance to exactly one intent. Matching is
// case-insensitive substring containment; anything that hits no group,
// including the empty string, is chat.
func Classify(utterance string) IntentKind {
	m := strings.ToLower(utterance)
	for _, g := range intentGroups {
		if containsAny(m, g.triggers) {
			return g.kind
		}
	}
	return IntentChat
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
