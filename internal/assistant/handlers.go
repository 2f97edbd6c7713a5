package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var digitRuns = regexp.MustCompile(`\d+`)

func (a *Assistant) handleWeather(ctx context.Context, location string) string {
	city := location
	if city == "" {
		city = a.defaultCity
	}
	temp, err := a.lookup.CurrentWeather(ctx)
	if err != nil {
		return a.persona.WeatherApology
	}
	return fmt.Sprintf("Das Wetter in %s: %s°C", city, formatNumber(temp))
}

// handleTime has no failure path: when the world-clock provider is
// unreachable it falls back to the local system clock.
func (a *Assistant) handleTime(ctx context.Context) string {
	t, err := a.lookup.CurrentTime(ctx)
	if err != nil {
		t = time.Now()
	}
	return fmt.Sprintf("Es ist %s Uhr.", t.Format("15:04:05"))
}

func (a *Assistant) handleMath(cmd string) string {
	nums := digitRuns.FindAllString(cmd, -1)
	if len(nums) < 2 {
		return a.persona.MathFallback
	}
	// Only the first two numbers ever take part; extras are ignored.
	first, err1 := strconv.Atoi(nums[0])
	second, err2 := strconv.Atoi(nums[1])
	if err1 != nil || err2 != nil {
		return a.persona.MathFallback
	}
	if strings.Contains(cmd, "mal") {
		return fmt.Sprintf("Das Ergebnis ist %d.", first*second)
	}
	if strings.Contains(cmd, "plus") {
		return fmt.Sprintf("Das Ergebnis ist %d.", first+second)
	}
	return a.persona.MathFallback
}

var gestures = []string{"Schere", "Stein", "Papier"}

func (a *Assistant) handleGame(cmd string) string {
	mine := gestures[a.pick(len(gestures))]

	// Detection order is fixed: an utterance naming two gestures
	// resolves to the earlier-checked one.
	var user string
	switch {
	case strings.Contains(cmd, "schere"):
		user = "Schere"
	case strings.Contains(cmd, "stein"):
		user = "Stein"
	case strings.Contains(cmd, "papier"):
		user = "Papier"
	default:
		return a.persona.GamePrompt
	}
	return fmt.Sprintf("Ich wähle %s. %s", mine, gameOutcome(user, mine))
}

func gameOutcome(user, assistant string) string {
	if user == assistant {
		return "Unentschieden!"
	}
	if (user == "Schere" && assistant == "Papier") ||
		(user == "Stein" && assistant == "Schere") ||
		(user == "Papier" && assistant == "Stein") {
		return "Du gewinnst!"
	}
	return "Ich gewinne!"
}

func (a *Assistant) handleNews(ctx context.Context) string {
	title, err := a.lookup.LatestHeadline(ctx)
	if err != nil {
		return a.persona.NewsApology
	}
	if title == "" {
		return a.persona.NewsEmpty
	}
	return title
}

func (a *Assistant) handleFinance(ctx context.Context) string {
	rate, err := a.lookup.ExchangeRate(ctx)
	if err != nil {
		return a.persona.FinanceApology
	}
	return fmt.Sprintf("Der aktuelle EUR/USD Kurs ist: %s", formatNumber(rate))
}

func (a *Assistant) handleChat(cmd string) string {
	for _, cr := range a.persona.ChatReplies {
		if strings.Contains(cmd, cr.Trigger) {
			return cr.Reply
		}
	}
	return a.persona.ChatDefault
}

// formatNumber renders a float without trailing zeros ("13.4", "13").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
