package assistant

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ChatReply is one (trigger, reply) pair of the small-talk table. The
// slice order is the match priority; the default reply is checked last.
type ChatReply struct {
	Trigger string `yaml:"trigger"`
	Reply   string `yaml:"reply"`
}

// Persona holds every canned reply the assistant produces: the ordered
// small-talk table plus the fixed fallback and apology sentences of the
// individual handlers.
type Persona struct {
	ChatReplies    []ChatReply `yaml:"chat_replies"`
	ChatDefault    string      `yaml:"chat_default"`
	WeatherApology string      `yaml:"weather_apology"`
	NewsApology    string      `yaml:"news_apology"`
	NewsEmpty      string      `yaml:"news_empty"`
	FinanceApology string      `yaml:"finance_apology"`
	MathFallback   string      `yaml:"math_fallback"`
	GamePrompt     string      `yaml:"game_prompt"`
}

// DefaultPersona returns the built-in German reply tables.
func DefaultPersona() Persona {
	return Persona{
		ChatReplies: []ChatReply{
			{Trigger: "hallo", Reply: "Hallo! Wie kann ich dir helfen?"},
			{Trigger: "wie geht's", Reply: "Mir geht es gut, danke der Nachfrage! Wie geht es dir?"},
			{Trigger: "danke", Reply: "Gerne! Kann ich sonst noch etwas für dich tun?"},
			{Trigger: "tschüss", Reply: "Auf Wiedersehen! Matrix Ende."},
		},
		ChatDefault:    "Ich verstehe. Kann ich dir irgendwie helfen?",
		WeatherApology: "Entschuldigung, ich konnte das Wetter nicht abrufen.",
		NewsApology:    "Entschuldigung, ich konnte keine Nachrichten abrufen.",
		NewsEmpty:      "Keine aktuellen Nachrichten verfügbar.",
		FinanceApology: "Entschuldigung, ich konnte keine Finanzdaten abrufen.",
		MathFallback:   "Ich verstehe die Berechnung nicht.",
		GamePrompt:     "Sage 'Schere', 'Stein' oder 'Papier'.",
	}
}

// LoadPersona reads a YAML persona file and merges it over the built-in
// defaults. A missing file is not an error; every field the file leaves
// empty keeps its default.
func LoadPersona(path string) (Persona, error) {
	p := DefaultPersona()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return Persona{}, err
	}
	var file Persona
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Persona{}, err
	}
	if len(file.ChatReplies) > 0 {
		p.ChatReplies = file.ChatReplies
	}
	setIfPresent(&p.ChatDefault, file.ChatDefault)
	setIfPresent(&p.WeatherApology, file.WeatherApology)
	setIfPresent(&p.NewsApology, file.NewsApology)
	setIfPresent(&p.NewsEmpty, file.NewsEmpty)
	setIfPresent(&p.FinanceApology, file.FinanceApology)
	setIfPresent(&p.MathFallback, file.MathFallback)
	setIfPresent(&p.GamePrompt, file.GamePrompt)
	return p, nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
