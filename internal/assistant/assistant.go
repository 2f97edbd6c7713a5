// Package assistant implements the command-dispatch core: it classifies an
// utterance into one of seven intents, runs that intent's handler, and
// records the exchange as a user/assistant turn pair.
package assistant

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"neo-assistant-backend/internal/lookup"
	"neo-assistant-backend/internal/store"
)

type Assistant struct {
	store       store.Store
	lookup      lookup.Provider
	persona     Persona
	defaultCity string
	// pick selects the assistant's game gesture; swapped out in tests.
	pick func(n int) int
}

func New(st store.Store, lp lookup.Provider, persona Persona, defaultCity string) *Assistant {
	if defaultCity == "" {
		defaultCity = "Berlin"
	}
	return &Assistant{
		store:       st,
		lookup:      lp,
		persona:     persona,
		defaultCity: defaultCity,
		pick:        rand.Intn,
	}
}

// ProcessCommand records the raw utterance as a user turn, dispatches it to
// the matching intent handler, records the reply as an assistant turn, and
// returns the reply. Handler failures degrade to canned replies and never
// surface here; a store failure on either append does, since dropping a
// turn would break the two-turns-per-command invariant.
func (a *Assistant) ProcessCommand(ctx context.Context, userID, command, location string) (string, error) {
	if _, err := a.store.AppendMessage(userID, store.RoleUser, command); err != nil {
		return "", fmt.Errorf("record user turn: %w", err)
	}

	cmd := strings.ToLower(command)
	var reply string
	switch Classify(cmd) {
	case IntentWeather:
		reply = a.handleWeather(ctx, location)
	case IntentTime:
		reply = a.handleTime(ctx)
	case IntentMath:
		reply = a.handleMath(cmd)
	case IntentGame:
		reply = a.handleGame(cmd)
	case IntentNews:
		reply = a.handleNews(ctx)
	case IntentFinance:
		reply = a.handleFinance(ctx)
	default:
		reply = a.handleChat(cmd)
	}

	if _, err := a.store.AppendMessage(userID, store.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("record assistant turn: %w", err)
	}
	return reply, nil
}
