package types

import "time"

type CommandRequest struct {
	Command  string `json:"command"`
	Location string `json:"location,omitempty"`
}

type CommandResponse struct {
	Reply      string `json:"reply"`
	OutputMode string `json:"outputMode"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HistoryMessage struct {
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

type PreferencesRequest struct {
	OutputMode string `json:"outputMode"`
}

type PreferencesResponse struct {
	OutputMode string `json:"outputMode"`
}
