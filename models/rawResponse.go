package models

import "time"

// RawAnswer is either a TextValue or FileNames.
type RawAnswer interface {
	isRawAnswer()
}

// TextValue holds the first text answer only, any further values are dropped when parsing.
type TextValue string

type FileNames []string

func (TextValue) isRawAnswer() {}
func (FileNames) isRawAnswer() {}

type RawResponse struct {
	ID          string
	SubmittedAt time.Time
	// Keyed by question ID
	Answers map[string]RawAnswer
}
