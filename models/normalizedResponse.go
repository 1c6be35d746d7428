package models

import (
	"bytes"
	"time"

	json "github.com/goccy/go-json"
)

// Fields maps question titles to display strings, remembering the order titles were first set.
type Fields struct {
	titles []string
	values map[string]string
}

func NewFields() *Fields {
	return &Fields{values: map[string]string{}}
}

// Set overwrites an existing title in place, it keeps the position of the first insertion.
func (f *Fields) Set(title, value string) {
	if _, ok := f.values[title]; !ok {
		f.titles = append(f.titles, title)
	}
	f.values[title] = value
}

func (f *Fields) Get(title string) (string, bool) {
	if f == nil {
		return "", false
	}
	value, ok := f.values[title]
	return value, ok
}

// Value returns the empty string for unknown titles.
func (f *Fields) Value(title string) string {
	value, _ := f.Get(title)
	return value
}

func (f *Fields) Titles() []string {
	if f == nil {
		return nil
	}
	return append([]string{}, f.titles...)
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.titles)
}

func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, title := range f.Titles() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(title)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.values[title])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type NormalizedResponse struct {
	ID             string    `json:"id"`
	SubmittedAt    time.Time `json:"timestamp"`
	Fields         *Fields   `json:"responses"`
	IsExpiringSoon bool      `json:"isExpiringSoon"`
}
