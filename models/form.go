package models

import (
	"os"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/validate"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type QuestionKind string

const (
	ShortText    QuestionKind = "SHORT_TEXT"
	LongText     QuestionKind = "LONG_TEXT"
	SingleChoice QuestionKind = "SINGLE_CHOICE"
	Date         QuestionKind = "DATE"
)

// Question is immutable once reconciliation begins. Options are only set for SingleChoice.
type Question struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Kind     QuestionKind `json:"kind"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
}

type Form struct {
	ID           string     `json:"formId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PublishedURL string     `json:"publishedUrl"`
	EditURL      string     `json:"editUrl"`
	Questions    []Question `json:"questions"`
}

type FormSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedURL string    `json:"publishedUrl"`
	EditURL      string    `json:"editUrl"`
	CreatedTime  time.Time `json:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime"`
	// ResponseCount is filled in by the viewer, sources leave it zero.
	ResponseCount int `json:"responseCount"`
}

type QuestionDefinition struct {
	Title    string       `json:"title" yaml:"title" validate:"required"`
	Kind     QuestionKind `json:"kind" yaml:"kind" validate:"required,oneof=SHORT_TEXT LONG_TEXT SINGLE_CHOICE DATE"`
	Required bool         `json:"required" yaml:"required"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty" validate:"required_if=Kind SINGLE_CHOICE"`
}

// FormDefinition is what a user builds before a form is published.
type FormDefinition struct {
	Title       string               `json:"title" yaml:"title" validate:"required"`
	Description string               `json:"description" yaml:"description"`
	Questions   []QuestionDefinition `json:"questions" yaml:"questions" validate:"dive"`
}

func (d FormDefinition) Validate() error {
	return validate.Validate.Struct(d)
}

func LoadFormDefinition(path string) (*FormDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading form definition %s", path)
	}
	def := &FormDefinition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, errors.Wrapf(err, "error parsing form definition %s", path)
	}
	if err := def.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid form definition")
	}
	return def, nil
}
