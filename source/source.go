package source

import (
	"context"
	"fmt"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/pkg/errors"
	"google.golang.org/api/forms/v1"
)

var ErrFormNotFound = errors.New("form not found")

// FormSource is the data access collaborator for forms and their responses.
// Forms and responses come back in the Forms API shape, callers coerce them with models.ParseForm.
type FormSource interface {
	ListForms(ctx context.Context) ([]models.FormSummary, error)
	GetForm(ctx context.Context, formID string) (*forms.Form, error)
	ListResponses(ctx context.Context, formID string) ([]*forms.FormResponse, error)
	CreateForm(ctx context.Context, def models.FormDefinition) (*forms.Form, error)
	DeleteForm(ctx context.Context, formID string) error
}

func PublishedURL(formID string) string {
	return fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform", formID)
}

func EditURL(formID string) string {
	return fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", formID)
}

// BuildItems turns a definition into Forms API items, question IDs are q1, q2... in order.
func BuildItems(def models.FormDefinition) []*forms.Item {
	items := make([]*forms.Item, 0, len(def.Questions))
	for i, q := range def.Questions {
		question := &forms.Question{
			QuestionId: fmt.Sprintf("q%d", i+1),
			Required:   q.Required,
		}
		switch q.Kind {
		case models.LongText:
			question.TextQuestion = &forms.TextQuestion{Paragraph: true}
		case models.SingleChoice:
			options := make([]*forms.Option, 0, len(q.Options))
			for _, option := range q.Options {
				options = append(options, &forms.Option{Value: option})
			}
			question.ChoiceQuestion = &forms.ChoiceQuestion{Type: "RADIO", Options: options}
		case models.Date:
			question.DateQuestion = &forms.DateQuestion{IncludeYear: true}
		default:
			question.TextQuestion = &forms.TextQuestion{}
		}
		items = append(items, &forms.Item{
			Title:        q.Title,
			QuestionItem: &forms.QuestionItem{Question: question},
		})
	}
	return items
}
