package models

import (
	"fmt"

	"google.golang.org/api/forms/v1"
)

// MalformedInputError reports a Forms API object that cannot be coerced into the typed model.
type MalformedInputError struct {
	Path   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at %s: %s", e.Path, e.Reason)
}

func malformed(path, reason string, args ...interface{}) error {
	return &MalformedInputError{Path: path, Reason: fmt.Sprintf(reason, args...)}
}

// ParseForm keeps only question items, in form order.
func ParseForm(f *forms.Form) (Form, error) {
	if f == nil {
		return Form{}, malformed("form", "missing form")
	}
	if f.FormId == "" {
		return Form{}, malformed("form.formId", "missing form id")
	}

	form := Form{
		ID:           f.FormId,
		PublishedURL: f.ResponderUri,
		EditURL:      fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", f.FormId),
		Questions:    make([]Question, 0, len(f.Items)),
	}
	if f.Info != nil {
		form.Title = f.Info.Title
		form.Description = f.Info.Description
	}

	seen := map[string]int{}
	for i, item := range f.Items {
		if item == nil || item.QuestionItem == nil {
			continue
		}
		path := fmt.Sprintf("form.items[%d].questionItem.question", i)
		q := item.QuestionItem.Question
		if q == nil {
			return Form{}, malformed(path, "missing question")
		}
		if q.QuestionId == "" {
			return Form{}, malformed(path+".questionId", "missing question id")
		}
		if first, ok := seen[q.QuestionId]; ok {
			return Form{}, malformed(path+".questionId", "duplicate question id %q, first seen at item %d", q.QuestionId, first)
		}
		seen[q.QuestionId] = i

		question := Question{
			ID:       q.QuestionId,
			Title:    item.Title,
			Kind:     questionKind(q),
			Required: q.Required,
		}
		if question.Kind == SingleChoice {
			for _, option := range q.ChoiceQuestion.Options {
				if option != nil {
					question.Options = append(question.Options, option.Value)
				}
			}
		}
		form.Questions = append(form.Questions, question)
	}
	return form, nil
}

func questionKind(q *forms.Question) QuestionKind {
	switch {
	case q.TextQuestion != nil && q.TextQuestion.Paragraph:
		return LongText
	case q.TextQuestion != nil:
		return ShortText
	case q.ChoiceQuestion != nil:
		return SingleChoice
	case q.DateQuestion != nil:
		return Date
	default:
		return ShortText
	}
}

func ParseFormResponse(r *forms.FormResponse) (RawResponse, error) {
	if r == nil {
		return RawResponse{}, malformed("response", "missing response")
	}
	if r.ResponseId == "" {
		return RawResponse{}, malformed("response.responseId", "missing response id")
	}
	submittedAt, err := ParseHazyUtcTime(r.CreateTime)
	if err != nil {
		return RawResponse{}, malformed("response.createTime", "invalid timestamp %q", r.CreateTime)
	}

	raw := RawResponse{
		ID:          r.ResponseId,
		SubmittedAt: submittedAt,
		Answers:     make(map[string]RawAnswer, len(r.Answers)),
	}
	for questionID, answer := range r.Answers {
		switch {
		case answer.TextAnswers != nil:
			value := ""
			if len(answer.TextAnswers.Answers) > 0 && answer.TextAnswers.Answers[0] != nil {
				value = answer.TextAnswers.Answers[0].Value
			}
			raw.Answers[questionID] = TextValue(value)
		case answer.FileUploadAnswers != nil:
			names := make(FileNames, 0, len(answer.FileUploadAnswers.Answers))
			for _, file := range answer.FileUploadAnswers.Answers {
				if file != nil {
					names = append(names, file.FileName)
				}
			}
			raw.Answers[questionID] = names
		}
	}
	return raw, nil
}

func ParseFormResponses(responses []*forms.FormResponse) ([]RawResponse, error) {
	raws := make([]RawResponse, 0, len(responses))
	for i, r := range responses {
		raw, err := ParseFormResponse(r)
		if err != nil {
			if m, ok := err.(*MalformedInputError); ok {
				m.Path = fmt.Sprintf("responses[%d].%s", i, m.Path)
			}
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
