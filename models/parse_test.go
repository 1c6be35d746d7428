package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/forms/v1"
)

func questionItem(id, title string, question *forms.Question) *forms.Item {
	question.QuestionId = id
	return &forms.Item{Title: title, QuestionItem: &forms.QuestionItem{Question: question}}
}

func TestParseForm(t *testing.T) {
	// Given
	apiForm := &forms.Form{
		FormId:       "form_1",
		Info:         &forms.Info{Title: "Client Information Form", Description: "Intake"},
		ResponderUri: "https://docs.google.com/forms/d/form_1/viewform",
		Items: []*forms.Item{
			questionItem("q1", "Full Name", &forms.Question{TextQuestion: &forms.TextQuestion{}, Required: true}),
			{Title: "Section break", PageBreakItem: &forms.PageBreakItem{}},
			questionItem("q3", "Address", &forms.Question{TextQuestion: &forms.TextQuestion{Paragraph: true}}),
			questionItem("q4", "Preferred contact", &forms.Question{ChoiceQuestion: &forms.ChoiceQuestion{
				Type:    "RADIO",
				Options: []*forms.Option{{Value: "Email"}, {Value: "Phone"}},
			}}),
			questionItem("q7", "ID Expiry", &forms.Question{DateQuestion: &forms.DateQuestion{}, Required: true}),
			questionItem("q9", "Arrival time", &forms.Question{TimeQuestion: &forms.TimeQuestion{}}),
		},
	}

	// When
	form, err := ParseForm(apiForm)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "form_1", form.ID)
	assert.Equal(t, "Client Information Form", form.Title)
	assert.Equal(t, "Intake", form.Description)
	assert.Equal(t, "https://docs.google.com/forms/d/form_1/viewform", form.PublishedURL)
	assert.Equal(t, "https://docs.google.com/forms/d/form_1/edit", form.EditURL)
	assert.Equal(t, []Question{
		{ID: "q1", Title: "Full Name", Kind: ShortText, Required: true},
		{ID: "q3", Title: "Address", Kind: LongText},
		{ID: "q4", Title: "Preferred contact", Kind: SingleChoice, Options: []string{"Email", "Phone"}},
		{ID: "q7", Title: "ID Expiry", Kind: Date, Required: true},
		{ID: "q9", Title: "Arrival time", Kind: ShortText},
	}, form.Questions)
}

func TestParseFormMalformed(t *testing.T) {
	t.Run("nil form", testParseFormMalformed(nil, "form"))
	t.Run("missing form id", testParseFormMalformed(&forms.Form{}, "form.formId"))
	t.Run("missing question", testParseFormMalformed(&forms.Form{
		FormId: "f",
		Items:  []*forms.Item{{Title: "Broken", QuestionItem: &forms.QuestionItem{}}},
	}, "form.items[0].questionItem.question"))
	t.Run("missing question id", testParseFormMalformed(&forms.Form{
		FormId: "f",
		Items:  []*forms.Item{{Title: "Broken", QuestionItem: &forms.QuestionItem{Question: &forms.Question{}}}},
	}, "form.items[0].questionItem.question.questionId"))
	t.Run("duplicate question id", testParseFormMalformed(&forms.Form{
		FormId: "f",
		Items: []*forms.Item{
			questionItem("q1", "One", &forms.Question{TextQuestion: &forms.TextQuestion{}}),
			questionItem("q1", "Two", &forms.Question{TextQuestion: &forms.TextQuestion{}}),
		},
	}, "form.items[1].questionItem.question.questionId"))
}

func testParseFormMalformed(apiForm *forms.Form, expectedPath string) func(*testing.T) {
	return func(t *testing.T) {
		_, err := ParseForm(apiForm)
		var malformedErr *MalformedInputError
		if !assert.True(t, errors.As(err, &malformedErr), "expected MalformedInputError, got %v", err) {
			return
		}
		assert.Equal(t, expectedPath, malformedErr.Path)
	}
}

func TestParseFormResponse(t *testing.T) {
	// Given
	apiResponse := &forms.FormResponse{
		ResponseId: "resp_1",
		CreateTime: "2026-10-09T10:00:00.000Z",
		Answers: map[string]forms.Answer{
			"q1": {TextAnswers: &forms.TextAnswers{Answers: []*forms.TextAnswer{{Value: "John Smith"}, {Value: "ignored"}}}},
			"q2": {TextAnswers: &forms.TextAnswers{}},
			"q6": {FileUploadAnswers: &forms.FileUploadAnswers{Answers: []*forms.FileUploadAnswer{{FileName: "a.png"}, {FileName: "b.png"}}}},
			"q8": {
				TextAnswers:       &forms.TextAnswers{Answers: []*forms.TextAnswer{{Value: "text wins"}}},
				FileUploadAnswers: &forms.FileUploadAnswers{Answers: []*forms.FileUploadAnswer{{FileName: "c.png"}}},
			},
			"q9": {},
		},
	}

	// When
	raw, err := ParseFormResponse(apiResponse)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "resp_1", raw.ID)
	assert.Equal(t, time.Date(2026, 10, 9, 10, 0, 0, 0, time.UTC), raw.SubmittedAt.UTC())
	assert.Equal(t, map[string]RawAnswer{
		"q1": TextValue("John Smith"),
		"q2": TextValue(""),
		"q6": FileNames{"a.png", "b.png"},
		"q8": TextValue("text wins"),
	}, raw.Answers)
}

func TestParseFormResponsesMalformed(t *testing.T) {
	_, err := ParseFormResponses([]*forms.FormResponse{
		{ResponseId: "ok", CreateTime: "2026-10-09T10:00:00Z"},
		{ResponseId: "bad", CreateTime: "last tuesday"},
	})

	var malformedErr *MalformedInputError
	require.True(t, errors.As(err, &malformedErr))
	assert.Equal(t, "responses[1].response.createTime", malformedErr.Path)
	assert.Contains(t, err.Error(), "last tuesday")
}

func TestParseFormResponseMissingId(t *testing.T) {
	_, err := ParseFormResponse(&forms.FormResponse{CreateTime: "2026-10-09T10:00:00Z"})
	assert.EqualError(t, err, "malformed input at response.responseId: missing response id")
}
