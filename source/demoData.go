package source

import (
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"google.golang.org/api/forms/v1"
)

const (
	demoFormID          = "demo_form_1"
	demoFormTitle       = "Client Information Form"
	demoFormDescription = "Comprehensive client intake form for collecting personal and financial information"
)

// IntakeForm is the predefined client intake questionnaire.
var IntakeForm = models.FormDefinition{
	Title:       demoFormTitle,
	Description: "Please fill out all required information and upload necessary documents.",
	Questions: []models.QuestionDefinition{
		{Title: "Full Name", Kind: models.ShortText, Required: true},
		{Title: "Birthday", Kind: models.Date, Required: true},
		{Title: "Address", Kind: models.LongText, Required: true},
		{Title: "Email Address", Kind: models.ShortText, Required: true},
		{Title: "Contact Number", Kind: models.ShortText, Required: true},
		{Title: "Image ID", Kind: models.ShortText, Required: true},
		{Title: "ID Expiry", Kind: models.Date, Required: true},
		{Title: "Social Security Number", Kind: models.ShortText, Required: true},
		{Title: "Image SSN", Kind: models.ShortText, Required: true},
		{Title: "Account Number", Kind: models.ShortText, Required: true},
		{Title: "Routing Number", Kind: models.ShortText, Required: true},
		{Title: "Image Account", Kind: models.ShortText, Required: true},
		{Title: "Application 1", Kind: models.ShortText},
		{Title: "Application 2", Kind: models.ShortText},
		{Title: "Application 3", Kind: models.ShortText},
		{Title: "Client's Name", Kind: models.ShortText, Required: true},
		{Title: "Visit Plan", Kind: models.LongText, Required: true},
	},
}

type demoClient struct {
	id            string
	fullName      string
	birthday      string
	address       string
	email         string
	phone         string
	idNumber      string
	ssn           string
	visitPlan     string
	createdDays   int
	expiresInDays int
}

var demoClients = []demoClient{
	{"resp_1", "John Smith", "1990-05-15", "123 Main St, City, State 12345", "john.smith@email.com", "(555) 123-4567", "ID123456789", "***-**-1234", "Regular consultation visit", 5, 15},
	{"resp_2", "Jane Doe", "1985-08-22", "456 Oak Ave, City, State 67890", "jane.doe@email.com", "(555) 987-6543", "ID987654321", "***-**-5678", "Follow-up appointment", 2, 60},
	{"resp_3", "Mike Johnson", "1992-12-10", "789 Pine St, City, State 54321", "mike.johnson@email.com", "(555) 456-7890", "ID456789123", "***-**-9012", "Initial consultation", 1, 25},
}

func textAnswer(value string) forms.Answer {
	return forms.Answer{TextAnswers: &forms.TextAnswers{Answers: []*forms.TextAnswer{{Value: value}}}}
}

// demoResponses are generated relative to now so two of them always fall in the expiry window.
func demoResponses(formID string, now time.Time) []*forms.FormResponse {
	responses := make([]*forms.FormResponse, 0, len(demoClients))
	for _, c := range demoClients {
		created := now.Add(-time.Duration(c.createdDays) * 24 * time.Hour).UTC()
		expiry := now.Add(time.Duration(c.expiresInDays) * 24 * time.Hour).UTC()
		responses = append(responses, &forms.FormResponse{
			FormId:     formID,
			ResponseId: c.id,
			CreateTime: created.Format(time.RFC3339Nano),
			Answers: map[string]forms.Answer{
				"q1":  textAnswer(c.fullName),
				"q2":  textAnswer(c.birthday),
				"q3":  textAnswer(c.address),
				"q4":  textAnswer(c.email),
				"q5":  textAnswer(c.phone),
				"q6":  textAnswer(c.idNumber),
				"q7":  textAnswer(expiry.Format("2006-01-02")),
				"q8":  textAnswer(c.ssn),
				"q16": textAnswer(c.fullName),
				"q17": textAnswer(c.visitPlan),
			},
		})
	}
	return responses
}
