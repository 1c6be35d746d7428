package reconciler

import (
	"strings"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
)

const fileNameSeparator = ", "

// Reconcile projects raw responses onto the form's questions using the default expiry policy.
func Reconcile(form models.Form, raw []models.RawResponse, now time.Time) []models.NormalizedResponse {
	return ReconcileWithPolicy(form, raw, now, DefaultExpiryPolicy)
}

func ReconcileWithPolicy(form models.Form, raw []models.RawResponse, now time.Time, policy ExpiryPolicy) []models.NormalizedResponse {
	normalized := make([]models.NormalizedResponse, 0, len(raw))
	for _, response := range raw {
		fields := ProjectFields(form.Questions, response.Answers)
		normalized = append(normalized, models.NormalizedResponse{
			ID:             response.ID,
			SubmittedAt:    response.SubmittedAt,
			Fields:         fields,
			IsExpiringSoon: policy.IsExpiringSoon(fields.Value(ExpiryFieldTitle), now),
		})
	}
	return normalized
}

// ProjectFields gives every question a field, in question order. Later questions win on a title collision.
func ProjectFields(questions []models.Question, answers map[string]models.RawAnswer) *models.Fields {
	fields := models.NewFields()
	for _, question := range questions {
		fields.Set(question.Title, displayValue(answers[question.ID]))
	}
	return fields
}

func displayValue(answer models.RawAnswer) string {
	switch a := answer.(type) {
	case models.TextValue:
		return string(a)
	case models.FileNames:
		return strings.Join(a, fileNameSeparator)
	default:
		return ""
	}
}

// Reconciler binds a policy and a clock so callers don't pass them around.
type Reconciler struct {
	Policy ExpiryPolicy
	Now    func() time.Time
}

func New(policy ExpiryPolicy) *Reconciler {
	return &Reconciler{Policy: policy, Now: time.Now}
}

func (r *Reconciler) Reconcile(form models.Form, raw []models.RawResponse) []models.NormalizedResponse {
	return ReconcileWithPolicy(form, raw, r.Now(), r.Policy)
}
