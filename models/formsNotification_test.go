package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormsNotification_Validate(t *testing.T) {

	t.Run("Validate good responses notification",
		testFormsNotificationValidate(map[string]string{"formId": "demo_form_1", "watchId": "w1", "eventType": "RESPONSES"}, true))
	t.Run("Validate good schema notification",
		testFormsNotificationValidate(map[string]string{"formId": "demo_form_1", "eventType": "SCHEMA"}, true))
	t.Run("Validate missing form ID",
		testFormsNotificationValidate(map[string]string{"eventType": "RESPONSES"}, false))
	t.Run("Validate missing event type",
		testFormsNotificationValidate(map[string]string{"formId": "demo_form_1"}, false))
	t.Run("Validate unknown event type",
		testFormsNotificationValidate(map[string]string{"formId": "demo_form_1", "eventType": "DELETED"}, false))
}

func testFormsNotificationValidate(attributes map[string]string, valid bool) func(*testing.T) {
	return func(t *testing.T) {
		notification := NewFormsNotification("msg-1", attributes)
		err := notification.Validate()
		if valid {
			assert.NoError(t, err, "Validation failed for valid notification")
		} else {
			assert.Error(t, err, "Validate did not error for invalid notification")
		}
	}
}
