package processor

import (
	"context"
	"testing"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/source"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func TestUnmarshalFormsNotification(t *testing.T) {
	t.Run("Responses notification", testUnmarshalFormsNotification(
		map[string]string{"formId": "demo_form_1", "watchId": "watch-1", "eventType": "RESPONSES"},
		models.FormsNotification{MessageId: "msg-1", FormId: "demo_form_1", WatchId: "watch-1", EventType: models.EventTypeResponses},
		false))
	t.Run("Schema notification", testUnmarshalFormsNotification(
		map[string]string{"formId": "demo_form_1", "eventType": "SCHEMA"},
		models.FormsNotification{MessageId: "msg-1", FormId: "demo_form_1", EventType: models.EventTypeSchema},
		false))
	t.Run("Missing form id", testUnmarshalFormsNotification(
		map[string]string{"eventType": "RESPONSES"}, nil, true))
	t.Run("Unknown event type", testUnmarshalFormsNotification(
		map[string]string{"formId": "demo_form_1", "eventType": "DELETED"}, nil, true))
	t.Run("No attributes", testUnmarshalFormsNotification(nil, nil, true))
}

func testUnmarshalFormsNotification(attributes map[string]string, expected models.InboundMessage, expectErr bool) func(*testing.T) {
	return func(t *testing.T) {
		// When
		message, err := unmarshalFormsNotification("msg-1", nil, attributes)

		// Then
		if expectErr {
			assert.Error(t, err)
			assert.Nil(t, message)
			return
		}
		require.NoError(t, err)
		assert.Equal(t, expected, message)
		assert.Equal(t, "msg-1", message.GetTransactionId())
	}
}

func TestExpiryAlertConverter_Responses(t *testing.T) {
	// Given
	convert := newExpiryAlertConverter(newTestViewer(t))
	notification := models.FormsNotification{MessageId: "msg-1", FormId: "demo_form_1", EventType: models.EventTypeResponses}

	// When
	alerts, err := convert(context.Background(), notification)

	// Then
	// John expires in 15 days and Mike in 25, Jane's 60 days are outside the window
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, models.AlertEvent{
		Type:          models.AlertTypeIdExpiringSoon,
		Source:        models.AlertSource,
		Channel:       models.AlertChannel,
		DateTime:      &testNow,
		TransactionID: "msg-1",
	}, alerts[0].Event)
	assert.Equal(t, &models.ExpiryPayload{
		FormID:      "demo_form_1",
		ResponseID:  "resp_1",
		IdExpiry:    "2026-10-29",
		SubmittedAt: testNow.AddDate(0, 0, -5),
	}, alerts[0].Payload.Expiry)
	assert.Equal(t, "resp_3", alerts[1].Payload.Expiry.ResponseID)
	assert.Equal(t, "2026-11-08", alerts[1].Payload.Expiry.IdExpiry)
}

func TestExpiryAlertConverter_SchemaIgnored(t *testing.T) {
	convert := newExpiryAlertConverter(newTestViewer(t))

	alerts, err := convert(context.Background(),
		models.FormsNotification{MessageId: "msg-1", FormId: "demo_form_1", EventType: models.EventTypeSchema})

	assert.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestExpiryAlertConverter_UnknownForm(t *testing.T) {
	convert := newExpiryAlertConverter(newTestViewer(t))

	_, err := convert(context.Background(),
		models.FormsNotification{MessageId: "msg-1", FormId: "missing", EventType: models.EventTypeResponses})

	assert.True(t, errors.Is(err, source.ErrFormNotFound), "expected form not found, got %v", err)
}

func TestExpiryAlertConverter_WrongMessageType(t *testing.T) {
	convert := newExpiryAlertConverter(newTestViewer(t))

	_, err := convert(context.Background(), wrongMessage{})

	assert.Error(t, err)
}

type wrongMessage struct{}

func (wrongMessage) GetTransactionId() string {
	return "wrong"
}

func newTestViewer(t *testing.T) *viewer.Viewer {
	demo, err := source.NewDemo(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { demo.Close() })
	demo.Now = func() time.Time { return testNow }

	// Listing seeds the demo form
	_, err = demo.ListForms(context.Background())
	require.NoError(t, err)

	r := reconciler.New(reconciler.DefaultExpiryPolicy)
	r.Now = func() time.Time { return testNow }
	return viewer.New(demo, r)
}
