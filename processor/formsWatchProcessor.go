package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/config"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
)

func NewFormsWatchProcessor(ctx context.Context, appConfig *config.Configuration, v *viewer.Viewer, errChan chan Error) (*Processor, error) {
	return NewProcessor(ctx, appConfig, appConfig.FormsWatchProject, appConfig.FormsWatchSubscription, appConfig.ExpiryRoutingKey, newExpiryAlertConverter(v), unmarshalFormsNotification, errChan)
}

func unmarshalFormsNotification(messageId string, _ []byte, attributes map[string]string) (models.InboundMessage, error) {
	notification := models.NewFormsNotification(messageId, attributes)
	if err := notification.Validate(); err != nil {
		return nil, err
	}
	return notification, nil
}

// newExpiryAlertConverter raises one alert per expiring response of the notified form.
func newExpiryAlertConverter(v *viewer.Viewer) messageConverter {
	return func(ctx context.Context, message models.InboundMessage) ([]*models.ExpiryAlert, error) {
		notification, ok := message.(models.FormsNotification)
		if !ok {
			return nil, fmt.Errorf("wrong message model given to expiry alert converter: %T, only accepts FormsNotification, tx_id: %q", message, message.GetTransactionId())
		}
		if notification.EventType != models.EventTypeResponses {
			return nil, nil
		}

		_, responses, err := v.Load(ctx, notification.FormId)
		if err != nil {
			return nil, err
		}
		return convertToExpiryAlerts(notification, responses, v.Reconciler.Now()), nil
	}
}

func convertToExpiryAlerts(notification models.FormsNotification, responses []models.NormalizedResponse, now time.Time) []*models.ExpiryAlert {
	alerts := []*models.ExpiryAlert{}
	for _, response := range responses {
		if !response.IsExpiringSoon {
			continue
		}
		dateTime := now
		alerts = append(alerts, &models.ExpiryAlert{
			Event: models.AlertEvent{
				Type:          models.AlertTypeIdExpiringSoon,
				Source:        models.AlertSource,
				Channel:       models.AlertChannel,
				DateTime:      &dateTime,
				TransactionID: notification.GetTransactionId(),
			},
			Payload: models.AlertPayload{
				Expiry: &models.ExpiryPayload{
					FormID:      notification.FormId,
					ResponseID:  response.ID,
					IdExpiry:    response.Fields.Value(reconciler.ExpiryFieldTitle),
					SubmittedAt: response.SubmittedAt,
				},
			},
		})
	}
	return alerts
}
