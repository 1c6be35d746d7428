package processor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"

	"cloud.google.com/go/pubsub"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/config"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const quarantineServiceName = "Form Response Adapter"

type messageUnmarshaller func(messageId string, data []byte, attributes map[string]string) (models.InboundMessage, error)

type messageConverter func(ctx context.Context, message models.InboundMessage) ([]*models.ExpiryAlert, error)

type Error struct {
	Err error
	*Processor
}

type Processor struct {
	Name                 string
	RabbitConn           *amqp.Connection
	RabbitRoutingKey     string
	RabbitChannels       []RabbitChannel
	OutboundMsgChan      chan *models.OutboundMessage
	Config               *config.Configuration
	PubSubProject        string
	PubSubSubscriptionId string
	PubSubClient         *pubsub.Client
	PubSubSubscription   *pubsub.Subscription
	unmarshallMessage    messageUnmarshaller
	convertMessage       messageConverter
	HttpClient           *http.Client
	ErrChan              chan Error
	Logger               *zap.SugaredLogger
	Context              context.Context
	Cancel               context.CancelFunc
}

func NewProcessor(ctx context.Context,
	appConfig *config.Configuration,
	pubSubProject string,
	pubSubSubscription string,
	routingKey string,
	messageConverter messageConverter,
	messageUnmarshaller messageUnmarshaller, errChan chan Error) (*Processor, error) {
	p := &Processor{}
	p.Name = pubSubSubscription + ">" + routingKey
	p.PubSubSubscriptionId = pubSubSubscription
	p.PubSubProject = pubSubProject
	p.Config = appConfig
	p.RabbitRoutingKey = routingKey
	p.convertMessage = messageConverter
	p.unmarshallMessage = messageUnmarshaller
	p.HttpClient = http.DefaultClient
	p.ErrChan = errChan
	p.OutboundMsgChan = make(chan *models.OutboundMessage)
	p.RabbitChannels = make([]RabbitChannel, 0)
	p.Logger = logger.Logger.With("processor", p.Name)

	if err := p.Initialise(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Processor) Initialise(ctx context.Context) (err error) {
	// Set up context
	p.Context, p.Cancel = context.WithCancel(ctx)

	// Initialise PubSub
	if err := p.initPubSub(); err != nil {
		return err
	}

	// Initialise consuming from PubSub
	p.Logger.Infow("Launching PubSub message receiver")
	go p.Consume()

	// Initialise and manage publisher workers
	go p.startPublishers(ctx)
	return nil
}

func (p *Processor) initPubSub() (err error) {
	// Set up PubSub connection
	p.PubSubClient, err = pubsub.NewClient(p.Context, p.PubSubProject)
	if err != nil {
		return errors.Wrap(err, "error settings up PubSub client")
	}

	// Set up PubSub subscription
	p.PubSubSubscription = p.PubSubClient.Subscription(p.PubSubSubscriptionId)
	return nil
}

func (p *Processor) Consume() {
	err := p.PubSubSubscription.Receive(p.Context, p.Process)
	if err != nil {
		p.Logger.Errorw("Error in consumer", "error", err)
		p.ReportError(err)
	}
}

func (p *Processor) Process(ctx context.Context, msg *pubsub.Message) {
	p.process(ctx, msg.ID, msg.Data, msg.Attributes, msg)
}

func (p *Processor) process(ctx context.Context, msgId string, data []byte, attributes map[string]string, source models.PubSubMessage) {
	ctxLogger := p.Logger.With("msgId", msgId)
	messageReceived, err := p.unmarshallMessage(msgId, data, attributes)
	if err != nil {
		ctxLogger.Errorw("Error unmarshalling message, quarantining", "error", err, "data", string(data), "attributes", attributes)
		if err := p.quarantineMessage(msgId, data, attributes, err); err != nil {
			ctxLogger.Errorw("Error quarantining bad message, nacking", "error", err, "data", string(data))
			source.Nack()
			return
		}
		ctxLogger.Debugw("Acking quarantined message", "msgData", string(data))
		source.Ack()
		return
	}
	ctxLogger = ctxLogger.With("transactionId", messageReceived.GetTransactionId())
	ctxLogger.Debugw("Processing message")
	alerts, err := p.convertMessage(ctx, messageReceived)
	if err != nil {
		ctxLogger.Errorw("Error converting message, nacking", "error", err)
		source.Nack()
		return
	}
	if len(alerts) == 0 {
		ctxLogger.Debugw("Nothing to publish, acking")
		source.Ack()
		return
	}
	ctxLogger.Debugw("Sending outbound alerts to publish", "alertCount", len(alerts))
	select {
	case p.OutboundMsgChan <- &models.OutboundMessage{TransactionID: messageReceived.GetTransactionId(), Alerts: alerts, SourceMessage: source}:
	case <-ctx.Done():
		source.Nack()
	}
}

func (p *Processor) quarantineMessage(msgId string, data []byte, attributes map[string]string, rootErr error) error {
	headers := map[string]string{
		"pubSubId": msgId,
	}

	for key, value := range attributes {
		headers[key] = value
	}

	msgToQuarantine := models.MessageToQuarantine{
		MessageHash:      messageHash(data, attributes),
		MessagePayload:   data,
		Service:          quarantineServiceName,
		Queue:            p.PubSubSubscriptionId,
		ExceptionClass:   "Error unmarshalling message",
		ExceptionMessage: rootErr.Error(),
		RoutingKey:       "none",
		ContentType:      "application/json",
		Headers:          headers,
	}

	jsonValue, err := json.Marshal(msgToQuarantine)
	if err != nil {
		return err
	}

	resp, err := p.HttpClient.Post(p.Config.QuarantineMessageUrl, "application/json", bytes.NewBuffer(jsonValue))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("quarantine endpoint responded with status %d", resp.StatusCode)
	}

	p.Logger.Debugw("Quarantined message", "msgId", msgId)
	return nil
}

// messageHash covers the attributes too, watch notifications carry everything there.
func messageHash(data []byte, attributes map[string]string) string {
	hash := sha256.New()
	hash.Write(data)
	// fmt prints maps with sorted keys
	hash.Write([]byte(fmt.Sprint(attributes)))
	return fmt.Sprintf("%x", hash.Sum(nil))
}

func (p *Processor) Stop() {
	p.Logger.Debug("Stopping processor")
	p.Cancel()
	p.CloseRabbit(false)
}

func (p *Processor) Restart(ctx context.Context) {
	p.Stop()
	if err := p.Initialise(ctx); err != nil {
		logger.Logger.Errorw("Failed to restart processor", "error", err, "processor", p.Name)
		p.ReportError(err)
	}

}

func (p *Processor) ReportError(err error) {
	// Writing to a channel is a blocking operation, it waits till there is a consumer ready.
	// Do it in a go routine to ensure it gets written without blocking the caller.
	go func() {
		p.ErrChan <- Error{
			Err:       err,
			Processor: p,
		}
	}()
}
