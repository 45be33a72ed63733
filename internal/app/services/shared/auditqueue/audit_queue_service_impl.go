package auditqueue

import (
	"context"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/exceptions"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// DLQ receives entries whose replay kept failing.
	DeadLetterQueueSuffix = "_dlq"

	maxReplayAttempts = 5
)

// queuedAuditLog wraps the audit entry with replay bookkeeping.
type queuedAuditLog struct {
	Log         *models.AuditLog `json:"log"`
	FailedCount int              `json:"failed_count"`
}

type auditQueueService struct {
	ch        *amqp.Channel
	log       *zap.Logger
	queueName string
	dlqName   string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

var (
	auditQueueInstance contracts.AuditQueueService
	onceAuditQueue     sync.Once
	initErr            error
)

// NewAuditQueueService declares the durable failure queue plus its DLQ,
// enables publisher confirms and sets QoS on the channel.
func NewAuditQueueService(conn *amqp.Connection, log *zap.Logger, queueName string, prefetch int) (contracts.AuditQueueService, error) {
	onceAuditQueue.Do(func() {
		ch, err := conn.Channel()
		if err != nil {
			initErr = err
			return
		}

		dlqName := queueName + DeadLetterQueueSuffix
		for _, name := range []string{queueName, dlqName} {
			_, err = ch.QueueDeclare(
				name,  // name
				true,  // durable
				false, // autoDelete
				false, // exclusive
				false, // noWait
				nil,   // args
			)
			if err != nil {
				initErr = err
				return
			}
		}

		if prefetch <= 0 {
			prefetch = 1
		}
		if err := ch.Qos(prefetch, 0, false); err != nil {
			initErr = err
			return
		}

		if err := ch.Confirm(false); err != nil {
			initErr = err
			return
		}

		auditQueueInstance = &auditQueueService{
			ch:        ch,
			log:       log,
			queueName: queueName,
			dlqName:   dlqName,
			confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		}
	})
	return auditQueueInstance, initErr
}

func (s *auditQueueService) PublishFailedAudit(ctx context.Context, auditLog *models.AuditLog) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("auditQueueService.PublishFailedAudit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, s.queueName),
	)

	return s.publish(ctx, s.queueName, &queuedAuditLog{Log: auditLog})
}

func (s *auditQueueService) publish(ctx context.Context, queueName string, message *queuedAuditLog) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queueName)
	}
	return nil
}

// ConsumeFailedAudits drains the failure queue and hands each entry to the
// handler. Entries failing more than maxReplayAttempts move to the DLQ;
// transient failures are requeued. Blocks until ctx is cancelled.
func (s *auditQueueService) ConsumeFailedAudits(ctx context.Context, handler func(ctx context.Context, log *models.AuditLog) error) error {
	deliveries, err := s.ch.Consume(
		s.queueName,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			s.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (s *auditQueueService) handleDelivery(ctx context.Context, delivery amqp.Delivery, handler func(ctx context.Context, log *models.AuditLog) error) {
	var message queuedAuditLog
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		s.log.Error("auditQueueService.ConsumeFailedAudits dropping unparseable message",
			zap.String(constvars.LoggingQueueNameKey, s.queueName),
			zap.Error(err),
		)
		delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, message.Log); err != nil {
		message.FailedCount++
		s.log.Error("auditQueueService.ConsumeFailedAudits handler failed",
			zap.String(constvars.LoggingQueueNameKey, s.queueName),
			zap.Int(constvars.LoggingCountKey, message.FailedCount),
			zap.Error(err),
		)
		if message.FailedCount >= maxReplayAttempts {
			if pubErr := s.publish(ctx, s.dlqName, &message); pubErr != nil {
				s.log.Error("auditQueueService.ConsumeFailedAudits failed to move message to DLQ",
					zap.String(constvars.LoggingQueueNameKey, s.dlqName),
					zap.Error(pubErr),
				)
				delivery.Nack(false, true)
				return
			}
			delivery.Ack(false)
			return
		}
		if pubErr := s.publish(ctx, s.queueName, &message); pubErr != nil {
			delivery.Nack(false, true)
			return
		}
		delivery.Ack(false)
		return
	}

	delivery.Ack(false)
}

func (s *auditQueueService) Close() error {
	return s.ch.Close()
}
