package publisher

import (
	"context"
	"encoding/json"
	"log/slog"

	"stay-event-adapter/internal/domain/stay"
	"stay-event-adapter/internal/infra"
	"stay-event-adapter/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the slice of the SNS client the publisher needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher emits one UTF-8 JSON message per event to a fixed topic.
// Fire-and-forget: no internal retry, failures go back to the orchestrator.
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
	logger   *slog.Logger
}

func NewSNSPublisher(client SNSAPI, topicARN string, logger *slog.Logger) *SNSPublisher {
	return &SNSPublisher{
		client:   client,
		topicARN: topicARN,
		logger:   logger,
	}
}

func (p *SNSPublisher) Publish(ctx context.Context, event stay.StayCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Mark(err, errs.ErrPublishFailed)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		wrapped := infra.WrapInfraErr(p.logger, infra.KindPublishFailure, "failed to publish event", err)
		return errs.Mark(wrapped, errs.ErrPublishFailed)
	}

	p.logger.Info("published event", slog.Int("bytes", len(body)))
	return nil
}
