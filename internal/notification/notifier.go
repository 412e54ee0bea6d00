// Package notification publishes the matches-ready event once a student's
// match set has been stored.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	awsclient "scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

const EventMatchesReady = "scholarship.matches.ready"

type Notifier interface {
	NotifyMatchesReady(ctx context.Context, out *models.MatchOutput) error
}

// MatchesReadyEvent is the message body published to the topic.
type MatchesReadyEvent struct {
	EventType    string    `json:"eventType"`
	StudentID    string    `json:"studentId"`
	RunID        string    `json:"runId"`
	MatchCount   int       `json:"matchCount"`
	TopListingID string    `json:"topListingId,omitempty"`
	TopScore     int       `json:"topScore,omitempty"`
	ComputedAt   time.Time `json:"computedAt"`
}

func NewMatchesReadyEvent(out *models.MatchOutput) MatchesReadyEvent {
	ev := MatchesReadyEvent{
		EventType:  EventMatchesReady,
		StudentID:  out.StudentID,
		RunID:      out.RunID,
		MatchCount: len(out.Matches),
		ComputedAt: out.ComputedAt,
	}
	if len(out.Matches) > 0 {
		ev.TopListingID = out.Matches[0].Listing.ID
		ev.TopScore = out.Matches[0].Score
	}
	return ev
}

type SNSNotifier struct {
	client   awsclient.SNSPublisher
	topicARN string
	logger   logger.Logger
}

func NewSNSNotifier(client awsclient.SNSPublisher, topicARN string, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN, logger: log}
}

func (n *SNSNotifier) NotifyMatchesReady(ctx context.Context, out *models.MatchOutput) error {
	body, err := json.Marshal(NewMatchesReadyEvent(out))
	if err != nil {
		return fmt.Errorf("marshal matches-ready event: %w", err)
	}

	res, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventMatchesReady),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", n.topicARN, err)
	}

	n.logger.Info("Matches-ready event published", map[string]interface{}{
		"studentId": out.StudentID,
		"runId":     out.RunID,
		"messageId": aws.ToString(res.MessageId),
	})
	return nil
}

// NoopNotifier is used when notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) NotifyMatchesReady(context.Context, *models.MatchOutput) error { return nil }
