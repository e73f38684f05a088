package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of the SQS client used to publish messages.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSQueue publishes JSON messages to a single SQS queue.
type SQSQueue struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSQueue creates a new SQSQueue.
func NewSQSQueue(client SQSAPI, queueURL string) *SQSQueue {
	return &SQSQueue{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interfaces
var (
	_ Notifier    = (*SQSQueue)(nil)
	_ ReviewQueue = (*SQSQueue)(nil)
)

// Notify sends the notification to the queue.
func (q *SQSQueue) Notify(ctx context.Context, n Notification) error {
	return q.send(ctx, "notification", n)
}

// RequestReview sends a stale withdrawal reminder to the queue.
func (q *SQSQueue) RequestReview(ctx context.Context, r Review) error {
	return q.send(ctx, "review", r)
}

func (q *SQSQueue) send(ctx context.Context, kind string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s for SQS: %w", kind, err)
	}

	_, err = q.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
