package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/coin-rewards-ledger/pkg/notify"
	"github.com/chris/coin-rewards-ledger/pkg/notify/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSQSQueueNotify(t *testing.T) {
	n := notify.Notification{Type: notify.TypePayoutPaid, UserID: "user1", Title: "Payout Successful", Amount: 20}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.SQSAPI)
		queue := notify.NewSQSQueue(mockClient, "https://sqs.local/notifications")

		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var got notify.Notification
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &got); err != nil {
				return false
			}
			return aws.ToString(in.QueueUrl) == "https://sqs.local/notifications" && got == n
		})).Once().Return(&sqs.SendMessageOutput{}, nil)

		err := queue.Notify(context.Background(), n)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Send Fails", func(t *testing.T) {
		mockClient := new(mocks.SQSAPI)
		queue := notify.NewSQSQueue(mockClient, "q")

		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := queue.Notify(context.Background(), n)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
		mockClient.AssertExpectations(t)
	})
}

func TestSQSQueueRequestReview(t *testing.T) {
	mockClient := new(mocks.SQSAPI)
	queue := notify.NewSQSQueue(mockClient, "review")

	mockClient.On("SendMessage", mock.Anything, mock.Anything).Once().Return(&sqs.SendMessageOutput{}, nil)

	err := queue.RequestReview(context.Background(), notify.Review{WithdrawalID: "w1", UserID: "user1", Amount: 20, PendingFor: "80h0m0s"})

	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestNoOpNotifier(t *testing.T) {
	assert.NoError(t, notify.NoOpNotifier{}.Notify(context.Background(), notify.Notification{}))
}
