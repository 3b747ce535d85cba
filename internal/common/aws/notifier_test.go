// internal/common/aws/notifier_test.go
package aws

import (
	"context"
	"fmt"
	"testing"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func sampleEvent() ExportEvent {
	return ExportEvent{
		RunID: "run-42",
		Metadata: models.Metadata{
			ExportDate:     "2026-10-17T09:30:00Z",
			TotalTestCases: 3,
			TotalRejected:  1,
			RiskSummary:    models.RiskSummary{Critical: 1, High: 1, Low: 1},
		},
		Files: []string{"data/outputs/testcases_final.json"},
	}
}

func TestExportNotifier_Notify(t *testing.T) {
	var published *sns.PublishInput
	var emailed *ses.SendEmailInput

	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = params
			return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
		},
	}
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			emailed = params
			return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
		},
	}

	n := NewExportNotifierWithClients(mockSNS, "arn:aws:sns:us-east-1:123:ranked", mockSES, "qa@example.com", []string{"lead@example.com"}, logger.NewTestLogger(t))

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))

	require.NotNil(t, published)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:ranked", aws.ToString(published.TopicArn))
	assert.Equal(t, "Test cases ranked: 3 exported, 1 critical", aws.ToString(published.Subject))
	assert.Equal(t, "run-42", aws.ToString(published.MessageAttributes["runId"].StringValue))
	assert.NotEmpty(t, aws.ToString(published.MessageAttributes["notificationId"].StringValue))

	require.NotNil(t, emailed)
	assert.Equal(t, []string{"lead@example.com"}, emailed.Destination.ToAddresses)
	assert.Equal(t, "qa@example.com", aws.ToString(emailed.Source))
	assert.Contains(t, aws.ToString(emailed.Message.Body.Text.Data), "CRITICAL 1")
}

func TestExportNotifier_PartialFailure(t *testing.T) {
	emailCalls := 0
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, fmt.Errorf("throttled")
		},
	}
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			emailCalls++
			return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
		},
	}

	n := NewExportNotifierWithClients(mockSNS, "arn", mockSES, "qa@example.com", []string{"a@example.com"}, logger.NewNoOpLogger())
	err := n.Notify(context.Background(), sampleEvent())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotificationSendFailed))
	assert.Contains(t, err.Error(), "throttled")
	assert.Equal(t, 1, emailCalls, "email is still attempted after sns fails")
}

func TestExportNotifier_EmailWithoutRecipientsIsSkipped(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			t.Fatal("unexpected send")
			return nil, nil
		},
	}

	n := NewExportNotifierWithClients(nil, "", mockSES, "qa@example.com", nil, logger.NewNoOpLogger())
	assert.NoError(t, n.Notify(context.Background(), sampleEvent()))
}

func TestBody(t *testing.T) {
	body := Body(sampleEvent())

	assert.Contains(t, body, "Run: run-42")
	assert.Contains(t, body, "Test cases: 3 (rejected 1)")
	assert.Contains(t, body, "MEDIUM   0")
	assert.Contains(t, body, "data/outputs/testcases_final.json")
}
