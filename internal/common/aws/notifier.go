// internal/common/aws/notifier.go
package aws

import (
	"context"
	"fmt"
	"strings"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"

	"github.com/google/uuid"
)

// ExportEvent describes a finished export.
type ExportEvent struct {
	RunID    string
	Metadata models.Metadata
	Files    []string
}

// ExportNotifier announces finished exports over SNS and/or SES. Either
// channel may be disabled.
type ExportNotifier struct {
	sns      SNSService
	ses      SESService
	topicARN string
	from     string
	to       []string
	logger   logger.Logger
}

// NewExportNotifier builds AWS clients for the enabled channels. It returns
// nil when no channel is enabled.
func NewExportNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*ExportNotifier, error) {
	if !cfg.SNS.Enabled && !cfg.Email.Enabled {
		return nil, nil
	}

	awsCfg, err := LoadConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	n := &ExportNotifier{logger: log}
	if cfg.SNS.Enabled {
		n.sns = NewSNSClient(awsCfg)
		n.topicARN = cfg.SNS.TopicARN
	}
	if cfg.Email.Enabled {
		n.ses = NewSESClient(awsCfg)
		n.from = cfg.Email.FromEmail
		n.to = cfg.Email.To
	}
	return n, nil
}

// NewExportNotifierWithClients wires pre-built clients; a nil client
// disables its channel.
func NewExportNotifierWithClients(snsClient SNSService, topicARN string, sesClient SESService, from string, to []string, log logger.Logger) *ExportNotifier {
	return &ExportNotifier{
		sns:      snsClient,
		ses:      sesClient,
		topicARN: topicARN,
		from:     from,
		to:       to,
		logger:   log,
	}
}

// Notify sends the event on every enabled channel. All channels are tried;
// the first failure is returned as NOTIFICATION_SEND_FAILED.
func (n *ExportNotifier) Notify(ctx context.Context, ev ExportEvent) error {
	notificationID := uuid.New().String()
	subject := Subject(ev)
	body := Body(ev)

	var firstErr error

	if n.sns != nil {
		msgID, err := publish(ctx, n.sns, n.topicARN, subject, body, map[string]string{
			"runId":          ev.RunID,
			"notificationId": notificationID,
		})
		if err != nil {
			firstErr = errors.NewNotificationSendFailedError("sns", err)
			n.logger.Warn("export notification failed", map[string]interface{}{
				"channel": "sns",
				"error":   err,
			})
		} else {
			n.logger.Info("export notification sent", map[string]interface{}{
				"channel":        "sns",
				"messageId":      msgID,
				"notificationId": notificationID,
			})
		}
	}

	if n.ses != nil && len(n.to) > 0 {
		msgID, err := sendEmail(ctx, n.ses, n.from, n.to, subject, body)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.NewNotificationSendFailedError("email", err)
			}
			n.logger.Warn("export notification failed", map[string]interface{}{
				"channel": "email",
				"error":   err,
			})
		} else {
			n.logger.Info("export notification sent", map[string]interface{}{
				"channel":        "email",
				"messageId":      msgID,
				"notificationId": notificationID,
			})
		}
	}

	return firstErr
}

func Subject(ev ExportEvent) string {
	m := ev.Metadata
	return fmt.Sprintf("Test cases ranked: %d exported, %d critical", m.TotalTestCases, m.RiskSummary.Critical)
}

func Body(ev ExportEvent) string {
	m := ev.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", ev.RunID)
	fmt.Fprintf(&b, "Exported: %s\n", m.ExportDate)
	fmt.Fprintf(&b, "Test cases: %d (rejected %d)\n\n", m.TotalTestCases, m.TotalRejected)
	b.WriteString("Risk distribution:\n")
	for _, c := range models.RiskCategories {
		fmt.Fprintf(&b, "  %-8s %d\n", c, m.RiskSummary.Count(c))
	}
	if len(ev.Files) > 0 {
		b.WriteString("\nFiles:\n")
		for _, f := range ev.Files {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	return b.String()
}
