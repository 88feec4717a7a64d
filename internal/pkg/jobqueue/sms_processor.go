package jobqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumapanel/lumapanel/internal/pkg/notifier"
)

var (
	smsSender     notifier.SMSSender
	smsSenderOnce sync.Once
)

func getSMSSender() notifier.SMSSender {
	smsSenderOnce.Do(func() {
		smsSender = notifier.NewSMSSender()
	})
	return smsSender
}

// processSMSDispatchJob sends a single SMS through the configured gateway.
// Fan-out happens at enqueue time: one job per recipient so that a single
// failing number does not block the whole batch.
func (q *Queue) processSMSDispatchJob(ctx context.Context, job *Job) error {
	payload := SMSDispatchPayloadFromMap(job.Payload)
	if payload.Phone == "" {
		return fmt.Errorf("sms dispatch job %s has no phone number", job.ID)
	}
	if payload.Message == "" {
		return fmt.Errorf("sms dispatch job %s has no message", job.ID)
	}

	if err := getSMSSender().SendSMS(ctx, payload.Phone, payload.Message); err != nil {
		return fmt.Errorf("failed to send SMS for notification %d: %w", payload.NotificationID, err)
	}

	return nil
}
