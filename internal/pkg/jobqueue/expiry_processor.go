package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/notifier"
)

const expirySweepBatchSize = 200

// processPackageExpirySweepJob marks overdue active packages as expired and
// creates an expiry notification for each affected user.
func (q *Queue) processPackageExpirySweepJob(ctx context.Context, job *Job) error {
	repos := repository.GetGlobalRepositories()
	now := time.Now()

	overdue, err := repos.Package.GetOverdueActive(now, expirySweepBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load overdue packages: %w", err)
	}

	if len(overdue) == 0 {
		return nil
	}

	expired := 0
	for i := range overdue {
		pkg := &overdue[i]
		pkg.Status = models.PackageStatusExpired
		if err := repos.Package.Update(pkg); err != nil {
			log.Errorf("[JobQueue] Failed to expire package %d: %v", pkg.ID, err)
			continue
		}
		expired++

		userID := pkg.UserID
		notification := &models.Notification{
			Title:   "Package expired",
			Message: fmt.Sprintf("Your package ended on %s. Renew your plan to keep sending requests.", pkg.EndDate.Format("2006-01-02")),
			Type:    models.NotificationTypeExpiry,
			UserID:  &userID,
		}
		if err := repos.Notification.Create(notification); err != nil {
			log.Errorf("[JobQueue] Failed to create expiry notification for user %d: %v", pkg.UserID, err)
		}

		// Email is best effort; the in-app notification is the source of truth.
		if user, err := repos.User.GetByID(pkg.UserID); err == nil && user.Email != "" {
			if err := notifier.SendMail(user.Email, notification.Title, notification.Message); err != nil {
				log.Warnf("[JobQueue] Failed to send expiry email to user %d: %v", pkg.UserID, err)
			}
		}
	}

	log.Infof("[JobQueue] Expiry sweep: %d of %d overdue packages expired", expired, len(overdue))

	// A full batch means more overdue packages may remain; sweep again.
	if len(overdue) == expirySweepBatchSize {
		if _, err := q.EnqueueJob(JobTypePackageExpirySweep, nil); err != nil {
			log.Errorf("[JobQueue] Failed to enqueue follow-up expiry sweep: %v", err)
		}
	}

	return nil
}
