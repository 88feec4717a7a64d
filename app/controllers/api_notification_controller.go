package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/audience"
	"github.com/lumapanel/lumapanel/internal/pkg/database"
	"github.com/lumapanel/lumapanel/internal/pkg/jobqueue"
	"github.com/lumapanel/lumapanel/internal/pkg/statistics"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

type createNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	UserIDs []uint `json:"user_ids"`
	// The plan target may arrive as a raw id or as a populated plan
	// object; either way it narrows through the reference type.
	Plan    audience.Ref[models.Plan] `json:"plan_id"`
	SendSMS bool                      `json:"send_sms"`
}

// planIDFromRef narrows a plan reference to its numeric id. An absent
// reference resolves to zero; a malformed id is an error.
func planIDFromRef(ref audience.Ref[models.Plan]) (uint, error) {
	if ref.IsZero() {
		return 0, nil
	}
	raw := ref.ID(func(p models.Plan) string {
		return strconv.FormatUint(uint64(p.ID), 10)
	})
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("plan_id: expected a plan id or plan object")
	}
	return uint(id), nil
}

// HandleAdminCreateNotification creates notifications for the resolved
// audience. A plan target wins over user targets when both are given; with
// neither the notification is a broadcast. User targeting fans out to one
// notification per user.
func HandleAdminCreateNotification(c *fiber.Ctx) error {
	var req createNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}
	if req.Type == "" {
		req.Type = models.NotificationTypeOther
	}

	planID, err := planIDFromRef(req.Plan)
	if err != nil {
		return errBadRequest(c, err.Error())
	}

	repos := repository.GetGlobalRepositories()
	created := make([]*models.Notification, 0, 1)

	switch {
	case planID != 0:
		if _, err := repos.Plan.GetByID(planID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound(c, "Plan not found")
			}
			return errInternal(c, "Failed to load plan")
		}
		n := &models.Notification{Title: req.Title, Message: req.Message, Type: req.Type, PlanID: &planID, SendSMS: req.SendSMS}
		if err := n.Validate(); err != nil {
			return errBadRequest(c, err.Error())
		}
		if err := repos.Notification.Create(n); err != nil {
			return errInternal(c, "Failed to create notification")
		}
		created = append(created, n)

	case len(req.UserIDs) > 0:
		for _, userID := range req.UserIDs {
			if _, err := repos.User.GetByID(userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errNotFound(c, "User not found")
				}
				return errInternal(c, "Failed to load user")
			}
			id := userID
			n := &models.Notification{Title: req.Title, Message: req.Message, Type: req.Type, UserID: &id, SendSMS: req.SendSMS}
			if err := n.Validate(); err != nil {
				return errBadRequest(c, err.Error())
			}
			if err := repos.Notification.Create(n); err != nil {
				return errInternal(c, "Failed to create notification")
			}
			created = append(created, n)
		}

	default:
		n := &models.Notification{Title: req.Title, Message: req.Message, Type: req.Type, SendSMS: req.SendSMS}
		if err := n.Validate(); err != nil {
			return errBadRequest(c, err.Error())
		}
		if err := repos.Notification.Create(n); err != nil {
			return errInternal(c, "Failed to create notification")
		}
		created = append(created, n)
	}

	smsEnqueued := 0
	if req.SendSMS {
		for _, n := range created {
			smsEnqueued += enqueueSMSForNotification(n)
		}
	}

	out := make([]fiber.Map, 0, len(created))
	for _, n := range created {
		out = append(out, notificationResponse(n))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"notifications": out,
		"sms_enqueued":  smsEnqueued,
	})
}

// enqueueSMSForNotification fans an SMS out to every phone number in the
// notification's audience, one job per recipient.
func enqueueSMSForNotification(n *models.Notification) int {
	phones, err := resolveAudiencePhones(n)
	if err != nil {
		log.Printf("failed to resolve SMS recipients for notification %d: %v", n.ID, err)
		return 0
	}

	queue := jobqueue.GetManager().GetQueue()
	enqueued := 0
	for _, phone := range phones {
		payload := jobqueue.SMSDispatchPayload{
			NotificationID: n.ID,
			Phone:          phone,
			Message:        n.Title + ": " + n.Message,
		}
		if _, err := queue.EnqueueJob(jobqueue.JobTypeSMSDispatch, payload.ToMap()); err != nil {
			log.Printf("failed to enqueue SMS for notification %d: %v", n.ID, err)
			continue
		}
		enqueued++
	}
	return enqueued
}

// resolveAudiencePhones returns the distinct phone numbers of the
// notification's recipients. Users without a phone on file are skipped.
func resolveAudiencePhones(n *models.Notification) ([]string, error) {
	db := database.GetDB()
	if db == nil {
		return nil, errors.New("database unavailable")
	}

	var phones []string
	query := db.Model(&models.User{}).
		Where("phone IS NOT NULL AND phone != ''").
		Where("status = ?", models.STATUS_ACTIVE).
		Distinct("phone")

	switch {
	case n.PlanID != nil && *n.PlanID != 0:
		query = query.
			Joins("JOIN packages ON packages.user_id = users.id AND packages.deleted_at IS NULL").
			Where("packages.plan_id = ? AND packages.status = ?", *n.PlanID, models.PackageStatusActive)
	case n.UserID != nil && *n.UserID != 0:
		query = query.Where("users.id = ?", *n.UserID)
	}

	if err := query.Pluck("phone", &phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}

// HandleAdminListNotifications lists notifications with their classified
// audiences.
func HandleAdminListNotifications(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	notifications, err := repo.List(offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load notifications")
	}
	total, err := repo.Count()
	if err != nil {
		return errInternal(c, "Failed to count notifications")
	}

	out := make([]fiber.Map, 0, len(notifications))
	for i := range notifications {
		out = append(out, notificationResponse(&notifications[i]))
	}

	return c.JSON(fiber.Map{"notifications": out, "total": total, "offset": offset, "limit": limit})
}

// HandleAdminNotificationStats returns notification counts per audience
// kind.
func HandleAdminNotificationStats(c *fiber.Ctx) error {
	counts, err := statistics.AudienceCounts()
	if err != nil {
		return errInternal(c, "Failed to compute audience stats")
	}
	return c.JSON(fiber.Map{"audiences": counts})
}

// HandleListMyNotifications lists notifications visible to the current
// user: their own, broadcasts, and those targeting a plan they hold an
// active package of.
func HandleListMyNotifications(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	repos := repository.GetGlobalRepositories()
	active, err := repos.Package.GetActiveByUserID(userCtx.UserID)
	if err != nil {
		return errInternal(c, "Failed to load packages")
	}
	planIDs := make([]uint, 0, len(active))
	for i := range active {
		planIDs = append(planIDs, active[i].PlanID)
	}

	notifications, err := repos.Notification.GetVisibleToUser(userCtx.UserID, planIDs, offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load notifications")
	}

	out := make([]fiber.Map, 0, len(notifications))
	for i := range notifications {
		out = append(out, notificationResponse(&notifications[i]))
	}

	return c.JSON(fiber.Map{"notifications": out})
}

// HandleMarkNotificationRead marks one of the user's notifications as read.
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid notification id")
	}

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	notification, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Notification not found")
		}
		return errInternal(c, "Failed to load notification")
	}

	userCtx := usercontext.GetUserContext(c)
	if notification.UserID != nil && *notification.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return errForbidden(c, "Not your notification")
	}

	db := database.GetDB()
	if db == nil {
		return errInternal(c, "Database unavailable")
	}
	if err := notification.MarkAsRead(db); err != nil {
		return errInternal(c, "Failed to mark notification as read")
	}

	return c.JSON(notificationResponse(notification))
}

func notificationResponse(n *models.Notification) fiber.Map {
	target := n.Audience()
	out := fiber.Map{
		"id":         n.ID,
		"title":      n.Title,
		"message":    n.Message,
		"type":       n.Type,
		"audience":   string(target.Kind),
		"send_sms":   n.SendSMS,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
	if n.UserID != nil {
		out["user_id"] = *n.UserID
	}
	if n.PlanID != nil {
		out["plan_id"] = *n.PlanID
	}
	return out
}
