// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

type BroadcastInput struct {
	Title         string                      `json:"title"`
	Message       string                      `json:"message"`
	Type          models.NotificationType     `json:"type"`
	Link          string                      `json:"link,omitempty"`
	Metadata      map[string]interface{}      `json:"metadata,omitempty"`
	TargetRole    models.UserRole             `json:"target_role"`
	Audience      models.NotificationAudience `json:"audience"`
	TargetUserIDs []uuid.UUID                 `json:"target_user_ids,omitempty"`
}

// Broadcast persists one notification and fans it out to its recipients.
// Audience "all" resolves to a snapshot of active users in the target role
// at send time; a user activated afterwards never sees the notification.
// The notification body and its recipient rows commit in one transaction,
// so no partial recipient list is ever notified.
func (s *NotificationService) Broadcast(createdBy *uuid.UUID, input *BroadcastInput) error {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return errors.New("title and message are required")
	}

	notifType := input.Type
	if notifType == "" {
		notifType = models.NotificationTypeSystem
	}
	if !notifType.Valid() {
		return fmt.Errorf("invalid notification type: %s", notifType)
	}

	targetRole := input.TargetRole
	if targetRole == "" {
		targetRole = models.UserRoleVendor
	}

	audience := input.Audience
	if audience == "" {
		if len(input.TargetUserIDs) > 0 {
			audience = models.AudienceSpecific
		} else {
			audience = models.AudienceAll
		}
	}

	// No-op broadcasts are rejected, not silently accepted.
	if audience == models.AudienceSpecific && len(input.TargetUserIDs) == 0 {
		return errors.New("recipient list is required for a specific broadcast")
	}

	recipientIDs := input.TargetUserIDs
	if audience == models.AudienceAll {
		if err := s.db.Model(&models.User{}).
			Where("role = ? AND status = ?", targetRole, models.UserStatusActive).
			Pluck("id", &recipientIDs).Error; err != nil {
			return fmt.Errorf("failed to resolve recipients: %w", err)
		}
	}

	notification := &models.Notification{
		Type:         notifType,
		Title:        title,
		Message:      message,
		Link:         input.Link,
		Metadata:     models.JSONB(input.Metadata),
		TargetRole:   targetRole,
		BroadcastAll: audience == models.AudienceAll,
		Snapshotted:  true,
		CreatedBy:    createdBy,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		for _, userID := range recipientIDs {
			recipient := &models.NotificationRecipient{
				NotificationID: notification.ID,
				UserID:         userID,
			}
			if err := tx.Create(recipient).Error; err != nil {
				return fmt.Errorf("failed to create notification recipient: %w", err)
			}
		}
		return nil
	})
}

// NotifyUser is the single-recipient convenience used by grievance and POSM
// status changes.
func (s *NotificationService) NotifyUser(userID uuid.UUID, notifType models.NotificationType, title, message, link string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	return s.Broadcast(nil, &BroadcastInput{
		Title:         title,
		Message:       message,
		Type:          notifType,
		Link:          link,
		TargetRole:    user.Role,
		Audience:      models.AudienceSpecific,
		TargetUserIDs: []uuid.UUID{userID},
	})
}

// GetFeed merges the two persisted representations into one unread/read
// view: explicit recipient rows, plus legacy broadcast-all notifications
// that never materialized a row for this user.
func (s *NotificationService) GetFeed(userID uuid.UUID) ([]models.FeedItem, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	var recipients []models.NotificationRecipient
	if err := s.db.Preload("Notification").
		Where("user_id = ?", userID).
		Find(&recipients).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	feed := make([]models.FeedItem, 0, len(recipients))
	for _, r := range recipients {
		feed = append(feed, models.FeedItem{
			Notification: r.Notification,
			Read:         r.Read,
			ReadAt:       r.ReadAt,
		})
	}

	unrowed, err := s.unrowedBroadcasts(user)
	if err != nil {
		return nil, err
	}
	for _, n := range unrowed {
		feed = append(feed, models.FeedItem{Notification: n, Read: false})
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	return feed, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch user: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.NotificationRecipient{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	unrowed, err := s.unrowedBroadcasts(user)
	if err != nil {
		return 0, err
	}

	return count + int64(len(unrowed)), nil
}

// MarkAsRead is idempotent: re-marking an already-read notification is a
// no-op, not an error.
func (s *NotificationService) MarkAsRead(notificationID, userID uuid.UUID) error {
	var recipient models.NotificationRecipient
	err := s.db.Where("notification_id = ? AND user_id = ?", notificationID, userID).
		First(&recipient).Error

	if err == nil {
		if recipient.Read {
			return nil
		}
		now := time.Now()
		return s.db.Model(&recipient).
			Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to fetch notification: %w", err)
	}

	// Marker-only broadcast: materialize the read row on first touch.
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return errors.New("notification not found")
	}
	var notification models.Notification
	err = s.db.Where("id = ? AND broadcast_all = ? AND snapshotted = ? AND target_role = ?",
		notificationID, true, false, user.Role).First(&notification).Error
	if err != nil {
		return errors.New("notification not found")
	}

	now := time.Now()
	return s.db.Create(&models.NotificationRecipient{
		NotificationID: notificationID,
		UserID:         userID,
		Read:           true,
		ReadAt:         &now,
	}).Error
}

// MarkAllAsRead updates every explicit recipient row and materializes read
// rows for unrowed legacy markers in one transaction, so the feed never
// ends up partially read.
func (s *NotificationService) MarkAllAsRead(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	unrowed, err := s.unrowedBroadcasts(user)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.NotificationRecipient{}).
			Where("user_id = ? AND read = ?", userID, false).
			Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
		if err != nil {
			return fmt.Errorf("failed to mark notifications read: %w", err)
		}

		for _, n := range unrowed {
			readAt := now
			row := &models.NotificationRecipient{
				NotificationID: n.ID,
				UserID:         userID,
				Read:           true,
				ReadAt:         &readAt,
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to mark notifications read: %w", err)
			}
		}
		return nil
	})
}

// unrowedBroadcasts returns pre-materialization broadcast markers targeting
// the user's role that have no recipient row for this user. Snapshotted
// broadcasts are excluded outright: their recipient rows are the membership
// record, so a user outside the send-time snapshot never resolves one here.
func (s *NotificationService) unrowedBroadcasts(user models.User) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("broadcast_all = ? AND snapshotted = ? AND target_role = ? AND created_at >= ?",
			true, false, user.Role, user.CreatedAt).
		Where("id NOT IN (?)", s.db.Model(&models.NotificationRecipient{}).
			Select("notification_id").Where("user_id = ?", user.ID)).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}
