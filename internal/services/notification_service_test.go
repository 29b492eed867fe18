// internal/services/notification_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *NotificationService

	vendorA  *models.User
	vendorB  *models.User
	inactive *models.User
	admin    *models.User
}

func (s *NotificationServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewNotificationService(s.db)

	s.vendorA = createTestUser(s.T(), s.db, "vendor-a", models.UserRoleVendor, models.UserStatusActive)
	s.vendorB = createTestUser(s.T(), s.db, "vendor-b", models.UserRoleVendor, models.UserStatusActive)
	s.inactive = createTestUser(s.T(), s.db, "vendor-inactive", models.UserRoleVendor, models.UserStatusInactive)
	s.admin = createTestUser(s.T(), s.db, "admin", models.UserRoleAdmin, models.UserStatusActive)
}

func (s *NotificationServiceTestSuite) recipientCount(notificationID uuid.UUID) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.NotificationRecipient{}).
		Where("notification_id = ?", notificationID).Count(&count).Error)
	return count
}

func (s *NotificationServiceTestSuite) lastNotification() *models.Notification {
	var n models.Notification
	s.Require().NoError(s.db.Order("created_at DESC").First(&n).Error)
	return &n
}

func (s *NotificationServiceTestSuite) TestBroadcastAllSnapshotsActiveRoleMembers() {
	adminID := s.admin.ID
	err := s.service.Broadcast(&adminID, &BroadcastInput{
		Title:      "New Scheme",
		Message:    "Festive discount scheme is live.",
		Type:       models.NotificationTypeScheme,
		TargetRole: models.UserRoleVendor,
		Audience:   models.AudienceAll,
	})
	s.Require().NoError(err)

	n := s.lastNotification()
	s.True(n.BroadcastAll)
	s.Equal(models.UserRoleVendor, n.TargetRole)
	s.Require().NotNil(n.CreatedBy)
	s.Equal(adminID, *n.CreatedBy)

	// Only the two active vendors get rows; the inactive vendor and the
	// admin are outside the snapshot.
	s.Equal(int64(2), s.recipientCount(n.ID))

	feed, err := s.service.GetFeed(s.vendorA.ID)
	s.Require().NoError(err)
	s.Require().Len(feed, 1)
	s.Equal("New Scheme", feed[0].Title)
	s.False(feed[0].Read)

	inactiveFeed, err := s.service.GetFeed(s.inactive.ID)
	s.Require().NoError(err)
	s.Empty(inactiveFeed)
}

func (s *NotificationServiceTestSuite) TestBroadcastSpecificRequiresRecipients() {
	err := s.service.Broadcast(nil, &BroadcastInput{
		Title:    "Targeted",
		Message:  "Hello",
		Audience: models.AudienceSpecific,
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "recipient list is required")
}

func (s *NotificationServiceTestSuite) TestBroadcastValidation() {
	err := s.service.Broadcast(nil, &BroadcastInput{Title: "  ", Message: "body"})
	s.Require().Error(err)
	s.Contains(err.Error(), "title and message are required")

	err = s.service.Broadcast(nil, &BroadcastInput{
		Title:   "t",
		Message: "m",
		Type:    models.NotificationType("carrier-pigeon"),
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid notification type")
}

func (s *NotificationServiceTestSuite) TestBroadcastDefaultsTypeAndAudience() {
	err := s.service.Broadcast(nil, &BroadcastInput{Title: "t", Message: "m"})
	s.Require().NoError(err)

	n := s.lastNotification()
	s.Equal(models.NotificationTypeSystem, n.Type)
	s.Equal(models.UserRoleVendor, n.TargetRole)
	s.True(n.BroadcastAll)
}

func (s *NotificationServiceTestSuite) TestBroadcastInfersSpecificFromTargetList() {
	err := s.service.Broadcast(nil, &BroadcastInput{
		Title:         "Just you",
		Message:       "m",
		TargetUserIDs: []uuid.UUID{s.vendorA.ID},
	})
	s.Require().NoError(err)

	n := s.lastNotification()
	s.False(n.BroadcastAll)
	s.Equal(int64(1), s.recipientCount(n.ID))

	feedB, err := s.service.GetFeed(s.vendorB.ID)
	s.Require().NoError(err)
	s.Empty(feedB)
}

func (s *NotificationServiceTestSuite) TestVendorActivatedAfterSendNeverSeesBroadcast() {
	err := s.service.Broadcast(nil, &BroadcastInput{
		Title:    "Before you joined",
		Message:  "m",
		Audience: models.AudienceAll,
	})
	s.Require().NoError(err)

	// Backdate the send so the new vendor's creation time is strictly later.
	n := s.lastNotification()
	s.Require().NoError(s.db.Model(n).Update("created_at", time.Now().Add(-time.Hour)).Error)

	late := createTestUser(s.T(), s.db, "vendor-late", models.UserRoleVendor, models.UserStatusActive)

	feed, err := s.service.GetFeed(late.ID)
	s.Require().NoError(err)
	s.Empty(feed)

	count, err := s.service.UnreadCount(late.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), count)
}

func (s *NotificationServiceTestSuite) TestInactiveAtSendStaysOutsideSnapshot() {
	err := s.service.Broadcast(nil, &BroadcastInput{
		Title:    "Snapshot",
		Message:  "m",
		Audience: models.AudienceAll,
	})
	s.Require().NoError(err)
	n := s.lastNotification()

	// Activating the account later must not backfill the broadcast:
	// membership was fixed at send time.
	s.Require().NoError(s.db.Model(s.inactive).Update("status", models.UserStatusActive).Error)

	feed, err := s.service.GetFeed(s.inactive.ID)
	s.Require().NoError(err)
	s.Empty(feed)

	count, err := s.service.UnreadCount(s.inactive.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	err = s.service.MarkAsRead(n.ID, s.inactive.ID)
	s.Require().Error(err)
	s.Contains(err.Error(), "not found")
}

func (s *NotificationServiceTestSuite) TestLegacyMarkerOnlyBroadcastAppearsInFeed() {
	// Rows written before recipient materialization existed: a broadcast
	// marker with no recipient rows at all.
	marker := &models.Notification{
		Type:         models.NotificationTypeSystem,
		Title:        "Legacy Notice",
		Message:      "m",
		TargetRole:   models.UserRoleVendor,
		BroadcastAll: true,
	}
	s.Require().NoError(s.db.Create(marker).Error)

	feed, err := s.service.GetFeed(s.vendorA.ID)
	s.Require().NoError(err)
	s.Require().Len(feed, 1)
	s.Equal("Legacy Notice", feed[0].Title)
	s.False(feed[0].Read)

	count, err := s.service.UnreadCount(s.vendorA.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	// First read materializes the recipient row.
	s.Require().NoError(s.service.MarkAsRead(marker.ID, s.vendorA.ID))
	s.Equal(int64(1), s.recipientCount(marker.ID))

	count, err = s.service.UnreadCount(s.vendorA.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	// Vendor B still sees it unread.
	count, err = s.service.UnreadCount(s.vendorB.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *NotificationServiceTestSuite) TestMarkAsReadIsIdempotent() {
	s.Require().NoError(s.service.NotifyUser(s.vendorA.ID, models.NotificationTypeAlert, "t", "m", ""))
	n := s.lastNotification()

	s.Require().NoError(s.service.MarkAsRead(n.ID, s.vendorA.ID))
	s.Require().NoError(s.service.MarkAsRead(n.ID, s.vendorA.ID))

	var recipient models.NotificationRecipient
	s.Require().NoError(s.db.Where("notification_id = ? AND user_id = ?", n.ID, s.vendorA.ID).
		First(&recipient).Error)
	s.True(recipient.Read)
	s.NotNil(recipient.ReadAt)
	s.Equal(int64(1), s.recipientCount(n.ID))
}

func (s *NotificationServiceTestSuite) TestMarkAsReadRejectsForeignNotification() {
	s.Require().NoError(s.service.NotifyUser(s.vendorA.ID, models.NotificationTypeAlert, "t", "m", ""))
	n := s.lastNotification()

	err := s.service.MarkAsRead(n.ID, s.vendorB.ID)
	s.Require().Error(err)
	s.Contains(err.Error(), "not found")
}

func (s *NotificationServiceTestSuite) TestMarkAsReadRejectsMarkerForWrongRole() {
	marker := &models.Notification{
		Type:         models.NotificationTypeSystem,
		Title:        "Vendors only",
		Message:      "m",
		TargetRole:   models.UserRoleVendor,
		BroadcastAll: true,
	}
	s.Require().NoError(s.db.Create(marker).Error)

	err := s.service.MarkAsRead(marker.ID, s.admin.ID)
	s.Require().Error(err)
	s.Contains(err.Error(), "not found")
}

func (s *NotificationServiceTestSuite) TestMarkAllAsReadCoversBothRepresentations() {
	s.Require().NoError(s.service.NotifyUser(s.vendorA.ID, models.NotificationTypeAlert, "explicit", "m", ""))

	marker := &models.Notification{
		Type:         models.NotificationTypeSystem,
		Title:        "marker",
		Message:      "m",
		TargetRole:   models.UserRoleVendor,
		BroadcastAll: true,
	}
	s.Require().NoError(s.db.Create(marker).Error)

	count, err := s.service.UnreadCount(s.vendorA.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	s.Require().NoError(s.service.MarkAllAsRead(s.vendorA.ID))

	count, err = s.service.UnreadCount(s.vendorA.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	feed, err := s.service.GetFeed(s.vendorA.ID)
	s.Require().NoError(err)
	s.Require().Len(feed, 2)
	for _, item := range feed {
		s.True(item.Read)
	}

	// A second pass finds nothing unrowed and writes nothing new.
	s.Require().NoError(s.service.MarkAllAsRead(s.vendorA.ID))
	s.Equal(int64(1), s.recipientCount(marker.ID))
}

func (s *NotificationServiceTestSuite) TestFeedSortsNewestFirst() {
	s.Require().NoError(s.service.NotifyUser(s.vendorA.ID, models.NotificationTypeAlert, "older", "m", ""))
	older := s.lastNotification()
	s.Require().NoError(s.db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	s.Require().NoError(s.service.NotifyUser(s.vendorA.ID, models.NotificationTypeAlert, "newer", "m", ""))

	feed, err := s.service.GetFeed(s.vendorA.ID)
	s.Require().NoError(err)
	s.Require().Len(feed, 2)
	s.Equal("newer", feed[0].Title)
	s.Equal("older", feed[1].Title)
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
