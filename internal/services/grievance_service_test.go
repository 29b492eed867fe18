// internal/services/grievance_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type GrievanceServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *GrievanceService

	vendor *models.User
}

func (s *GrievanceServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewGrievanceService(s.db, NewNotificationService(s.db))

	s.vendor = createTestUser(s.T(), s.db, "vendor", models.UserRoleVendor, models.UserStatusActive)
}

func (s *GrievanceServiceTestSuite) createGrievance() *models.Grievance {
	grievance, err := s.service.Create(s.vendor.ID, &CreateGrievanceRequest{
		Subject:     "Stitching came apart",
		Description: "The seat cover stitching opened up within a month.",
		Category:    "quality",
	})
	s.Require().NoError(err)
	return grievance
}

func (s *GrievanceServiceTestSuite) TestCreateOpensGrievance() {
	grievance := s.createGrievance()

	s.Equal(models.GrievanceStatusOpen, grievance.Status)
	s.Equal(s.vendor.ID, grievance.RaisedBy)
	s.Nil(grievance.ResolvedAt)
}

func (s *GrievanceServiceTestSuite) TestCreateValidatesInput() {
	_, err := s.service.Create(s.vendor.ID, &CreateGrievanceRequest{
		Subject:     "x",
		Description: "too short",
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "validation failed")
}

func (s *GrievanceServiceTestSuite) TestCreateRejectsUnknownWarranty() {
	ghost := newUUID()
	_, err := s.service.Create(s.vendor.ID, &CreateGrievanceRequest{
		WarrantyID:  &ghost,
		Subject:     "Warranty dispute",
		Description: "My warranty claim was not honored at all.",
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "warranty not found")
}

func (s *GrievanceServiceTestSuite) TestStatusTransitions() {
	cases := []struct {
		name    string
		from    models.GrievanceStatus
		to      models.GrievanceStatus
		allowed bool
	}{
		{"open to in_progress", models.GrievanceStatusOpen, models.GrievanceStatusInProgress, true},
		{"open to resolved", models.GrievanceStatusOpen, models.GrievanceStatusResolved, true},
		{"in_progress to closed", models.GrievanceStatusInProgress, models.GrievanceStatusClosed, true},
		{"resolved to reopened", models.GrievanceStatusResolved, models.GrievanceStatusReopened, true},
		{"closed to reopened", models.GrievanceStatusClosed, models.GrievanceStatusReopened, true},
		{"reopened to resolved", models.GrievanceStatusReopened, models.GrievanceStatusResolved, true},
		{"closed to in_progress", models.GrievanceStatusClosed, models.GrievanceStatusInProgress, false},
		{"open to reopened", models.GrievanceStatusOpen, models.GrievanceStatusReopened, false},
		{"resolved to in_progress", models.GrievanceStatusResolved, models.GrievanceStatusInProgress, false},
		{"open to open", models.GrievanceStatusOpen, models.GrievanceStatusOpen, false},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			grievance := s.createGrievance()
			s.Require().NoError(s.db.Model(grievance).Update("status", tc.from).Error)

			_, err := s.service.UpdateStatus(Actor{}, grievance.ID, &UpdateGrievanceStatusRequest{
				Status: tc.to,
			})
			if tc.allowed {
				s.NoError(err)
			} else {
				s.Require().Error(err)
				s.Contains(err.Error(), "cannot transition")
			}
		})
	}
}

func (s *GrievanceServiceTestSuite) TestResolvingSetsResolvedAtAndResolution() {
	grievance := s.createGrievance()

	updated, err := s.service.UpdateStatus(Actor{}, grievance.ID, &UpdateGrievanceStatusRequest{
		Status:     models.GrievanceStatusResolved,
		Resolution: "Replacement cover dispatched.",
	})
	s.Require().NoError(err)
	s.Equal(models.GrievanceStatusResolved, updated.Status)

	var stored models.Grievance
	s.Require().NoError(s.db.First(&stored, "id = ?", grievance.ID).Error)
	s.NotNil(stored.ResolvedAt)
	s.Equal("Replacement cover dispatched.", stored.Resolution)
}

func (s *GrievanceServiceTestSuite) TestStatusChangeNotifiesRaiser() {
	grievance := s.createGrievance()

	_, err := s.service.UpdateStatus(Actor{}, grievance.ID, &UpdateGrievanceStatusRequest{
		Status: models.GrievanceStatusInProgress,
	})
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.db.Model(&models.NotificationRecipient{}).
		Where("user_id = ?", s.vendor.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *GrievanceServiceTestSuite) TestListAllFiltersByStatus() {
	s.createGrievance()
	second := s.createGrievance()
	s.Require().NoError(s.db.Model(second).Update("status", models.GrievanceStatusClosed).Error)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	_, total, err := s.service.ListAll("", params)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	_, total, err = s.service.ListAll(models.GrievanceStatusClosed, params)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *GrievanceServiceTestSuite) TestListByRaiserExcludesOthers() {
	s.createGrievance()
	other := createTestUser(s.T(), s.db, "other", models.UserRoleVendor, models.UserStatusActive)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
	_, total, err := s.service.ListByRaiser(other.ID, params)
	s.Require().NoError(err)
	s.Equal(int64(0), total)
}

func TestGrievanceServiceSuite(t *testing.T) {
	suite.Run(t, new(GrievanceServiceTestSuite))
}
