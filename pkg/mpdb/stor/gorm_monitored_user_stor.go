package stor

import (
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"gorm.io/gorm"
)

type GormMonitoredUserStor struct {
	db *gorm.DB
}

func NewGormMonitoredUserStor(db *gorm.DB) *GormMonitoredUserStor {
	return &GormMonitoredUserStor{db: db}
}

// UpsertMonitoredUser flags userID, updating the reason if the user is
// already flagged.
func (s *GormMonitoredUserStor) UpsertMonitoredUser(userID int, reason string) (*mpmodel.MonitoredUser, error) {
	var monitored mpmodel.MonitoredUser

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&monitored).Error
		switch {
		case err == nil:
			return tx.Model(&monitored).Update("reason", reason).Error
		case IsRecordNotFound(err):
			monitored = mpmodel.MonitoredUser{UserID: userID, Reason: reason}
			return tx.Create(&monitored).Error
		default:
			return err
		}
	})

	if err != nil {
		return nil, err
	}

	return &monitored, nil
}

func (s *GormMonitoredUserStor) ListMonitoredUsers() ([]mpmodel.MonitoredUser, error) {
	var monitored []mpmodel.MonitoredUser
	err := s.db.Preload("User").Find(&monitored).Error
	return monitored, err
}
