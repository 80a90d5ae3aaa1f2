package stor

import (
	"time"

	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"gorm.io/gorm"
)

type GormUserLogStor struct {
	db *gorm.DB
}

func NewGormUserLogStor(db *gorm.DB) *GormUserLogStor {
	return &GormUserLogStor{db: db}
}

func (s *GormUserLogStor) AddLog(userLog *mpmodel.UserLog) (*mpmodel.UserLog, error) {
	if err := s.db.Create(userLog).Error; err != nil {
		return nil, err
	}

	return userLog, nil
}

func (s *GormUserLogStor) GetLogsForUserSince(userID int, since time.Time) ([]mpmodel.UserLog, error) {
	var logs []mpmodel.UserLog
	err := s.db.Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Find(&logs).Error
	return logs, err
}
