package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db *gorm.DB
}

func NewGormUserStor(db *gorm.DB) *GormUserStor {
	return &GormUserStor{db: db}
}

func (s *GormUserStor) CreateUser(user *mpmodel.User) (*mpmodel.User, error) {
	var err error

	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if user.Role == "" {
		user.Role = mpmodel.RoleUser
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *GormUserStor) GetUserByEmail(email string) (*mpmodel.User, error) {
	var user mpmodel.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByID(userID int) (*mpmodel.User, error) {
	var user mpmodel.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) ListUsers() ([]mpmodel.User, error) {
	var users []mpmodel.User
	err := s.db.Find(&users).Error
	return users, err
}
