package mpmodel

import "time"

// MonitoredUser marks a user whose activity exceeded one or more of the
// monitor's thresholds. Reason describes which actions tripped it.
type MonitoredUser struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"user_id" gorm:"uniqueIndex"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
