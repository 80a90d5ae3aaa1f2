package mpmodel

import "time"

type Band struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid"`
	Slug      string    `json:"slug" gorm:"uniqueIndex"`
	Name      string    `json:"name"`
	Genre     string    `json:"genre"`
	Rating    float64   `json:"rating"`
	Status    bool      `json:"status"`
	Theme     string    `json:"theme"`
	Country   string    `json:"country"`
	Label     string    `json:"label"`
	Link      string    `json:"link"`
	Albums    []Album   `json:"albums,omitempty" gorm:"foreignKey:BandID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
