package mpmodel

import "time"

// Album belongs to exactly one Band. Deleting a band deletes its albums.
type Album struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	ReleaseYear int       `json:"release_year"`
	Rating      float64   `json:"rating"`
	BandID      int       `json:"band_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
