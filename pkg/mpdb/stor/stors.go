package stor

import (
	"time"

	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"gorm.io/gorm"
)

// BandQuery holds the filter/sort/pagination parameters for listing bands.
// Page is 1-based. A zero Limit defaults to 10.
type BandQuery struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// GroupStat is one row of a grouped aggregate: how many records share the
// group value and their average rating.
type GroupStat struct {
	Genre         string  `json:"genre,omitempty"`
	Country       string  `json:"country,omitempty"`
	ReleaseYear   int     `json:"release_year,omitempty"`
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// CatalogStats aggregates the whole catalog server-side: band counts and
// average ratings grouped by genre and country (most common first), and
// album counts and average ratings by release year (oldest first).
type CatalogStats struct {
	Genres     []GroupStat `json:"genres"`
	Countries  []GroupStat `json:"countries"`
	AlbumYears []GroupStat `json:"album_years"`
}

type BandStor interface {
	CreateBand(band *mpmodel.Band) (*mpmodel.Band, error)
	GetBandByID(bandID int) (*mpmodel.Band, error)
	ListBands(q BandQuery) ([]mpmodel.Band, int64, error)
	UpdateBand(bandID int, updates map[string]interface{}) (*mpmodel.Band, error)
	DeleteBand(bandID int) error
	CatalogStats() (*CatalogStats, error)
}

type AlbumStor interface {
	CreateAlbum(album *mpmodel.Album) (*mpmodel.Album, error)
	ListAlbumsForBand(bandID, page, limit int) ([]mpmodel.Album, int64, error)
}

type UserStor interface {
	CreateUser(user *mpmodel.User) (*mpmodel.User, error)
	GetUserByEmail(email string) (*mpmodel.User, error)
	GetUserByID(userID int) (*mpmodel.User, error)
	ListUsers() ([]mpmodel.User, error)
}

type UserLogStor interface {
	AddLog(userLog *mpmodel.UserLog) (*mpmodel.UserLog, error)
	GetLogsForUserSince(userID int, since time.Time) ([]mpmodel.UserLog, error)
}

type MonitoredUserStor interface {
	UpsertMonitoredUser(userID int, reason string) (*mpmodel.MonitoredUser, error)
	ListMonitoredUsers() ([]mpmodel.MonitoredUser, error)
}

type Stors struct {
	BandStor          BandStor
	AlbumStor         AlbumStor
	UserStor          UserStor
	UserLogStor       UserLogStor
	MonitoredUserStor MonitoredUserStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		BandStor:          NewGormBandStor(db),
		AlbumStor:         NewGormAlbumStor(db),
		UserStor:          NewGormUserStor(db),
		UserLogStor:       NewGormUserLogStor(db),
		MonitoredUserStor: NewGormMonitoredUserStor(db),
	}
}
