package stor

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"gorm.io/gorm"
)

// topAlbumsPerBand limits how many albums a listed band embeds.
const topAlbumsPerBand = 5

type GormBandStor struct {
	db *gorm.DB
}

func NewGormBandStor(db *gorm.DB) *GormBandStor {
	return &GormBandStor{db: db}
}

func (s *GormBandStor) CreateBand(band *mpmodel.Band) (*mpmodel.Band, error) {
	var err error

	if band.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	slugOfName := slug.Make(band.Name)
	band.Slug = slugOfName
	slugNext := 1

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
	CreateLoop:
		for {
			err = tx.Create(band).Error
			switch {
			case err == nil:
				break CreateLoop
			case isDuplicateKeyErr(err):
				// Collision on the slug. Add an incrementing integer to the
				// slug name and try again.
				band.Slug = fmt.Sprintf("%s-%d", slugOfName, slugNext)
				slugNext = slugNext + 1
			default:
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return band, nil
}

func isDuplicateKeyErr(err error) bool {
	return err == gorm.ErrDuplicatedKey ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "Duplicate entry")
}

func (s *GormBandStor) GetBandByID(bandID int) (*mpmodel.Band, error) {
	var band mpmodel.Band
	err := s.db.Preload("Albums", func(db *gorm.DB) *gorm.DB {
		return db.Order("rating desc")
	}).First(&band, bandID).Error
	if err != nil {
		return nil, err
	}

	truncateAlbums(&band)

	return &band, nil
}

func (s *GormBandStor) ListBands(q BandQuery) ([]mpmodel.Band, int64, error) {
	var (
		bands []mpmodel.Band
		total int64
	)

	if q.Page < 1 {
		q.Page = 1
	}

	if q.Limit < 1 {
		q.Limit = 10
	}

	query := s.db.Model(&mpmodel.Band{})

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(genre) LIKE ? OR LOWER(country) LIKE ?",
			pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(q.Sort, q.Order)).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Preload("Albums", func(db *gorm.DB) *gorm.DB {
			return db.Order("rating desc")
		})

	if err := query.Find(&bands).Error; err != nil {
		return nil, 0, err
	}

	for i := range bands {
		truncateAlbums(&bands[i])
	}

	return bands, total, nil
}

// orderClause builds the ORDER BY for a list query. Text columns compare
// case-insensitively. An unknown or empty sort falls back to rating desc.
func orderClause(sort, order string) string {
	if order != "desc" {
		order = "asc"
	}

	switch sort {
	case "name":
		return "LOWER(name) " + order
	case "country":
		return "LOWER(country) " + order
	case "rating":
		return "rating " + order
	default:
		return "rating desc"
	}
}

func (s *GormBandStor) UpdateBand(bandID int, updates map[string]interface{}) (*mpmodel.Band, error) {
	var band mpmodel.Band

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&band, bandID).Error; err != nil {
			return err
		}

		return tx.Model(&band).Updates(updates).Error
	})

	if err != nil {
		return nil, err
	}

	return &band, nil
}

func (s *GormBandStor) DeleteBand(bandID int) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		var band mpmodel.Band
		if err := tx.First(&band, bandID).Error; err != nil {
			return err
		}

		// Albums belong to exactly one band, so they go with it.
		if err := tx.Where("band_id = ?", bandID).Delete(&mpmodel.Album{}).Error; err != nil {
			return err
		}

		return tx.Delete(&band).Error
	})
}

// CatalogStats runs the grouped aggregates in the database rather than
// loading the catalog into memory.
func (s *GormBandStor) CatalogStats() (*CatalogStats, error) {
	stats := &CatalogStats{
		Genres:     []GroupStat{},
		Countries:  []GroupStat{},
		AlbumYears: []GroupStat{},
	}

	err := s.db.Model(&mpmodel.Band{}).
		Select("genre, COUNT(*) AS count, AVG(rating) AS average_rating").
		Group("genre").
		Order("count DESC").
		Scan(&stats.Genres).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&mpmodel.Band{}).
		Select("country, COUNT(*) AS count, AVG(rating) AS average_rating").
		Group("country").
		Order("count DESC").
		Scan(&stats.Countries).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&mpmodel.Album{}).
		Select("release_year, COUNT(*) AS count, AVG(rating) AS average_rating").
		Group("release_year").
		Order("release_year ASC").
		Scan(&stats.AlbumYears).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func truncateAlbums(band *mpmodel.Band) {
	if len(band.Albums) > topAlbumsPerBand {
		band.Albums = band.Albums[:topAlbumsPerBand]
	}
}
