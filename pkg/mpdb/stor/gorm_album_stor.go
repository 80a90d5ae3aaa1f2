package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"gorm.io/gorm"
)

type GormAlbumStor struct {
	db *gorm.DB
}

func NewGormAlbumStor(db *gorm.DB) *GormAlbumStor {
	return &GormAlbumStor{db: db}
}

func (s *GormAlbumStor) CreateAlbum(album *mpmodel.Album) (*mpmodel.Album, error) {
	var err error

	if album.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		// The owning band must exist.
		var band mpmodel.Band
		if err := tx.First(&band, album.BandID).Error; err != nil {
			return err
		}

		return tx.Create(album).Error
	})

	if err != nil {
		return nil, err
	}

	return album, nil
}

func (s *GormAlbumStor) ListAlbumsForBand(bandID, page, limit int) ([]mpmodel.Album, int64, error) {
	var (
		albums []mpmodel.Album
		total  int64
	)

	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&mpmodel.Album{}).Where("band_id = ?", bandID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("rating desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&albums).Error
	if err != nil {
		return nil, 0, err
	}

	return albums, total, nil
}
