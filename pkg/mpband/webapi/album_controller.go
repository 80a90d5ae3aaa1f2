package webapi

import (
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/orcrobert/mpp/pkg/mpband/webapi/apimiddleware"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
)

type AlbumController struct {
	albumStor   stor.AlbumStor
	userLogStor stor.UserLogStor
}

func NewAlbumController(albumStor stor.AlbumStor, userLogStor stor.UserLogStor) *AlbumController {
	return &AlbumController{albumStor: albumStor, userLogStor: userLogStor}
}

type ListAlbumsResponse struct {
	Data  []mpmodel.Album `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (c *AlbumController) CreateAlbum(ctx echo.Context) error {
	bandID, err := strconv.Atoi(ctx.Param("bandId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid band id")
	}

	var album mpmodel.Album
	if err := ctx.Bind(&album); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	album.ID = 0
	album.BandID = bandID

	if album.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	created, err := c.albumStor.CreateAlbum(&album)
	switch {
	case stor.IsRecordNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "band not found")
	case err != nil:
		log.Errorf("Failed creating album %q for band %d: %s", album.Name, bandID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create album")
	}

	if user := apimiddleware.GetUserFromContext(ctx); user != nil {
		_, err := c.userLogStor.AddLog(&mpmodel.UserLog{
			UserID:   user.ID,
			Action:   mpmodel.ActionCreate,
			Entity:   "Album",
			EntityID: created.ID,
		})
		if err != nil {
			log.Warnf("Failed recording CREATE log for user %d: %s", user.ID, err)
		}
	}

	return ctx.JSON(http.StatusCreated, created)
}

func (c *AlbumController) ListAlbums(ctx echo.Context) error {
	bandID, err := strconv.Atoi(ctx.Param("bandId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid band id")
	}

	page := intQueryParam(ctx, "page", 1)
	limit := intQueryParam(ctx, "limit", 10)

	albums, total, err := c.albumStor.ListAlbumsForBand(bandID, page, limit)
	if err != nil {
		log.Errorf("Failed listing albums for band %d: %s", bandID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch albums")
	}

	return ctx.JSON(http.StatusOK, ListAlbumsResponse{
		Data:  albums,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
