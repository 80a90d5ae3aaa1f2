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

type BandController struct {
	bandStor    stor.BandStor
	userLogStor stor.UserLogStor
}

func NewBandController(bandStor stor.BandStor, userLogStor stor.UserLogStor) *BandController {
	return &BandController{bandStor: bandStor, userLogStor: userLogStor}
}

// ListBandsResponse is the wire shape for GET /entities.
type ListBandsResponse struct {
	Data  []mpmodel.Band `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (c *BandController) ListBands(ctx echo.Context) error {
	q := stor.BandQuery{
		Search: ctx.QueryParam("search"),
		Sort:   ctx.QueryParam("sort"),
		Order:  ctx.QueryParam("order"),
		Page:   intQueryParam(ctx, "page", 1),
		Limit:  intQueryParam(ctx, "limit", 10),
	}

	bands, total, err := c.bandStor.ListBands(q)
	if err != nil {
		log.Errorf("Failed listing bands: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch entities")
	}

	c.logAction(ctx, mpmodel.ActionRead, 0)

	return ctx.JSON(http.StatusOK, ListBandsResponse{
		Data:  bands,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	})
}

func (c *BandController) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CatalogStats serves the server-side grouped aggregates over the full
// catalog.
func (c *BandController) CatalogStats(ctx echo.Context) error {
	stats, err := c.bandStor.CatalogStats()
	if err != nil {
		log.Errorf("Failed computing catalog statistics: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch statistics")
	}

	return ctx.JSON(http.StatusOK, stats)
}

func (c *BandController) CreateBand(ctx echo.Context) error {
	var band mpmodel.Band

	if err := ctx.Bind(&band); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Ids are assigned here, never by the caller.
	band.ID = 0

	if band.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	if band.Rating < 0 || band.Rating > 10 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 0 and 10")
	}

	created, err := c.bandStor.CreateBand(&band)
	if err != nil {
		log.Errorf("Failed creating band %q: %s", band.Name, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create entity")
	}

	c.logAction(ctx, mpmodel.ActionCreate, created.ID)

	return ctx.JSON(http.StatusCreated, created)
}

func (c *BandController) UpdateBand(ctx echo.Context) error {
	bandID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var body map[string]interface{}
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updates := allowedBandUpdates(body)
	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no updatable fields in request")
	}

	updated, err := c.bandStor.UpdateBand(bandID, updates)
	switch {
	case stor.IsRecordNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	case err != nil:
		log.Errorf("Failed updating band %d: %s", bandID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update entity")
	}

	c.logAction(ctx, mpmodel.ActionUpdate, bandID)

	return ctx.JSON(http.StatusOK, updated)
}

func (c *BandController) DeleteBand(ctx echo.Context) error {
	bandID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err = c.bandStor.DeleteBand(bandID)
	switch {
	case stor.IsRecordNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	case err != nil:
		log.Errorf("Failed deleting band %d: %s", bandID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete entity")
	}

	c.logAction(ctx, mpmodel.ActionDelete, bandID)

	return ctx.NoContent(http.StatusNoContent)
}

// allowedBandUpdates filters a partial update body down to the columns a
// caller may set.
func allowedBandUpdates(body map[string]interface{}) map[string]interface{} {
	allowed := []string{"name", "genre", "rating", "status", "theme", "country", "label", "link"}
	updates := make(map[string]interface{})

	for _, key := range allowed {
		if val, ok := body[key]; ok {
			updates[key] = val
		}
	}

	return updates
}

func (c *BandController) logAction(ctx echo.Context, action string, entityID int) {
	user := apimiddleware.GetUserFromContext(ctx)
	if user == nil {
		return
	}

	_, err := c.userLogStor.AddLog(&mpmodel.UserLog{
		UserID:   user.ID,
		Action:   action,
		Entity:   "Band",
		EntityID: entityID,
	})
	if err != nil {
		log.Warnf("Failed recording %s log for user %d: %s", action, user.ID, err)
	}
}

func intQueryParam(ctx echo.Context, name string, defaultValue int) int {
	val, err := strconv.Atoi(ctx.QueryParam(name))
	if err != nil || val < 1 {
		return defaultValue
	}

	return val
}
