package webapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	ctx, rec := doJSON(http.MethodGet, "/entities/health", "")
	require.NoError(t, controller.HealthCheck(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateBand(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	ctx, rec := doJSON(http.MethodPost, "/entities",
		`{"id": 999, "name": "Gojira", "genre": "Progressive Metal", "rating": 9.5, "country": "France"}`)
	require.NoError(t, controller.CreateBand(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created mpmodel.Band
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Gojira", created.Name)
	assert.Equal(t, "gojira", created.Slug)
	assert.NotEqual(t, 999, created.ID, "caller-supplied ids are ignored")
	assert.Positive(t, created.ID)
}

func TestCreateBandValidation(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	ctx, _ := doJSON(http.MethodPost, "/entities", `{"genre": "Doom"}`)
	err := controller.CreateBand(ctx)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	ctx, _ = doJSON(http.MethodPost, "/entities", `{"name": "Ahab", "rating": 11}`)
	err = controller.CreateBand(ctx)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	ctx, _ = doJSON(http.MethodPost, "/entities", `{"name": "Ahab", "rating": -1}`)
	err = controller.CreateBand(ctx)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestListBandsSortedByCountry(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	seedBand(t, stors, mpmodel.Band{Name: "Mastodon", Country: "USA", Rating: 8.7})
	seedBand(t, stors, mpmodel.Band{Name: "Gojira", Country: "France", Rating: 9.5})
	seedBand(t, stors, mpmodel.Band{Name: "Sabaton", Country: "Sweden", Rating: 7.6})

	ctx, rec := doJSON(http.MethodGet, "/entities?sort=country&order=asc", "")
	require.NoError(t, controller.ListBands(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListBandsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)

	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Gojira", resp.Data[0].Name)
	assert.Equal(t, "Sabaton", resp.Data[1].Name)
	assert.Equal(t, "Mastodon", resp.Data[2].Name)
}

func TestListBandsSearch(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	seedBand(t, stors, mpmodel.Band{Name: "Gojira", Genre: "Progressive Metal", Rating: 9.5})
	seedBand(t, stors, mpmodel.Band{Name: "Alcest", Genre: "Blackgaze", Rating: 8.9})

	ctx, rec := doJSON(http.MethodGet, "/entities?search=blackgaze", "")
	require.NoError(t, controller.ListBands(ctx))

	var resp ListBandsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Alcest", resp.Data[0].Name)
}

func TestCatalogStats(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	seedBand(t, stors, mpmodel.Band{Name: "Gojira", Genre: "Progressive Metal", Country: "France", Rating: 9.0})
	seedBand(t, stors, mpmodel.Band{Name: "Mastodon", Genre: "Progressive Metal", Country: "USA", Rating: 8.0})

	ctx, rec := doJSON(http.MethodGet, "/entities/stats", "")
	require.NoError(t, controller.CatalogStats(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats stor.CatalogStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	require.Len(t, stats.Genres, 1)
	assert.Equal(t, "Progressive Metal", stats.Genres[0].Genre)
	assert.Equal(t, int64(2), stats.Genres[0].Count)
	assert.InDelta(t, 8.5, stats.Genres[0].AverageRating, 0.001)

	assert.Len(t, stats.Countries, 2)
	assert.Empty(t, stats.AlbumYears)
}

func TestUpdateBand(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	band := seedBand(t, stors, mpmodel.Band{Name: "Gojira", Genre: "Progressive Metal", Rating: 9.5})

	ctx, rec := doJSON(http.MethodPut, "/entities/1", `{"rating": 9.9, "slug": "hijacked"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	require.NoError(t, controller.UpdateBand(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated mpmodel.Band
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 9.9, updated.Rating)
	assert.Equal(t, "Gojira", updated.Name)
	assert.Equal(t, "gojira", updated.Slug, "slug is not caller-updatable")
}

func TestUpdateBandErrors(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	band := seedBand(t, stors, mpmodel.Band{Name: "Gojira", Rating: 9.5})

	// Body with no updatable fields.
	ctx, _ := doJSON(http.MethodPut, "/entities/1", `{"slug": "hijacked"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	err := controller.UpdateBand(ctx)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	// Unknown id.
	ctx, _ = doJSON(http.MethodPut, "/entities/9999", `{"rating": 5}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("9999")
	err = controller.UpdateBand(ctx)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))

	// Non-numeric id.
	ctx, _ = doJSON(http.MethodPut, "/entities/abc", `{"rating": 5}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("abc")
	err = controller.UpdateBand(ctx)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestDeleteBand(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	band := seedBand(t, stors, mpmodel.Band{Name: "Gojira", Rating: 9.5})

	ctx, rec := doJSON(http.MethodDelete, "/entities/1", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	require.NoError(t, controller.DeleteBand(ctx))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again is a 404.
	ctx, _ = doJSON(http.MethodDelete, "/entities/1", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	err := controller.DeleteBand(ctx)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestAuthenticatedMutationsAreLogged(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	user, err := stors.UserStor.CreateUser(&mpmodel.User{Email: "fan@example.com", Password: "hashed"})
	require.NoError(t, err)

	ctx, _ := doJSON(http.MethodPost, "/entities", `{"name": "Gojira", "rating": 9.5}`)
	withUser(ctx, *user)
	require.NoError(t, controller.CreateBand(ctx))

	logs, err := stors.UserLogStor.GetLogsForUserSince(user.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, mpmodel.ActionCreate, logs[0].Action)
	assert.Equal(t, "Band", logs[0].Entity)
}

func TestAnonymousRequestsAreNotLogged(t *testing.T) {
	stors := newTestStors(t)
	controller := NewBandController(stors.BandStor, stors.UserLogStor)

	ctx, _ := doJSON(http.MethodPost, "/entities", `{"name": "Gojira", "rating": 9.5}`)
	require.NoError(t, controller.CreateBand(ctx))

	// No user in context means no user log rows at all.
	logs, err := stors.UserLogStor.GetLogsForUserSince(0, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
