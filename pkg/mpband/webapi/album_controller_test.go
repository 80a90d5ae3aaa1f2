package webapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAlbum(t *testing.T) {
	stors := newTestStors(t)
	controller := NewAlbumController(stors.AlbumStor, stors.UserLogStor)

	band := seedBand(t, stors, mpmodel.Band{Name: "Gojira", Rating: 9.5})

	ctx, rec := doJSON(http.MethodPost, "/bands/1/albums",
		`{"name": "From Mars to Sirius", "release_year": 2005, "rating": 9.8}`)
	ctx.SetParamNames("bandId")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	require.NoError(t, controller.CreateAlbum(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created mpmodel.Album
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, band.ID, created.BandID)
	assert.Equal(t, 2005, created.ReleaseYear)
	assert.Positive(t, created.ID)
}

func TestCreateAlbumForMissingBand(t *testing.T) {
	stors := newTestStors(t)
	controller := NewAlbumController(stors.AlbumStor, stors.UserLogStor)

	ctx, _ := doJSON(http.MethodPost, "/bands/9999/albums", `{"name": "Orphan Album"}`)
	ctx.SetParamNames("bandId")
	ctx.SetParamValues("9999")
	err := controller.CreateAlbum(ctx)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestCreateAlbumValidation(t *testing.T) {
	stors := newTestStors(t)
	controller := NewAlbumController(stors.AlbumStor, stors.UserLogStor)

	band := seedBand(t, stors, mpmodel.Band{Name: "Gojira", Rating: 9.5})

	ctx, _ := doJSON(http.MethodPost, "/bands/1/albums", `{"rating": 5}`)
	ctx.SetParamNames("bandId")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	err := controller.CreateAlbum(ctx)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestListAlbums(t *testing.T) {
	stors := newTestStors(t)
	controller := NewAlbumController(stors.AlbumStor, stors.UserLogStor)

	band := seedBand(t, stors, mpmodel.Band{Name: "Gojira", Rating: 9.5})

	for i, name := range []string{"Terra Incognita", "The Link", "From Mars to Sirius"} {
		_, err := stors.AlbumStor.CreateAlbum(&mpmodel.Album{
			Name:   name,
			BandID: band.ID,
			Rating: float64(7 + i),
		})
		require.NoError(t, err)
	}

	ctx, rec := doJSON(http.MethodGet, "/bands/1/albums", "")
	ctx.SetParamNames("bandId")
	ctx.SetParamValues(strconv.Itoa(band.ID))
	require.NoError(t, controller.ListAlbums(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListAlbumsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "From Mars to Sirius", resp.Data[0].Name, "highest rated first")
}
