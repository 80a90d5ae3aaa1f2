package webapi

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-uuid"
	"github.com/labstack/echo/v4"
	"github.com/orcrobert/mpp/pkg/mpdb"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStors(t *testing.T) *stor.Stors {
	t.Helper()

	id, err := uuid.GenerateUUID()
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", id)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mpdb.RunMigrations(db))

	return stor.NewGormStors(db)
}

// doJSON builds an echo context for a handler-level test and returns it with
// the response recorder.
func doJSON(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T: %v", err, err)

	return he.Code
}

func seedBand(t *testing.T, stors *stor.Stors, band mpmodel.Band) *mpmodel.Band {
	t.Helper()

	created, err := stors.BandStor.CreateBand(&band)
	require.NoError(t, err)

	return created
}

func withUser(ctx echo.Context, user mpmodel.User) echo.Context {
	ctx.Set("User", user)
	return ctx
}
