package stor

import (
	"fmt"
	"testing"

	"github.com/hashicorp/go-uuid"
	"github.com/orcrobert/mpp/pkg/mpdb"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database for one test. Each test gets
// its own DSN so state never leaks between them.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id, err := uuid.GenerateUUID()
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", id)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, mpdb.RunMigrations(db))

	return db
}
