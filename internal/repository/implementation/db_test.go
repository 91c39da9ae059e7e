package implementation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/molinerisit/wa-bot-sheets/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bot.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.BotConfig{}, &model.Intent{}, &model.Synonym{}, &model.Category{}, &model.Role{},
		&model.BusinessHour{}, &model.Product{}, &model.PricingRule{}, &model.Conversation{},
		&model.Message{}, &model.RagDocument{}, &model.RagChunk{}, &model.AgendaSlot{}, &model.Reservation{},
	))
	return db
}

// newPostgresDB connects to DB_CONNECTION_STRING or skips the test.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error)
	require.NoError(t, db.AutoMigrate(&model.RagDocument{}, &model.RagChunk{}))
	return db
}
