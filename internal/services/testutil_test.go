package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/repos"
	"github.com/voxloop/messaging-service/internal/types"
)

// newTestDB opens an in-memory SQLite store with the production schema. The
// pool is pinned to one connection: it keeps the memory database alive for
// the whole test and serializes concurrent writers the way a real store
// would, so the pair_key unique index still decides create races.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(&types.Conversation{}, &types.Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func newTestServices(t *testing.T) (ConversationService, MessageService) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	gdb := newTestDB(t)
	convRepo := repos.NewConversationRepo(gdb, log)
	msgRepo := repos.NewMessageRepo(gdb, log)
	convService := NewConversationService(gdb, log, convRepo, nil)
	msgService := NewMessageService(gdb, log, convService, msgRepo)
	return convService, msgService
}
