package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/types"
	"github.com/voxloop/messaging-service/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "messaging_user", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "messaging_password", log)
	postgresName := utils.GetEnv("POSTGRES_DB", "messaging_service", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll creates the two tables and their secondary indexes. The
// unique index on conversation.pair_key is what makes find-or-create safe
// under concurrent writers; it is part of the model tags, so migration on a
// fresh or existing database always ends with the constraint in place.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Conversation{},
		&types.Message{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	if err := s.db.Exec(`
		ALTER TABLE "message"
		ADD CONSTRAINT "fk_message_conversation_id"
		FOREIGN KEY ("conversation_id")
		REFERENCES "conversation"("id")
	`).Error; err != nil {
		s.log.Warn("Could not add fk_message_conversation_id (may already exist)", "error", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
