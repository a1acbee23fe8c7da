package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/study-planner-api/internal/config"
	"github.com/yukikurage/study-planner-api/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// Handle owns the store connection and exposes the task repository built on it
type Handle struct {
	Tasks repository.TaskRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection
func (h *Handle) Close(ctx context.Context) error {
	if h.close == nil {
		return nil
	}
	return h.close(ctx)
}

// Open connects to the store selected by cfg.DBDriver, prepares its schema
// or indexes, and returns a Handle.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Handle, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverPostgres, config.DriverMySQL, config.DriverSQLite:
		return openSQL(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(cfg.MongoDatabase).Collection(repository.TaskCollection)
	if err := EnsureMongoIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info().Str("driver", cfg.DBDriver).Str("database", cfg.MongoDatabase).Msg("database connection established")

	return &Handle{
		Tasks: repository.NewMongoTaskRepository(coll),
		close: client.Disconnect,
	}, nil
}

func openSQL(cfg *config.Config, log zerolog.Logger) (*Handle, error) {
	level := logger.Info
	if cfg.GinMode == "release" {
		level = logger.Warn
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("database connection established")

	return &Handle{
		Tasks: repository.NewTaskRepository(db),
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}

func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		return postgres.Open(dsn)
	case config.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return mysql.Open(dsn)
	default:
		return sqlite.Open(cfg.SQLitePath)
	}
}
