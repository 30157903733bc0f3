package db

import (
	"context"
	"fmt"

	"socialbook/config"
	"socialbook/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Manager держит соединение ORM; чтение может уходить на реплики
type Manager struct {
	orm *gorm.DB
}

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

func Connect(conf *config.ConfigSchema) (*Manager, error) {
	if conf == nil {
		return nil, fmt.Errorf("config is not loaded")
	}
	gormConf := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	var (
		orm *gorm.DB
		err error
	)
	switch conf.Databases.Driver {
	case DriverSQLite, "":
		if conf.Databases.Path == "" {
			return nil, fmt.Errorf("sqlite database path is missing")
		}
		orm, err = gorm.Open(sqlite.Open(conf.Databases.Path), gormConf)
		if err != nil {
			return nil, err
		}
		// sqlite допускает одного писателя
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	case DriverPostgres:
		if conf.Databases.Master.Host == "" {
			return nil, fmt.Errorf("master database configuration is missing")
		}
		orm, err = gorm.Open(postgres.Open(dsnFromConfig(conf.Databases.Master)), gormConf)
		if err != nil {
			return nil, err
		}
		// Init replicas
		replicas := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
		for _, r := range conf.Databases.Replicas {
			replicas = append(replicas, postgres.Open(dsnFromConfig(r)))
		}
		if len(replicas) > 0 {
			err = orm.Use(dbresolver.Register(dbresolver.Config{
				Replicas: replicas,
				Policy:   dbresolver.RandomPolicy{},
			}))
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Databases.Driver)
	}

	if err = Migrate(orm); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	logger.Info("database ready",
		zap.String("driver", orm.Dialector.Name()),
		zap.Int("replicas", len(conf.Databases.Replicas)))
	return &Manager{orm: orm}, nil
}

// Wrap is used by tests that open their own gorm handle.
func Wrap(orm *gorm.DB) *Manager {
	return &Manager{orm: orm}
}

// Read возвращает подключение для чтения (реплики, если настроены)
func (m *Manager) Read(ctx context.Context) *gorm.DB {
	return m.orm.WithContext(ctx).Clauses(dbresolver.Read)
}

// Write возвращает подключение для записи (мастер)
func (m *Manager) Write(ctx context.Context) *gorm.DB {
	return m.orm.WithContext(ctx).Clauses(dbresolver.Write)
}

func (m *Manager) Close() error {
	sqlDB, err := m.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
