package database

import (
	"errors"
	"fmt"
	"time"

	"clinic/config"
	"clinic/models"
	"clinic/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// Models возвращает все модели, которыми управляет приложение
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Doctor{},
		&models.Service{},
		&models.Patient{},
		&models.Appointment{},
		&models.Exam{},
		&models.Transaction{},
		&models.DoctorPayout{},
		&models.InventoryItem{},
	}
}

// gormWriter направляет сообщения gorm в zerolog на уровне warn
type gormWriter struct {
	log *zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}

// NewDatabase устанавливает соединение с базой данных и приводит схему к актуальной версии.
// Для postgres применяются SQL миграции, для sqlite используется AutoMigrate.
func NewDatabase(cfg *config.Config) (*Database, error) {
	newLogger := logger.New(
		gormWriter{log: utils.WithComponent("gorm")},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	default:
		dialector = postgres.Open(postgresDSN(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Настраиваем пул соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений: %w", err)
	}

	if cfg.DB.Driver == "sqlite" {
		// sqlite не допускает параллельных писателей
		sqlDB.SetMaxOpenConns(1)
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		return &Database{DB: db}, nil
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := RunMigrations(cfg); err != nil {
		return nil, fmt.Errorf("ошибка выполнения SQL миграций: %w", err)
	}

	return &Database{DB: db}, nil
}

// GetDB возвращает экземпляр GORM
func (d *Database) GetDB() *gorm.DB {
	return d.DB
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// postgresDSN формирует строку подключения для gorm
func postgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.DBName,
	)
}

// migrationURL формирует URL базы данных для golang-migrate
func migrationURL(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.DBName,
	)
}

// newMigrate создает экземпляр миграции
func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("SQL миграции поддерживаются только для postgres, текущий драйвер: %s", cfg.DB.Driver)
	}
	m, err := migrate.New("file://"+cfg.DB.MigrationsPath, migrationURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания миграции: %w", err)
	}
	return m, nil
}

// RunMigrations применяет все SQL миграции
func RunMigrations(cfg *config.Config) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	return nil
}

// RollbackMigrations откатывает указанное число миграций
func RollbackMigrations(cfg *config.Config, steps int) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка отката миграций: %w", err)
	}
	return nil
}

// MigrationVersion возвращает текущую версию схемы
func MigrationVersion(cfg *config.Config) (uint, bool, error) {
	m, err := newMigrate(cfg)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// AutoMigrate выполняет автоматическую миграцию моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("ошибка автоматической миграции: %w", err)
	}
	return nil
}
