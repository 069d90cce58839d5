package database

import (
	"errors"
	"fmt"
	"time"

	"therapyhub-menus/config"
	"therapyhub-menus/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for the configured database.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql", "":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlserver", "mssql":
		return sqlserver.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewGormLogger routes gorm's SQL log through zap.
func NewGormLogger(zl *zap.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(
		zap.NewStdLog(zl.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

// RouteIndexName is the unique index over non-container menu routes.
const RouteIndexName = "idx_menus_route_unique"

// AutoMigrate creates or updates the menu tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Menu{}, &models.UserType{}, &models.UserTypeMenu{}); err != nil {
		return err
	}
	return ensureRouteIndex(db)
}

// ensureRouteIndex enforces route uniqueness in storage, leaving container routes free to repeat.
// MySQL has no partial indexes, so there the service check is the only guard.
func ensureRouteIndex(db *gorm.DB) error {
	filter := fmt.Sprintf("ON menus (route) WHERE route <> '%s'", models.ContainerRoute)
	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		return db.Exec(fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s %s", RouteIndexName, filter)).Error
	case "sqlserver":
		return db.Exec(fmt.Sprintf("IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = '%s') CREATE UNIQUE INDEX %s %s",
			RouteIndexName, RouteIndexName, filter)).Error
	default:
		return nil
	}
}

// InitDB opens the configured database and migrates it. Seeding runs when enabled.
func InitDB(cfg *config.Config, zl *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGormLogger(zl, level), TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	zl.Info("Database connection successful and migrations complete", zap.String("driver", cfg.DatabaseDriver))

	if cfg.SeedData {
		if err := SeedInitialData(db, zl); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return db, nil
}

// Ping checks the underlying connection.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// SeedInitialData creates the system administrator user type and a starter menu tree granted
// to it. It does nothing once any menu exists.
func SeedInitialData(db *gorm.DB, zl *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Menu{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var admin models.UserType
		err := tx.Where("is_system = ?", true).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			desc := "Administrator with full access"
			admin = models.UserType{Name: "Administrator", Description: &desc, IsActive: true, IsSystem: true, CreatedAt: now}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			zl.Info("Seeded user type", zap.String("name", admin.Name))
		} else if err != nil {
			return err
		}

		order := func(i int) *int { return &i }
		icon := func(s string) *string { return &s }

		dashboard := models.Menu{Title: "Dashboard", Route: "/dashboard", Icon: icon("home"), SortOrder: order(0), IsActive: true, IsSystem: true, CreatedAt: now}
		settings := models.Menu{Title: "Settings", Route: models.ContainerRoute, Icon: icon("settings"), SortOrder: order(1), IsActive: true, IsSystem: true, CreatedAt: now}
		for _, m := range []*models.Menu{&dashboard, &settings} {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}

		children := []models.Menu{
			{Title: "Menus", Route: "/settings/menus", SortOrder: order(0), ParentID: &settings.ID, IsActive: true, IsSystem: true, CreatedAt: now},
			{Title: "User types", Route: "/settings/user-types", SortOrder: order(1), ParentID: &settings.ID, IsActive: true, IsSystem: true, CreatedAt: now},
		}
		if err := tx.Create(&children).Error; err != nil {
			return err
		}

		grants := []models.UserTypeMenu{
			{UserTypeID: admin.ID, MenuID: dashboard.ID, AssignedAt: now},
		}
		for _, c := range children {
			grants = append(grants, models.UserTypeMenu{UserTypeID: admin.ID, MenuID: c.ID, AssignedAt: now})
		}
		if err := tx.Create(&grants).Error; err != nil {
			return err
		}

		zl.Info("Seeded starter menus", zap.Int("menus", 2+len(children)), zap.Uint("user_type_id", admin.ID))
		return nil
	})
}
