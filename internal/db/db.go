package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gpulab/gpuboard/internal/chat"
	"github.com/gpulab/gpuboard/internal/detail"
	"github.com/gpulab/gpuboard/internal/gpu"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the row store. The default driver is sqlite (pure Go); mysql
// is available for deployments that already run one.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER=%q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return gdb, nil
}

func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&gpu.Record{}, &detail.CacheEntry{}, &chat.Session{})
}
