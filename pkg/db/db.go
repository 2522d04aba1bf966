// Package db opens the local sqlite database backing the invoice collections.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/invoicify/invoicify/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Provide(Open)

// Open opens (and creates if absent) the sqlite database at the configured path.
// The pure-Go driver keeps the binary free of cgo, which matters for a tool
// meant to run on a user's own machine.
func Open(cfg config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(cfg.StoragePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", cfg.StoragePath, err)
	}
	return gdb, nil
}
