// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"testing"

	"storefront/internal/repositories"
	"storefront/pkg/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a migrated in-memory sqlite database private to t.
// The pool holds a single connection, so every statement is serialised.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	logger, _ := test.NewNullLogger()
	db, err := database.Open(database.Config{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewStore returns a Store over a fresh in-memory database.
func NewStore(t testing.TB) (*repositories.GORMStore, *gorm.DB) {
	t.Helper()
	db := NewSQLiteDB(t)
	return repositories.NewGORMStore(db), db
}
