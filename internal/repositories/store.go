package repositories

import (
	"context"

	"storefront/internal/models"
	"storefront/pkg/database"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
type Store interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Users() UserRepository
	Carts() CartRepository
	Orders() OrderRepository

	// Atomic runs fn inside a transaction. The Store passed to fn is bound to that
	// transaction; it commits when fn returns nil and rolls back on an error or panic.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store over db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Products() ProductRepository    { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Categories() CategoryRepository { return NewGORMCategoryRepository(s.db) }
func (s *GORMStore) Users() UserRepository          { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Carts() CartRepository          { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository        { return NewGORMOrderRepository(s.db) }

// Atomic implements Store.
func (s *GORMStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}

// Migrate creates the storefront tables.
func Migrate(db *gorm.DB) error {
	return database.Migrate(db,
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
