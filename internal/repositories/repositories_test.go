package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	store *repositories.GORMStore
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store, _ = testutil.NewStore(s.T())
}

func (s *RepositorySuite) createProduct(name, brand, price string, createdAt time.Time) *models.Product {
	p := &models.Product{
		Name:      name,
		Brand:     brand,
		Price:     decimal.RequireFromString(price),
		CreatedAt: createdAt,
	}
	s.Require().NoError(s.store.Products().Create(s.ctx, p))
	return p
}

func (s *RepositorySuite) TestCart_AddItemMergesSameVariant() {
	p := s.createProduct("Linen Shirt", "Acme", "20.00", time.Now())
	carts := s.store.Carts()

	first, err := carts.AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: p.ID, Size: "M", Quantity: 2})
	s.Require().NoError(err)
	s.Equal(2, first.Quantity)

	merged, err := carts.AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: p.ID, Size: "M", Quantity: 3})
	s.Require().NoError(err)
	s.Equal(5, merged.Quantity)
	s.Equal(first.ID, merged.ID)

	_, err = carts.AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: p.ID, Size: "L", Quantity: 1})
	s.Require().NoError(err)

	items, err := carts.ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(items, 2)
	for _, it := range items {
		s.Require().NotNil(it.Product)
		s.Equal("Linen Shirt", it.Product.Name)
	}
}

func (s *RepositorySuite) TestCart_UpdateAndRemoveMissingRow() {
	key := models.CartKey{UserID: "u1", ProductID: "nope"}

	_, err := s.store.Carts().UpdateQuantity(s.ctx, key, 4)
	s.ErrorIs(err, repositories.ErrNotFound)

	err = s.store.Carts().RemoveItem(s.ctx, key)
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *RepositorySuite) TestCart_UpdateQuantity() {
	p := s.createProduct("Scarf", "Acme", "9.50", time.Now())
	item, err := s.store.Carts().AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: p.ID, Color: "red", Quantity: 1})
	s.Require().NoError(err)

	updated, err := s.store.Carts().UpdateQuantity(s.ctx, item.Key(), 7)
	s.Require().NoError(err)
	s.Equal(7, updated.Quantity)

	s.Require().NoError(s.store.Carts().RemoveItem(s.ctx, item.Key()))
	items, err := s.store.Carts().ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *RepositorySuite) TestCart_LockForCheckoutLoadsLiveProducts() {
	live := s.createProduct("Boots", "Acme", "80.00", time.Now())
	gone := s.createProduct("Sandals", "Acme", "30.00", time.Now())

	_, err := s.store.Carts().AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: live.ID, Quantity: 1})
	s.Require().NoError(err)
	_, err = s.store.Carts().AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: gone.ID, Quantity: 1})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Products().Delete(s.ctx, gone.ID))

	err = s.store.Atomic(s.ctx, func(tx repositories.Store) error {
		items, err := tx.Carts().LockForCheckout(s.ctx, "u1")
		s.Require().NoError(err)
		s.Require().Len(items, 2)
		s.Require().NotNil(items[0].Product)
		s.Equal(live.ID, items[0].Product.ID)
		s.Nil(items[1].Product)
		return nil
	})
	s.NoError(err)
}

func (s *RepositorySuite) TestCart_DeleteByIDsKeepsOtherRows() {
	a := s.createProduct("Hat", "Acme", "5.00", time.Now())
	b := s.createProduct("Belt", "Acme", "6.00", time.Now())
	first, err := s.store.Carts().AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: a.ID, Quantity: 1})
	s.Require().NoError(err)
	_, err = s.store.Carts().AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: b.ID, Quantity: 1})
	s.Require().NoError(err)

	s.Require().NoError(s.store.Carts().DeleteByIDs(s.ctx, "u1", []uint{first.ID}))

	items, err := s.store.Carts().ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(b.ID, items[0].ProductID)
}

func (s *RepositorySuite) TestAtomic_RollsBackOnError() {
	p := s.createProduct("Gloves", "Acme", "12.00", time.Now())
	boom := errors.New("boom")

	err := s.store.Atomic(s.ctx, func(tx repositories.Store) error {
		_, err := tx.Carts().AddItem(s.ctx, &models.CartItem{UserID: "u1", ProductID: p.ID, Quantity: 1})
		s.Require().NoError(err)
		return boom
	})
	s.ErrorIs(err, boom)

	items, err := s.store.Carts().ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *RepositorySuite) TestProducts_ListFilters() {
	base := time.Now().Add(-time.Hour)
	shoes, err := s.store.Categories().Ensure(s.ctx, "Shoes")
	s.Require().NoError(err)

	runner := &models.Product{Name: "Trail Runner", Brand: "Stride", Price: decimal.RequireFromString("120.00"), Rating: 4.5, CategoryID: &shoes.ID, CreatedAt: base}
	s.Require().NoError(s.store.Products().Create(s.ctx, runner))
	loafer := &models.Product{Name: "Loafer", Brand: "Heritage", Description: "leather slip-on", Price: decimal.RequireFromString("75.00"), Rating: 3.9, CategoryID: &shoes.ID, CreatedAt: base.Add(time.Minute)}
	s.Require().NoError(s.store.Products().Create(s.ctx, loafer))
	mug := s.createProduct("Coffee Mug", "Heritage", "8.00", base.Add(2*time.Minute))

	names := func(ps []models.Product) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}
	str := func(v string) *string { return &v }
	dec := func(v string) *decimal.Decimal { d := decimal.RequireFromString(v); return &d }

	all, err := s.store.Products().List(s.ctx, repositories.ProductFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"Coffee Mug", "Loafer", "Trail Runner"}, names(all))

	byCategory, err := s.store.Products().List(s.ctx, repositories.ProductFilter{Category: str("shoe")})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Loafer", "Trail Runner"}, names(byCategory))
	s.Require().NotNil(byCategory[0].Category)
	s.Equal("Shoes", byCategory[0].Category.Name)

	search, err := s.store.Products().List(s.ctx, repositories.ProductFilter{Search: str("LEATHER")})
	s.Require().NoError(err)
	s.Equal([]string{"Loafer"}, names(search))

	brand, err := s.store.Products().List(s.ctx, repositories.ProductFilter{Brand: str("heritage"), SortBy: repositories.SortPriceAsc})
	s.Require().NoError(err)
	s.Equal([]string{"Coffee Mug", "Loafer"}, names(brand))

	priced, err := s.store.Products().List(s.ctx, repositories.ProductFilter{MinPrice: dec("10"), MaxPrice: dec("100")})
	s.Require().NoError(err)
	s.Equal([]string{"Loafer"}, names(priced))

	rated, err := s.store.Products().List(s.ctx, repositories.ProductFilter{SortBy: repositories.SortRating})
	s.Require().NoError(err)
	s.Equal("Trail Runner", rated[0].Name)

	s.Require().NoError(s.store.Products().Delete(s.ctx, mug.ID))
	remaining, err := s.store.Products().List(s.ctx, repositories.ProductFilter{SortBy: repositories.SortPriceDesc})
	s.Require().NoError(err)
	s.Equal([]string{"Trail Runner", "Loafer"}, names(remaining))

	_, err = s.store.Products().GetByID(s.ctx, mug.ID)
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *RepositorySuite) TestProducts_UpdateAndDeleteMissing() {
	p := s.createProduct("Wallet", "Acme", "25.00", time.Now())
	p.Price = decimal.RequireFromString("27.50")
	p.IsFeatured = true
	s.Require().NoError(s.store.Products().Update(s.ctx, p))

	got, err := s.store.Products().GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("27.50", got.Price.StringFixed(2))

	featured, err := s.store.Products().ListFeatured(s.ctx)
	s.Require().NoError(err)
	s.Len(featured, 1)

	err = s.store.Products().Update(s.ctx, &models.Product{ID: "missing", Name: "x"})
	s.ErrorIs(err, repositories.ErrNotFound)
	err = s.store.Products().Delete(s.ctx, "missing")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *RepositorySuite) TestCategories_EnsureIsIdempotent() {
	first, err := s.store.Categories().Ensure(s.ctx, "Bags")
	s.Require().NoError(err)
	again, err := s.store.Categories().Ensure(s.ctx, "Bags")
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)

	all, err := s.store.Categories().List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *RepositorySuite) TestUsers_DuplicateEmail() {
	users := s.store.Users()
	s.Require().NoError(users.Create(s.ctx, &models.User{Email: "Ann@Example.com", Password: "hash"}))

	err := users.Create(s.ctx, &models.User{Email: "ann@example.com", Password: "hash"})
	s.ErrorIs(err, repositories.ErrDuplicate)

	got, err := users.GetByEmail(s.ctx, "ANN@example.com")
	s.Require().NoError(err)
	s.Equal("ann@example.com", got.Email)

	_, err = users.GetByID(s.ctx, "missing")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *RepositorySuite) TestOrders_CreateListAndConditionalUpdate() {
	orders := s.store.Orders()
	older := &models.Order{UserID: "u1", TotalAmount: decimal.RequireFromString("10.00"), Status: models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted, PaymentMethod: models.PaymentMethodPayPal, ShippingAddress: "1 Main St",
		CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Order{UserID: "u1", TotalAmount: decimal.RequireFromString("3.00"), Status: models.OrderStatusShipped,
		PaymentStatus: models.PaymentStatusCompleted, PaymentMethod: models.PaymentMethodUPIQR, ShippingAddress: "1 Main St",
		CreatedAt: time.Now()}
	s.Require().NoError(orders.Create(s.ctx, older))
	s.Require().NoError(orders.Create(s.ctx, newer))
	s.Require().NoError(orders.AddItems(s.ctx, older.ID, []models.OrderItem{
		{ProductID: "b", ProductName: "B", Quantity: 1, Price: decimal.RequireFromString("4.00")},
		{ProductID: "a", ProductName: "A", Quantity: 2, Price: decimal.RequireFromString("3.00")},
	}))

	got, err := orders.GetByID(s.ctx, older.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 2)
	s.Equal("b", got.Items[0].ProductID)
	s.Equal("a", got.Items[1].ProductID)

	list, err := orders.ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)

	none, err := orders.ListByUser(s.ctx, "u2")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	changed, err := orders.UpdateStatus(s.ctx, newer.ID, models.CancellableStatuses, models.OrderStatusCancelled)
	s.Require().NoError(err)
	s.False(changed)

	changed, err = orders.UpdateStatus(s.ctx, older.ID, models.CancellableStatuses, models.OrderStatusCancelled)
	s.Require().NoError(err)
	s.True(changed)

	_, err = orders.GetByID(s.ctx, "missing")
	s.ErrorIs(err, repositories.ErrNotFound)
}
