package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory mocks mirroring the repository contracts, including the
// all-or-nothing semantics of CreateWithItems.

type mockUserRepository struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.NewConflict("user", "email")
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return user, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFound("user", 0)
}

func (m *mockUserRepository) Update(ctx context.Context, id int64, patch domain.UserUpdate) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	if patch.IsEmpty() {
		return user, nil
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Phone != nil {
		user.Phone = patch.Phone
	}
	if patch.Address != nil {
		user.Address = patch.Address
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return domain.NewNotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// mockOrderRepository keeps the product table alongside orders so that
// CreateWithItems can reproduce the transactional check-then-decrement.
type mockOrderRepository struct {
	products   map[int64]*domain.Product
	orders     map[int64]*domain.Order
	items      map[int64][]domain.OrderItem
	nextOrder  int64
	nextItem   int64
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		products:  make(map[int64]*domain.Product),
		orders:    make(map[int64]*domain.Order),
		items:     make(map[int64][]domain.OrderItem),
		nextOrder: 1,
		nextItem:  1,
	}
}

func (m *mockOrderRepository) addProduct(id int64, name string, price float64, stock int) {
	m.products[id] = &domain.Product{ID: id, Name: name, Price: price, Stock: stock}
}

func (m *mockOrderRepository) CreateWithItems(ctx context.Context, userID int64, items []domain.OrderItemInput, shippingAddress *string) (*domain.Order, error) {
	// Validation pass in input order, fail-fast, no state touched yet.
	total := 0.0
	for _, item := range items {
		product, ok := m.products[item.ProductID]
		if !ok {
			return nil, domain.NewNotFound("product", item.ProductID)
		}
		if product.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{Product: product.Name}
		}
		total += product.Price * float64(item.Quantity)
	}

	order := &domain.Order{
		ID:              m.nextOrder,
		UserID:          userID,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	m.nextOrder++
	m.orders[order.ID] = order

	for _, item := range items {
		product := m.products[item.ProductID]
		m.items[order.ID] = append(m.items[order.ID], domain.OrderItem{
			ID:        m.nextItem,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			CreatedAt: time.Now(),
		})
		m.nextItem++
		product.Stock -= item.Quantity
	}

	return order, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	return order, nil
}

func (m *mockOrderRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) FindItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderRepository) Update(ctx context.Context, id int64, patch domain.OrderUpdate) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.ShippingAddress != nil {
		order.ShippingAddress = patch.ShippingAddress
	}
	return order, nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return domain.NewNotFound("order", id)
	}
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

func newOrderServiceFixture() (*mockUserRepository, *mockOrderRepository, OrderService) {
	userRepo := newMockUserRepository()
	orderRepo := newMockOrderRepository()
	return userRepo, orderRepo, NewOrderService(orderRepo, userRepo)
}

func addUser(repo *mockUserRepository, name, email string) *domain.User {
	user := &domain.User{Name: name, Email: email, Password: "secret123"}
	_ = repo.Create(context.Background(), user)
	return user
}

func TestCreateOrder_ComputesTotalAndDecrementsStock(t *testing.T) {
	userRepo, orderRepo, svc := newOrderServiceFixture()
	user := addUser(userRepo, "Alice", "alice@example.com")
	orderRepo.addProduct(1, "Laptop", 15000, 10)

	order, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 2},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 30000.0, order.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 8, orderRepo.products[1].Stock)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 15000.0, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestCreateOrder_MultipleItemsTotal(t *testing.T) {
	userRepo, orderRepo, svc := newOrderServiceFixture()
	user := addUser(userRepo, "Bob", "bob@example.com")
	orderRepo.addProduct(1, "Ball", 100, 3)
	orderRepo.addProduct(2, "Bat", 200, 2)

	order, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 700.0, order.TotalAmount)
	assert.Equal(t, 0, orderRepo.products[1].Stock)
	assert.Equal(t, 0, orderRepo.products[2].Stock)
	assert.Len(t, order.Items, 2)
}

func TestCreateOrder_UserNotFound(t *testing.T) {
	_, orderRepo, svc := newOrderServiceFixture()
	orderRepo.addProduct(1, "Laptop", 15000, 10)

	_, err := svc.CreateOrder(context.Background(), 42, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 1},
	}, nil)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, orderRepo.orders)
	assert.Equal(t, 10, orderRepo.products[1].Stock)
}

func TestCreateOrder_ProductNotFound_NoPartialState(t *testing.T) {
	userRepo, orderRepo, svc := newOrderServiceFixture()
	user := addUser(userRepo, "Carol", "carol@example.com")
	orderRepo.addProduct(1, "Ball", 100, 5)

	// The first item is valid; the second references a missing product.
	_, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}, nil)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, orderRepo.orders)
	assert.Equal(t, 5, orderRepo.products[1].Stock)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	userRepo, orderRepo, svc := newOrderServiceFixture()
	user := addUser(userRepo, "Dave", "dave@example.com")
	orderRepo.addProduct(1, "Ball", 100, 5)

	_, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 10},
	}, nil)

	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Ball")
	assert.Empty(t, orderRepo.orders)
	assert.Equal(t, 5, orderRepo.products[1].Stock)
}

func TestCreateOrder_FirstViolationWins(t *testing.T) {
	userRepo, orderRepo, svc := newOrderServiceFixture()
	user := addUser(userRepo, "Eve", "eve@example.com")
	orderRepo.addProduct(1, "Ball", 100, 0)

	// Both items are invalid; the first (insufficient stock) must surface.
	_, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}, nil)

	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err))
}

func TestGetOrderByID_NotFound(t *testing.T) {
	_, _, svc := newOrderServiceFixture()

	_, err := svc.GetOrderByID(context.Background(), 12345)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetOrdersByUserID_UserNotFound(t *testing.T) {
	_, _, svc := newOrderServiceFixture()

	_, err := svc.GetOrdersByUserID(context.Background(), 12345)
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateOrder_AnyStatusReachable(t *testing.T) {
	userRepo, orderRepo, svc := newOrderServiceFixture()
	user := addUser(userRepo, "Frank", "frank@example.com")
	orderRepo.addProduct(1, "Ball", 100, 5)

	order, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
		{ProductID: 1, Quantity: 1},
	}, nil)
	require.NoError(t, err)

	// delivered straight from pending: no transition guard
	status := domain.OrderStatusDelivered
	updated, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, updated.Status)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	_, _, svc := newOrderServiceFixture()

	err := svc.DeleteOrder(context.Background(), 99999)
	assert.True(t, domain.IsNotFound(err))
}

// Property: for every successfully created order, the total equals the sum of
// line item price times quantity over the returned items.
func TestProperty_OrderTotalEqualsItemSum(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total_amount == sum(price * quantity)", prop.ForAll(
		func(prices []float64, quantities []int) bool {
			if len(prices) == 0 {
				return true
			}
			if len(quantities) < len(prices) {
				return true
			}

			userRepo, orderRepo, svc := newOrderServiceFixture()
			user := addUser(userRepo, "Prop", "prop@example.com")

			items := make([]domain.OrderItemInput, len(prices))
			for i, price := range prices {
				id := int64(i + 1)
				qty := quantities[i]
				orderRepo.addProduct(id, "product", price, qty)
				items[i] = domain.OrderItemInput{ProductID: id, Quantity: qty}
			}

			order, err := svc.CreateOrder(context.Background(), user.ID, items, nil)
			if err != nil {
				t.Logf("FAIL: unexpected error: %v", err)
				return false
			}

			sum := 0.0
			for _, item := range order.Items {
				sum += item.Price * float64(item.Quantity)
			}

			return order.TotalAmount == sum
		},
		gen.SliceOfN(5, gen.Float64Range(0, 10000)),
		gen.SliceOfN(5, gen.IntRange(1, 20)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: a successful order of quantity Q against prior stock S leaves the
// product at exactly S-Q.
func TestProperty_StockDecrementedByOrderedQuantity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stock becomes S-Q after ordering Q of stock S", prop.ForAll(
		func(stock int, quantity int) bool {
			userRepo, orderRepo, svc := newOrderServiceFixture()
			user := addUser(userRepo, "Prop", "prop@example.com")
			orderRepo.addProduct(1, "widget", 9.99, stock)

			_, err := svc.CreateOrder(context.Background(), user.ID, []domain.OrderItemInput{
				{ProductID: 1, Quantity: quantity},
			}, nil)

			if quantity > stock {
				// must fail and leave stock unchanged
				return domain.IsInsufficientStock(err) && orderRepo.products[1].Stock == stock
			}

			return err == nil && orderRepo.products[1].Stock == stock-quantity
		},
		gen.IntRange(0, 100),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
