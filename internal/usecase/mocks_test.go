package usecase_test

import (
	"context"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByAccount(ctx context.Context, account string) (model.User, error) {
	args := m.Called(ctx, account)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) ListByIDs(ctx context.Context, userIDs []int64) ([]model.User, error) {
	args := m.Called(ctx, userIDs)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) Search(ctx context.Context, q string, limit int) ([]model.User, error) {
	args := m.Called(ctx, q, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

type FriendRepoMock struct{ mock.Mock }

func (m *FriendRepoMock) Create(ctx context.Context, edge model.Friendship) error {
	args := m.Called(ctx, edge)
	return args.Error(0)
}

func (m *FriendRepoMock) Exists(ctx context.Context, userID int64, friendID int64) (bool, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Bool(0), args.Error(1)
}

func (m *FriendRepoMock) ListFriends(ctx context.Context, userID int64) ([]model.User, error) {
	args := m.Called(ctx, userID)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

type GroupRepoMock struct{ mock.Mock }

func (m *GroupRepoMock) FindByID(ctx context.Context, groupID int64) (model.Group, error) {
	args := m.Called(ctx, groupID)
	g, _ := args.Get(0).(model.Group)
	return g, args.Error(1)
}

func (m *GroupRepoMock) ListByParticipant(ctx context.Context, userID int64) ([]model.Group, error) {
	args := m.Called(ctx, userID)
	groups, _ := args.Get(0).([]model.Group)
	return groups, args.Error(1)
}

func (m *GroupRepoMock) Create(ctx context.Context, g model.Group) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *GroupRepoMock) UpdateInfo(ctx context.Context, groupID int64, title string, start time.Time, end time.Time) error {
	args := m.Called(ctx, groupID, title, start, end)
	return args.Error(0)
}

func (m *GroupRepoMock) UpdateStatus(ctx context.Context, groupID int64, status model.GroupStatus) error {
	args := m.Called(ctx, groupID, status)
	return args.Error(0)
}

func (m *GroupRepoMock) Delete(ctx context.Context, groupID int64) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListByGroupID(ctx context.Context, groupID int64) ([]model.Product, error) {
	args := m.Called(ctx, groupID)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *ProductRepoMock) DeleteByGroupID(ctx context.Context, groupID int64) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByGroupAndUser(ctx context.Context, groupID int64, userID int64) (model.Order, error) {
	args := m.Called(ctx, groupID, userID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByGroupID(ctx context.Context, groupID int64) ([]model.Order, error) {
	args := m.Called(ctx, groupID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Touch(ctx context.Context, orderID int64, updatedAt time.Time) error {
	args := m.Called(ctx, orderID, updatedAt)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) DeleteByGroupID(ctx context.Context, groupID int64) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ListByGroupID(ctx context.Context, groupID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, groupID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderItemRepoMock) DeleteByGroupID(ctx context.Context, groupID int64) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *OrderItemRepoMock) UpdateSnapshotByProductID(ctx context.Context, groupID int64, productID int64, name string, price int64) error {
	args := m.Called(ctx, groupID, productID, name, price)
	return args.Error(0)
}

func (m *OrderItemRepoMock) AdoptByName(ctx context.Context, groupID int64, oldName string, productID int64, name string, price int64) error {
	args := m.Called(ctx, groupID, oldName, productID, name, price)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ExistsReference(ctx context.Context, groupID int64, productID int64, name string) (bool, error) {
	args := m.Called(ctx, groupID, productID, name)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in usecase tests")
}

// =====================
// Tx stubs
// =====================

// テストではトランザクションを張らず、同じmockをそのまま渡す
type txReposStub struct {
	users      *UserRepoMock
	friends    *FriendRepoMock
	groups     *GroupRepoMock
	products   *ProductRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	auditLogs  *AuditRepoMock
}

func newTxReposStub() *txReposStub {
	return &txReposStub{
		users:      new(UserRepoMock),
		friends:    new(FriendRepoMock),
		groups:     new(GroupRepoMock),
		products:   new(ProductRepoMock),
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		auditLogs:  new(AuditRepoMock),
	}
}

func (s *txReposStub) Users() repo.UserRepository           { return s.users }
func (s *txReposStub) Friends() repo.FriendRepository       { return s.friends }
func (s *txReposStub) Groups() repo.GroupRepository         { return s.groups }
func (s *txReposStub) Products() repo.ProductRepository     { return s.products }
func (s *txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.orderItems }
func (s *txReposStub) AuditLogs() repo.AuditLogRepository   { return s.auditLogs }

type txManagerStub struct {
	repos *txReposStub
}

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}
