package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.DeliveryAttemptDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items, delivery_attempts").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.assertItemCount(len(testOrder.Items()))
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTrip() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), restored.ID())
	suite.Equal(testOrder.OrderNumber(), restored.OrderNumber())
	suite.Equal(testOrder.BuyerRef(), restored.BuyerRef())
	suite.Equal(testOrder.Status(), restored.Status())
	suite.Equal(1, restored.Version())

	suite.Require().Len(restored.Items(), 2)
	suite.True(testOrder.Subtotal().Equal(restored.Subtotal()))
	suite.True(testOrder.Commission().Equal(restored.Commission()))
	suite.True(testOrder.VendorPayout().Equal(restored.VendorPayout()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersion() {
	ctx := context.Background()
	now := time.Now()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	changed, err := testOrder.Advance(order.Paid, now)
	suite.Require().NoError(err)
	suite.Require().True(changed)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Paid, restored.Status())
	suite.NotNil(restored.Timestamps().PaidAt)
	suite.Equal(2, restored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsLocationAccuracy() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	point, err := kernel.NewGeoPointWithAccuracy(4.60971, -74.08175, 25.0)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.SetCurrentLocation(point))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(restored.CurrentLocation())
	suite.InDelta(4.60971, restored.CurrentLocation().Latitude(), 1e-9)
	suite.InDelta(-74.08175, restored.CurrentLocation().Longitude(), 1e-9)
	suite.InDelta(25.0, restored.CurrentLocation().AccuracyMeters(), 1e-9,
		"Accuracy must survive the round trip")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_Conflict() {
	ctx := context.Background()
	now := time.Now()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Two readers load version 1.
	winner, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	loser, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	_, err = winner.Advance(order.Paid, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, winner))

	_, err = loser.Advance(order.Cancelled, now)
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, loser)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Paid, restored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsDeliveryAttempts() {
	ctx := context.Background()
	now := time.Now()

	testOrder := suite.createTestOrder()
	for _, status := range []order.Status{order.Paid, order.Processing, order.Shipped, order.InTransit} {
		_, err := testOrder.Advance(status, now)
		suite.Require().NoError(err)
	}

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	_, err := testOrder.RecordDeliveryAttempt(order.AttemptFailed, "address not found", nil, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	attempts := restored.DeliveryAttempts()
	suite.Require().Len(attempts, 1)
	suite.Equal(1, attempts[0].AttemptNumber())
	suite.Equal(order.AttemptFailed, attempts[0].Status())
	suite.Equal("address not found", attempts[0].FailureReason())
	suite.NotNil(attempts[0].NextAttemptAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus() {
	ctx := context.Background()
	now := time.Now()

	pending := suite.createTestOrder()
	paid := suite.createTestOrder()
	_, err := paid.Advance(order.Paid, now)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, pending))
	suite.Require().NoError(suite.repository.Add(ctx, paid))

	found, err := suite.repository.GetAllInStatus(ctx, order.Paid)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(paid.ID(), found[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetStalePendingPayment() {
	ctx := context.Background()
	now := time.Now()

	stale := suite.createTestOrderAt(now.Add(-2 * time.Hour))
	fresh := suite.createTestOrderAt(now.Add(-10 * time.Minute))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, stale))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	found, err := suite.repository.GetStalePendingPayment(ctx, now.Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(stale.ID(), found[0].ID())
}

// createTestOrder creates a valid two-item order in PendingPayment.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	return suite.createTestOrderAt(time.Now())
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderAt(createdAt time.Time) *order.Order {
	first, err := order.NewLineItem(kernel.NewUUID(), 1, decimal.NewFromInt(80000))
	suite.Require().NoError(err)
	second, err := order.NewLineItem(kernel.NewUUID(), 3, decimal.NewFromInt(12500))
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(createdAt),
		"buyer-42",
		[]order.LineItem{first, second},
		decimal.NewFromInt(22325),
		decimal.NewFromInt(5000),
		decimal.NewFromFloat(0.12),
		createdAt,
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *OrderRepositoryIntegrationTestSuite) assertItemCount(expected int) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderItemDTO{}).Count(&count).Error)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
