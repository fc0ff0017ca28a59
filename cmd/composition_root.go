package cmd

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/adapters/out/authz"
	"orderflow/internal/adapters/out/geo"
	"orderflow/internal/adapters/out/inventory"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/payment"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"gorm.io/gorm"
)

const (
	defaultBulkWorkerLimit       = 8
	defaultPaymentTimeoutMinutes = 30
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	logger     *slog.Logger
	inventory  ports.InventoryReservation
	notifier   ports.Notifier
	gateway    ports.PaymentGateway
	geocoder   ports.Geocoder
	authorizer ports.Authorizer

	bulkWorkerLimit int
	paymentTimeout  time.Duration
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	return CompositionRoot{
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:          logger,
		inventory:       inventory.NewGormInventory(gormDB),
		notifier:        notify.NewSlogNotifier(logger),
		gateway:         payment.NewLoggingGateway(logger),
		geocoder:        geo.NewFormattingGeocoder(),
		authorizer:      authz.NewStaticAuthorizer(splitActors(config.AdminActors)),
		bulkWorkerLimit: intOrDefault(config.BulkWorkerLimit, defaultBulkWorkerLimit),
		paymentTimeout: time.Duration(
			intOrDefault(config.PaymentTimeoutMinutes, defaultPaymentTimeoutMinutes)) * time.Minute,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) disputeUoWFactory() commands.DisputeUoWFactory {
	return FuncDisputeUoWFactory(func() commands.DisputeUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) refundUoWFactory() commands.RefundUoWFactory {
	return FuncRefundUoWFactory(func() commands.RefundUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.inventory)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.gateway, c.notifier)
}

func (c *CompositionRoot) CreateRecordDeliveryAttemptCommandHandler() commands.RecordDeliveryAttemptCommandHandler {
	return commands.NewRecordDeliveryAttemptCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateRecordLocationPingCommandHandler() commands.RecordLocationPingCommandHandler {
	return commands.NewRecordLocationPingCommandHandler(c.orderUoWFactory(), c.geocoder)
}

func (c *CompositionRoot) CreateBulkApplyOrdersCommandHandler() commands.BulkApplyOrdersCommandHandler {
	return commands.NewBulkApplyOrdersCommandHandler(c.orderUoWFactory(), c.authorizer, c.gateway, c.bulkWorkerLimit)
}

func (c *CompositionRoot) CreateOpenDisputeCommandHandler() commands.OpenDisputeCommandHandler {
	return commands.NewOpenDisputeCommandHandler(c.disputeUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceDisputeCommandHandler() commands.AdvanceDisputeCommandHandler {
	return commands.NewAdvanceDisputeCommandHandler(c.disputeUoWFactory())
}

func (c *CompositionRoot) CreateRequestRefundCommandHandler() commands.RequestRefundCommandHandler {
	return commands.NewRequestRefundCommandHandler(c.refundUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceRefundCommandHandler() commands.AdvanceRefundCommandHandler {
	return commands.NewAdvanceRefundCommandHandler(c.refundUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingHistoryQueryHandler() queries.GetTrackingHistoryQueryHandler {
	return queries.NewGetTrackingHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLatestLocationQueryHandler() queries.GetLatestLocationQueryHandler {
	return queries.NewGetLatestLocationQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStalePendingPaymentQueryHandler() queries.GetStalePendingPaymentQueryHandler {
	return queries.NewGetStalePendingPaymentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRefundsInStatusQueryHandler() queries.GetRefundsInStatusQueryHandler {
	return queries.NewGetRefundsInStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetStalePendingPaymentQueryHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetRefundsInStatusQueryHandler(),
		c.CreateAdvanceRefundCommandHandler(),
		c.paymentTimeout,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDisputeUoWFactory func() commands.DisputeUoW

func (f FuncDisputeUoWFactory) Create() commands.DisputeUoW {
	return f()
}

type FuncRefundUoWFactory func() commands.RefundUoW

func (f FuncRefundUoWFactory) Create() commands.RefundUoW {
	return f()
}

func intOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func splitActors(raw string) []string {
	parts := strings.Split(raw, ",")
	actors := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			actors = append(actors, trimmed)
		}
	}
	return actors
}
