package http

import (
	"errors"
	"net/http"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server exposes the order engine over HTTP. It translates JSON requests into
// commands and queries and maps domain errors onto HTTP status codes.
type Server struct {
	// Command handlers
	createOrderHandler           commands.CreateOrderCommandHandler
	advanceOrderHandler          commands.AdvanceOrderCommandHandler
	cancelOrderHandler           commands.CancelOrderCommandHandler
	recordDeliveryAttemptHandler commands.RecordDeliveryAttemptCommandHandler
	recordLocationPingHandler    commands.RecordLocationPingCommandHandler
	bulkApplyOrdersHandler       commands.BulkApplyOrdersCommandHandler
	openDisputeHandler           commands.OpenDisputeCommandHandler
	advanceDisputeHandler        commands.AdvanceDisputeCommandHandler
	requestRefundHandler         commands.RequestRefundCommandHandler
	advanceRefundHandler         commands.AdvanceRefundCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	getTrackingHistoryHandler queries.GetTrackingHistoryQueryHandler
	getLatestLocationHandler  queries.GetLatestLocationQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	recordDeliveryAttemptHandler commands.RecordDeliveryAttemptCommandHandler,
	recordLocationPingHandler commands.RecordLocationPingCommandHandler,
	bulkApplyOrdersHandler commands.BulkApplyOrdersCommandHandler,
	openDisputeHandler commands.OpenDisputeCommandHandler,
	advanceDisputeHandler commands.AdvanceDisputeCommandHandler,
	requestRefundHandler commands.RequestRefundCommandHandler,
	advanceRefundHandler commands.AdvanceRefundCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getTrackingHistoryHandler queries.GetTrackingHistoryQueryHandler,
	getLatestLocationHandler queries.GetLatestLocationQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:           createOrderHandler,
		advanceOrderHandler:          advanceOrderHandler,
		cancelOrderHandler:           cancelOrderHandler,
		recordDeliveryAttemptHandler: recordDeliveryAttemptHandler,
		recordLocationPingHandler:    recordLocationPingHandler,
		bulkApplyOrdersHandler:       bulkApplyOrdersHandler,
		openDisputeHandler:           openDisputeHandler,
		advanceDisputeHandler:        advanceDisputeHandler,
		requestRefundHandler:         requestRefundHandler,
		advanceRefundHandler:         advanceRefundHandler,
		getOrderHandler:              getOrderHandler,
		getTrackingHistoryHandler:    getTrackingHistoryHandler,
		getLatestLocationHandler:     getLatestLocationHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/history", s.GetTrackingHistory)
	api.GET("/orders/:id/location", s.GetLatestLocation)
	api.POST("/orders/:id/advance", s.AdvanceOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/delivery-attempts", s.RecordDeliveryAttempt)
	api.POST("/orders/:id/location-pings", s.RecordLocationPing)
	api.POST("/orders/bulk", s.BulkApplyOrders)

	api.POST("/disputes", s.OpenDispute)
	api.POST("/disputes/:id/advance", s.AdvanceDispute)

	api.POST("/refunds", s.RequestRefund)
	api.POST("/refunds/:id/advance", s.AdvanceRefund)
}

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewLineItemRequest is one purchased product line in an order creation request.
type NewLineItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// NewOrderRequest is the body of POST /orders.
type NewOrderRequest struct {
	BuyerRef       string               `json:"buyer_ref"`
	Items          []NewLineItemRequest `json:"items"`
	Tax            decimal.Decimal      `json:"tax"`
	Discount       decimal.Decimal      `json:"discount"`
	CommissionRate decimal.Decimal      `json:"commission_rate"`
	AutoProcess    bool                 `json:"auto_process"`
}

// CreatedResponse carries the server-assigned identity of a new resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request NewOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items := make([]order.LineItem, 0, len(request.Items))
	for _, line := range request.Items {
		productID, err := kernel.UUIDFromString(line.ProductID)
		if err != nil {
			return badRequest(ctx, "Invalid product id: "+line.ProductID)
		}
		item, err := order.NewLineItem(productID, line.Quantity, line.UnitPrice)
		if err != nil {
			return badRequest(ctx, "Invalid line item: "+err.Error())
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		request.BuyerRef,
		items,
		request.Tax,
		request.Discount,
		request.CommissionRate,
		request.AutoProcess,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// AdvanceOrderRequest is the body of POST /orders/:id/advance.
type AdvanceOrderRequest struct {
	Target string `json:"target"`
	Actor  string `json:"actor"`
	Notes  string `json:"notes"`
}

// AdvanceOrder handles POST /api/v1/orders/:id/advance - moves an order one
// workflow step forward.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request AdvanceOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, ok := parseOrderStatus(request.Target)
	if !ok {
		return badRequest(ctx, "Unknown target status: "+request.Target)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, target, request.Actor, request.Notes)
	if err != nil {
		return badRequest(ctx, "Invalid advance request: "+err.Error())
	}

	if handleErr := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrderRequest is the body of POST /orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request CancelOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, request.Reason, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid cancel request: "+err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeliveryAttemptRequest is the body of POST /orders/:id/delivery-attempts.
type DeliveryAttemptRequest struct {
	Status        string   `json:"status"`
	FailureReason string   `json:"failure_reason"`
	EvidenceURIs  []string `json:"evidence_uris"`
	Actor         string   `json:"actor"`
}

// RecordDeliveryAttempt handles POST /api/v1/orders/:id/delivery-attempts.
func (s *Server) RecordDeliveryAttempt(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request DeliveryAttemptRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, ok := parseAttemptStatus(request.Status)
	if !ok {
		return badRequest(ctx, "Unknown attempt status: "+request.Status)
	}

	cmd, err := commands.NewRecordDeliveryAttemptCommand(
		orderID, status, request.FailureReason, request.EvidenceURIs, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid delivery attempt: "+err.Error())
	}

	if handleErr := s.recordDeliveryAttemptHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// LocationPingRequest is the body of POST /orders/:id/location-pings.
type LocationPingRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Actor     string  `json:"actor"`
}

// RecordLocationPing handles POST /api/v1/orders/:id/location-pings.
func (s *Server) RecordLocationPing(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request LocationPingRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(request.Latitude, request.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates: "+err.Error())
	}

	cmd, err := commands.NewRecordLocationPingCommand(orderID, point, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid location ping: "+err.Error())
	}

	if handleErr := s.recordLocationPingHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// BulkApplyRequest is the body of POST /orders/bulk.
type BulkApplyRequest struct {
	OrderIDs []string `json:"order_ids"`
	Action   string   `json:"action"`
	Actor    string   `json:"actor"`
}

// BulkFailureResponse names one order a bulk operation left untouched.
type BulkFailureResponse struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// BulkApplyResponse partitions the requested orders by outcome.
type BulkApplyResponse struct {
	Succeeded []string              `json:"succeeded"`
	Failed    []BulkFailureResponse `json:"failed"`
	Skipped   []string              `json:"skipped"`
}

// BulkApplyOrders handles POST /api/v1/orders/bulk - applies one workflow
// action to a set of orders and reports the per-order outcome.
func (s *Server) BulkApplyOrders(ctx echo.Context) error {
	var request BulkApplyRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	action, ok := parseBulkAction(request.Action)
	if !ok {
		return badRequest(ctx, "Unknown bulk action: "+request.Action)
	}

	orderIDs := make([]kernel.UUID, 0, len(request.OrderIDs))
	for _, raw := range request.OrderIDs {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "Invalid order id: "+raw)
		}
		orderIDs = append(orderIDs, orderID)
	}

	cmd, err := commands.NewBulkApplyOrdersCommand(orderIDs, action, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid bulk request: "+err.Error())
	}

	result, err := s.bulkApplyOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	response := BulkApplyResponse{
		Succeeded: make([]string, 0, len(result.Succeeded)),
		Failed:    make([]BulkFailureResponse, 0, len(result.Failed)),
		Skipped:   make([]string, 0, len(result.Skipped)),
	}
	for _, id := range result.Succeeded {
		response.Succeeded = append(response.Succeeded, id.String())
	}
	for _, failure := range result.Failed {
		response.Failed = append(response.Failed, BulkFailureResponse{
			OrderID: failure.OrderID.String(),
			Reason:  failure.Reason,
		})
	}
	for _, id := range result.Skipped {
		response.Skipped = append(response.Skipped, id.String())
	}

	return ctx.JSON(http.StatusOK, response)
}

// OpenDisputeRequest is the body of POST /disputes.
type OpenDisputeRequest struct {
	OrderID   string `json:"order_id"`
	Complaint string `json:"complaint"`
	Actor     string `json:"actor"`
}

// OpenDispute handles POST /api/v1/disputes - files a dispute against an order.
func (s *Server) OpenDispute(ctx echo.Context) error {
	var request OpenDisputeRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	disputeID := kernel.NewUUID()
	cmd, err := commands.NewOpenDisputeCommand(disputeID, orderID, request.Complaint, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid dispute: "+err.Error())
	}

	if handleErr := s.openDisputeHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: disputeID.String()})
}

// AdvanceDisputeRequest is the body of POST /disputes/:id/advance.
type AdvanceDisputeRequest struct {
	Target     string `json:"target"`
	Resolution string `json:"resolution"`
	Actor      string `json:"actor"`
}

// AdvanceDispute handles POST /api/v1/disputes/:id/advance.
func (s *Server) AdvanceDispute(ctx echo.Context) error {
	disputeID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid dispute id")
	}

	var request AdvanceDisputeRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, ok := parseDisputeStatus(request.Target)
	if !ok {
		return badRequest(ctx, "Unknown dispute status: "+request.Target)
	}

	cmd, err := commands.NewAdvanceDisputeCommand(disputeID, target, request.Resolution, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid advance request: "+err.Error())
	}

	if handleErr := s.advanceDisputeHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RequestRefundRequest is the body of POST /refunds.
type RequestRefundRequest struct {
	OrderID string          `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
	Actor   string          `json:"actor"`
}

// RequestRefund handles POST /api/v1/refunds - opens a refund against an order.
func (s *Server) RequestRefund(ctx echo.Context) error {
	var request RequestRefundRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	refundID := kernel.NewUUID()
	cmd, err := commands.NewRequestRefundCommand(refundID, orderID, request.Amount, request.Reason, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid refund request: "+err.Error())
	}

	if handleErr := s.requestRefundHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: refundID.String()})
}

// AdvanceRefundRequest is the body of POST /refunds/:id/advance.
type AdvanceRefundRequest struct {
	Target string `json:"target"`
	Actor  string `json:"actor"`
}

// AdvanceRefund handles POST /api/v1/refunds/:id/advance.
func (s *Server) AdvanceRefund(ctx echo.Context) error {
	refundID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid refund id")
	}

	var request AdvanceRefundRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, ok := parseRefundStatus(request.Target)
	if !ok {
		return badRequest(ctx, "Unknown refund status: "+request.Target)
	}

	cmd, err := commands.NewAdvanceRefundCommand(refundID, target, request.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid advance request: "+err.Error())
	}

	if handleErr := s.advanceRefundHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeliveryAttemptResponse is one courier visit in an order snapshot.
type DeliveryAttemptResponse struct {
	AttemptNumber int        `json:"attempt_number"`
	Successful    bool       `json:"successful"`
	FailureReason string     `json:"failure_reason,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
}

// OrderResponse is the order snapshot returned by GET /orders/:id.
type OrderResponse struct {
	ID          string                    `json:"id"`
	OrderNumber string                    `json:"order_number"`
	BuyerRef    string                    `json:"buyer_ref"`
	Status      string                    `json:"status"`
	Tax         decimal.Decimal           `json:"tax"`
	Discount    decimal.Decimal           `json:"discount"`
	CreatedAt   time.Time                 `json:"created_at"`
	Latitude    *float64                  `json:"latitude,omitempty"`
	Longitude   *float64                  `json:"longitude,omitempty"`
	Version     int                       `json:"version"`
	Attempts    []DeliveryAttemptResponse `json:"attempts"`
}

// GetOrder handles GET /api/v1/orders/:id - retrieves an order snapshot.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := OrderResponse{
		ID:          snapshot.ID.String(),
		OrderNumber: snapshot.OrderNumber,
		BuyerRef:    snapshot.BuyerRef,
		Status:      snapshot.Status,
		Tax:         snapshot.Tax,
		Discount:    snapshot.Discount,
		CreatedAt:   snapshot.CreatedAt,
		Latitude:    snapshot.Latitude,
		Longitude:   snapshot.Longitude,
		Version:     snapshot.Version,
		Attempts:    make([]DeliveryAttemptResponse, 0, len(snapshot.Attempts)),
	}
	for _, attempt := range snapshot.Attempts {
		response.Attempts = append(response.Attempts, DeliveryAttemptResponse{
			AttemptNumber: attempt.AttemptNumber,
			Successful:    attempt.Successful,
			FailureReason: attempt.FailureReason,
			OccurredAt:    attempt.OccurredAt,
			NextAttemptAt: attempt.NextAttemptAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// TrackingEventResponse is one tracking history entry, newest first.
type TrackingEventResponse struct {
	ID           string    `json:"id"`
	EventType    string    `json:"event_type"`
	Description  string    `json:"description"`
	Actor        string    `json:"actor"`
	InternalOnly bool      `json:"internal_only"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetTrackingHistory handles GET /api/v1/orders/:id/history. The
// include_internal query parameter exposes internal-only events; it is meant
// for operator tooling, buyer-facing clients omit it.
func (s *Server) GetTrackingHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	includeInternal := ctx.QueryParam("include_internal") == "true"

	query, err := queries.NewGetTrackingHistoryQuery(orderID, includeInternal)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	events, err := s.getTrackingHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]TrackingEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, TrackingEventResponse{
			ID:           event.ID.String(),
			EventType:    event.EventType,
			Description:  event.Description,
			Actor:        event.Actor,
			InternalOnly: event.InternalOnly,
			Latitude:     event.Latitude,
			Longitude:    event.Longitude,
			Address:      event.Address,
			CreatedAt:    event.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// LocationResponse is the order's last reported position.
type LocationResponse struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
}

// GetLatestLocation handles GET /api/v1/orders/:id/location - returns the
// position of the newest geo-bearing tracking event, 404 when the ledger has
// none.
func (s *Server) GetLatestLocation(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetLatestLocationQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	location, err := s.getLatestLocationHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}
	if location == nil {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "No location reported for this order",
		})
	}

	return ctx.JSON(http.StatusOK, LocationResponse{
		Latitude:       location.Latitude,
		Longitude:      location.Longitude,
		AccuracyMeters: location.AccuracyMeters,
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps a use case failure onto an HTTP status. Conflicts cover
// both rejected workflow transitions and lost optimistic-concurrency races.
func domainError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrPermissionDenied):
		code = http.StatusForbidden
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, dispute.ErrInvalidTransition),
		errors.Is(err, refund.ErrInvalidTransition),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, refund.ErrExceedsOrderTotal),
		errors.Is(err, order.ErrDeliveryAttemptsExhausted),
		errors.Is(err, ports.ErrInsufficientStock):
		code = http.StatusConflict
	}

	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}

func parseOrderStatus(raw string) (order.Status, bool) {
	candidates := []order.Status{
		order.PendingPayment, order.Paid, order.Processing, order.Shipped,
		order.InTransit, order.Delivered, order.Completed, order.Cancelled,
		order.Returned, order.Refunded,
	}
	for _, candidate := range candidates {
		if candidate.String() == raw {
			return candidate, true
		}
	}
	return order.Unknown, false
}

func parseAttemptStatus(raw string) (order.AttemptStatus, bool) {
	switch raw {
	case order.AttemptSuccessful.String():
		return order.AttemptSuccessful, true
	case order.AttemptFailed.String():
		return order.AttemptFailed, true
	default:
		return order.AttemptUnknown, false
	}
}

func parseDisputeStatus(raw string) (dispute.Status, bool) {
	candidates := []dispute.Status{
		dispute.Open, dispute.Investigating, dispute.Escalated,
		dispute.Resolved, dispute.Closed,
	}
	for _, candidate := range candidates {
		if candidate.String() == raw {
			return candidate, true
		}
	}
	return dispute.Unknown, false
}

func parseRefundStatus(raw string) (refund.Status, bool) {
	candidates := []refund.Status{
		refund.Requested, refund.Approved, refund.Processing,
		refund.Completed, refund.Failed, refund.Cancelled,
	}
	for _, candidate := range candidates {
		if candidate.String() == raw {
			return candidate, true
		}
	}
	return refund.Unknown, false
}

func parseBulkAction(raw string) (commands.BulkAction, bool) {
	candidates := []commands.BulkAction{
		commands.BulkActionMarkPaid, commands.BulkActionMarkProcessing,
		commands.BulkActionMarkShipped, commands.BulkActionMarkInTransit,
		commands.BulkActionMarkDelivered, commands.BulkActionMarkCompleted,
		commands.BulkActionCancel,
	}
	for _, candidate := range candidates {
		if candidate.String() == raw {
			return candidate, true
		}
	}
	return commands.BulkActionUnknown, false
}
