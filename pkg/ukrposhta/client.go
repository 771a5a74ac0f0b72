// Package ukrposhta provides a typed client for the Ukrposhta
// international shipping REST APIs (status-tracking, e-commerce, forms).
package ukrposhta

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxTrackBatch is the carrier's documented cap on barcodes per bulk
// tracking call. Longer inputs are truncated, not rejected.
const maxTrackBatch = 50

// Config holds Ukrposhta client configuration.
type Config struct {
	BaseURL           string
	BearerTracking    string
	BearerEcom        string
	CounterpartyUUID  string
	CounterpartyToken string
	Timeout           time.Duration
	UseMock           bool // when true, uses the in-memory mock API
}

// Client is the Ukrposhta carrier client. It delegates to the underlying
// API implementation (mock or HTTP) and adds logging.
type Client struct {
	config Config
	api    API
	logger *otelzap.Logger
	tracer trace.Tracer
}

// New creates a new Ukrposhta client.
// If cfg.UseMock is true, it uses the in-memory mock API.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var api API
	if cfg.UseMock {
		api = NewMockAPI()
	} else {
		api = NewHTTPAPI(HTTPAPIConfig{
			BaseURL:           cfg.BaseURL,
			BearerTracking:    cfg.BearerTracking,
			BearerEcom:        cfg.BearerEcom,
			CounterpartyUUID:  cfg.CounterpartyUUID,
			CounterpartyToken: cfg.CounterpartyToken,
			Timeout:           cfg.Timeout,
		})
	}

	return &Client{
		config: cfg,
		api:    api,
		logger: logger,
		tracer: tracer,
	}
}

// NewWithAPI creates a new Ukrposhta client with a custom API
// implementation. This is useful for injecting mocks in tests.
func NewWithAPI(cfg Config, api API, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config: cfg,
		api:    api,
		logger: logger,
		tracer: tracer,
	}
}

// TrackStatus returns the ordered event history of a single barcode.
func (c *Client) TrackStatus(ctx context.Context, barcode string) ([]StatusEvent, error) {
	events, err := c.api.TrackStatuses(ctx, []string{barcode})
	if err != nil {
		c.logger.Ctx(ctx).Error("Tracking lookup failed",
			zap.String("barcode", barcode), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// TrackStatuses returns events for up to maxTrackBatch barcodes.
// Inputs beyond the cap are silently truncated per the carrier's limit.
func (c *Client) TrackStatuses(ctx context.Context, barcodes []string) ([]StatusEvent, error) {
	if len(barcodes) > maxTrackBatch {
		c.logger.Ctx(ctx).Warn("Truncating tracking batch",
			zap.Int("requested", len(barcodes)), zap.Int("max", maxTrackBatch))
		barcodes = barcodes[:maxTrackBatch]
	}

	events, err := c.api.TrackStatuses(ctx, barcodes)
	if err != nil {
		c.logger.Ctx(ctx).Error("Bulk tracking lookup failed",
			zap.Int("barcodes", len(barcodes)), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// CreateAddress registers an address with the carrier.
func (c *Client) CreateAddress(ctx context.Context, req *AddressRequest) (*AddressRef, error) {
	ref, err := c.api.CreateAddress(ctx, req)
	if err != nil {
		c.logger.Ctx(ctx).Error("Address creation failed",
			zap.String("country", req.Country), zap.String("city", req.City), zap.Error(err))
		return nil, err
	}
	c.logger.Ctx(ctx).Info("Created address",
		zap.Int64("address_id", ref.ID), zap.String("country", req.Country))
	return ref, nil
}

// CreateClient registers a client party with the carrier.
func (c *Client) CreateClient(ctx context.Context, req *ClientRequest) (*ClientRef, error) {
	ref, err := c.api.CreateClient(ctx, req)
	if err != nil {
		c.logger.Ctx(ctx).Error("Client creation failed",
			zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	c.logger.Ctx(ctx).Info("Created client", zap.String("client_uuid", ref.UUID))
	return ref, nil
}

// UpdateClient updates a client record.
func (c *Client) UpdateClient(ctx context.Context, clientUUID string, req *ClientRequest) (*ClientRef, error) {
	ref, err := c.api.UpdateClient(ctx, clientUUID, req)
	if err != nil {
		c.logger.Ctx(ctx).Error("Client update failed",
			zap.String("client_uuid", clientUUID), zap.Error(err))
		return nil, err
	}
	return ref, nil
}

// GetClient fetches a client record by UUID.
func (c *Client) GetClient(ctx context.Context, clientUUID string) (*ClientRef, error) {
	return c.api.GetClient(ctx, clientUUID)
}

// CreateShipment creates an international shipment.
func (c *Client) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentRef, error) {
	ref, err := c.api.CreateShipment(ctx, req)
	if err != nil {
		c.logger.Ctx(ctx).Error("Shipment creation failed",
			zap.String("package_type", req.PackageType), zap.Error(err))
		return nil, err
	}
	c.logger.Ctx(ctx).Info("Created shipment",
		zap.String("shipment_uuid", ref.UUID),
		zap.String("barcode", ref.Barcode),
		zap.String("status", ref.Status))
	return ref, nil
}

// GetShipment fetches a shipment record by UUID.
func (c *Client) GetShipment(ctx context.Context, shipmentUUID string) (*ShipmentRef, error) {
	return c.api.GetShipment(ctx, shipmentUUID)
}

// DeleteShipment deletes a shipment. Returns ErrNotDeletable when the
// carrier reports the shipment is past the deletable state.
func (c *Client) DeleteShipment(ctx context.Context, shipmentUUID string) error {
	if err := c.api.DeleteShipment(ctx, shipmentUUID); err != nil {
		c.logger.Ctx(ctx).Error("Shipment deletion failed",
			zap.String("shipment_uuid", shipmentUUID), zap.Error(err))
		return err
	}
	c.logger.Ctx(ctx).Info("Deleted shipment", zap.String("shipment_uuid", shipmentUUID))
	return nil
}

// CreateShipmentGroup creates a dispatch group.
func (c *Client) CreateShipmentGroup(ctx context.Context, name string) (*GroupRef, error) {
	ref, err := c.api.CreateShipmentGroup(ctx, name)
	if err != nil {
		c.logger.Ctx(ctx).Error("Shipment group creation failed",
			zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return ref, nil
}

// GetLabel fetches the label/customs form PDF for a shipment.
func (c *Client) GetLabel(ctx context.Context, shipmentUUID string, form LabelForm) ([]byte, error) {
	data, err := c.api.GetLabel(ctx, shipmentUUID, form)
	if err != nil {
		c.logger.Ctx(ctx).Error("Label retrieval failed",
			zap.String("shipment_uuid", shipmentUUID),
			zap.String("form", string(form)), zap.Error(err))
		return nil, err
	}
	return data, nil
}
