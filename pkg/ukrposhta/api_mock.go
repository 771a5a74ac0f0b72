package ukrposhta

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockAPI is a mock implementation of API for testing and local development.
type MockAPI struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnTrackStatuses       func(ctx context.Context, barcodes []string) ([]StatusEvent, error)
	OnCreateAddress       func(ctx context.Context, req *AddressRequest) (*AddressRef, error)
	OnCreateClient        func(ctx context.Context, req *ClientRequest) (*ClientRef, error)
	OnUpdateClient        func(ctx context.Context, clientUUID string, req *ClientRequest) (*ClientRef, error)
	OnGetClient           func(ctx context.Context, clientUUID string) (*ClientRef, error)
	OnCreateShipment      func(ctx context.Context, req *ShipmentRequest) (*ShipmentRef, error)
	OnGetShipment         func(ctx context.Context, shipmentUUID string) (*ShipmentRef, error)
	OnDeleteShipment      func(ctx context.Context, shipmentUUID string) error
	OnCreateShipmentGroup func(ctx context.Context, name string) (*GroupRef, error)
	OnGetLabel            func(ctx context.Context, shipmentUUID string, form LabelForm) ([]byte, error)
}

// NewMockAPI creates a new mock API client with default behavior.
func NewMockAPI() *MockAPI {
	return &MockAPI{}
}

func (m *MockAPI) simulate(op string) error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return &RejectedError{Op: op, Status: 500, Body: "simulated API error"}
	}
	return nil
}

// TrackStatuses returns mock tracking events for each barcode.
func (m *MockAPI) TrackStatuses(ctx context.Context, barcodes []string) ([]StatusEvent, error) {
	if err := m.simulate("track statuses"); err != nil {
		return nil, err
	}
	if m.OnTrackStatuses != nil {
		return m.OnTrackStatuses(ctx, barcodes)
	}

	now := time.Now()
	events := make([]StatusEvent, 0, len(barcodes)*2)
	for _, barcode := range barcodes {
		events = append(events,
			StatusEvent{
				Barcode:   barcode,
				Step:      1,
				Date:      now.Add(-48 * time.Hour).Format(time.RFC3339),
				EventID:   11100,
				EventName: "Accepted at post office",
				Country:   "UA",
			},
			StatusEvent{
				Barcode:   barcode,
				Step:      2,
				Date:      now.Add(-24 * time.Hour).Format(time.RFC3339),
				EventID:   20600,
				EventName: "Left Ukraine",
				Country:   "UA",
			},
		)
	}
	return events, nil
}

// CreateAddress returns a mock address ref.
func (m *MockAPI) CreateAddress(ctx context.Context, req *AddressRequest) (*AddressRef, error) {
	if err := m.simulate("create address"); err != nil {
		return nil, err
	}
	if m.OnCreateAddress != nil {
		return m.OnCreateAddress(ctx, req)
	}

	return &AddressRef{
		ID:       100000000 + time.Now().UnixNano()%100000000,
		Postcode: req.Postcode,
		Country:  req.Country,
		City:     req.City,
	}, nil
}

// CreateClient returns a mock client ref.
func (m *MockAPI) CreateClient(ctx context.Context, req *ClientRequest) (*ClientRef, error) {
	if err := m.simulate("create client"); err != nil {
		return nil, err
	}
	if m.OnCreateClient != nil {
		return m.OnCreateClient(ctx, req)
	}

	return &ClientRef{
		UUID:        uuid.New().String(),
		Name:        req.Name,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		LatinName:   req.LatinName,
		AddressID:   req.AddressID,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Type:        req.Type,
	}, nil
}

// UpdateClient echoes the update back as a mock client ref.
func (m *MockAPI) UpdateClient(ctx context.Context, clientUUID string, req *ClientRequest) (*ClientRef, error) {
	if err := m.simulate("update client"); err != nil {
		return nil, err
	}
	if m.OnUpdateClient != nil {
		return m.OnUpdateClient(ctx, clientUUID, req)
	}

	return &ClientRef{
		UUID:      clientUUID,
		Name:      req.Name,
		LatinName: req.LatinName,
		AddressID: req.AddressID,
	}, nil
}

// GetClient returns a mock client record.
func (m *MockAPI) GetClient(ctx context.Context, clientUUID string) (*ClientRef, error) {
	if err := m.simulate("get client"); err != nil {
		return nil, err
	}
	if m.OnGetClient != nil {
		return m.OnGetClient(ctx, clientUUID)
	}

	return &ClientRef{
		UUID:      clientUUID,
		Name:      "Mock Sender",
		LatinName: "Mock Sender",
		AddressID: 123456789,
		Type:      "INDIVIDUAL",
	}, nil
}

// CreateShipment returns a mock shipment ref with a generated barcode.
func (m *MockAPI) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentRef, error) {
	if err := m.simulate("create shipment"); err != nil {
		return nil, err
	}
	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, req)
	}

	barcode := fmt.Sprintf("CV%09dUA", 100000000+time.Now().UnixNano()%900000000)
	return &ShipmentRef{
		UUID:        uuid.New().String(),
		Barcode:     barcode,
		Status:      "CREATED",
		Weight:      req.Weight,
		PackageType: req.PackageType,
	}, nil
}

// GetShipment returns a mock shipment record.
func (m *MockAPI) GetShipment(ctx context.Context, shipmentUUID string) (*ShipmentRef, error) {
	if err := m.simulate("get shipment"); err != nil {
		return nil, err
	}
	if m.OnGetShipment != nil {
		return m.OnGetShipment(ctx, shipmentUUID)
	}

	return &ShipmentRef{
		UUID:    shipmentUUID,
		Barcode: "CV123456789UA",
		Status:  "CREATED",
	}, nil
}

// DeleteShipment deletes a mock shipment.
func (m *MockAPI) DeleteShipment(ctx context.Context, shipmentUUID string) error {
	if err := m.simulate("delete shipment"); err != nil {
		return err
	}
	if m.OnDeleteShipment != nil {
		return m.OnDeleteShipment(ctx, shipmentUUID)
	}
	return nil
}

// CreateShipmentGroup returns a mock group ref.
func (m *MockAPI) CreateShipmentGroup(ctx context.Context, name string) (*GroupRef, error) {
	if err := m.simulate("create shipment group"); err != nil {
		return nil, err
	}
	if m.OnCreateShipmentGroup != nil {
		return m.OnCreateShipmentGroup(ctx, name)
	}

	return &GroupRef{UUID: uuid.New().String(), Name: name}, nil
}

// GetLabel returns a tiny placeholder PDF document.
func (m *MockAPI) GetLabel(ctx context.Context, shipmentUUID string, form LabelForm) ([]byte, error) {
	if err := m.simulate("get label"); err != nil {
		return nil, err
	}
	if m.OnGetLabel != nil {
		return m.OnGetLabel(ctx, shipmentUUID, form)
	}

	return []byte("%PDF-1.4\n% mock label " + shipmentUUID + " " + string(form) + "\n%%EOF\n"), nil
}

var _ API = (*MockAPI)(nil)
