package ukrposhta_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockAPI *ukrposhta.MockAPI) *ukrposhta.Client {
	logger := otelzap.New(zap.NewNop())
	return ukrposhta.NewWithAPI(ukrposhta.Config{}, mockAPI, logger, nil)
}

func TestClient_TrackStatus_Success(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()
	client := newTestClient(mockAPI)

	events, err := client.TrackStatus(context.Background(), "CV123456789UA")

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "CV123456789UA", events[0].Barcode)
	// Events come back oldest first; the last one is the current status.
	assert.Equal(t, "Left Ukraine", events[len(events)-1].EventName)
}

func TestClient_TrackStatuses_TruncatesBatch(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()

	var received []string
	mockAPI.OnTrackStatuses = func(ctx context.Context, barcodes []string) ([]ukrposhta.StatusEvent, error) {
		received = barcodes
		return nil, nil
	}

	client := newTestClient(mockAPI)

	barcodes := make([]string, 75)
	for i := range barcodes {
		barcodes[i] = fmt.Sprintf("CV%09dUA", i)
	}

	_, err := client.TrackStatuses(context.Background(), barcodes)

	require.NoError(t, err)
	assert.Len(t, received, 50)
	assert.Equal(t, "CV000000000UA", received[0])
	assert.Equal(t, "CV000000049UA", received[49])
}

func TestClient_TrackStatuses_APIError(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	_, err := client.TrackStatuses(context.Background(), []string{"CV123456789UA"})

	require.Error(t, err)
	rejected, ok := ukrposhta.IsRejected(err)
	require.True(t, ok)
	assert.Equal(t, 500, rejected.Status)
}

func TestClient_CreateShipment_Success(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()
	client := newTestClient(mockAPI)

	req := &ukrposhta.ShipmentRequest{
		Sender:        ukrposhta.PartyRef{UUID: "sender-uuid"},
		Recipient:     ukrposhta.PartyRef{UUID: "recipient-uuid"},
		DeliveryType:  "W2W",
		Weight:        500,
		PackageType:   "PARCEL",
		International: true,
	}

	ref, err := client.CreateShipment(context.Background(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, ref.UUID)
	assert.NotEmpty(t, ref.Barcode)
	assert.Equal(t, "CREATED", ref.Status)
	assert.Equal(t, "PARCEL", ref.PackageType)
}

func TestClient_CreateShipment_CustomMock(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()
	mockAPI.OnCreateShipment = func(ctx context.Context, req *ukrposhta.ShipmentRequest) (*ukrposhta.ShipmentRef, error) {
		return &ukrposhta.ShipmentRef{
			UUID:          "custom-uuid",
			Barcode:       "CV999999999UA",
			Status:        "CREATED",
			DeliveryPrice: 450,
		}, nil
	}

	client := newTestClient(mockAPI)

	ref, err := client.CreateShipment(context.Background(), &ukrposhta.ShipmentRequest{})

	require.NoError(t, err)
	assert.Equal(t, "custom-uuid", ref.UUID)
	assert.Equal(t, int64(450), ref.DeliveryPrice)
}

func TestClient_DeleteShipment_NotDeletable(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()
	mockAPI.OnDeleteShipment = func(ctx context.Context, shipmentUUID string) error {
		return ukrposhta.ErrNotDeletable
	}

	client := newTestClient(mockAPI)

	err := client.DeleteShipment(context.Background(), "some-uuid")

	require.Error(t, err)
	assert.ErrorIs(t, err, ukrposhta.ErrNotDeletable)
}

func TestClient_GetLabel_Success(t *testing.T) {
	mockAPI := ukrposhta.NewMockAPI()
	client := newTestClient(mockAPI)

	data, err := client.GetLabel(context.Background(), "shipment-uuid", ukrposhta.FormCN22)

	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
}

func TestValidLabelForm(t *testing.T) {
	tests := []struct {
		form  string
		valid bool
	}{
		{"forms", true},
		{"cn22", true},
		{"cn23", true},
		{"dl", true},
		{"cn24", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ukrposhta.ValidLabelForm(tt.form), tt.form)
	}
}
