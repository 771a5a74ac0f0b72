package ukrposhta_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPAPI(baseURL string) *ukrposhta.HTTPAPI {
	return ukrposhta.NewHTTPAPI(ukrposhta.HTTPAPIConfig{
		BaseURL:           baseURL,
		BearerTracking:    "tracking-token",
		BearerEcom:        "ecom-token",
		CounterpartyUUID:  "11111111-2222-3333-4444-555555555555",
		CounterpartyToken: "counterparty-token",
	})
}

func TestHTTPAPI_TrackStatuses_SendsBearerAndBarcodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status-tracking/0.0.1/statuses", r.URL.Path)
		assert.Equal(t, "Bearer tracking-token", r.Header.Get("Authorization"))
		assert.Equal(t, "CV1UA,CV2UA", r.URL.Query().Get("barcode"))
		assert.Equal(t, "EN", r.URL.Query().Get("lang"))

		json.NewEncoder(w).Encode([]ukrposhta.StatusEvent{
			{Barcode: "CV1UA", EventName: "Accepted at post office"},
		})
	}))
	defer srv.Close()

	api := newHTTPAPI(srv.URL)
	events, err := api.TrackStatuses(context.Background(), []string{"CV1UA", "CV2UA"})

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Accepted at post office", events[0].EventName)
}

func TestHTTPAPI_CreateClient_StampsCounterpartyUUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ecom/0.0.1/clients", r.URL.Path)
		assert.Equal(t, "Bearer ecom-token", r.Header.Get("Authorization"))
		assert.Equal(t, "counterparty-token", r.URL.Query().Get("token"))

		var body ukrposhta.ClientRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", body.CounterpartyUUID)

		json.NewEncoder(w).Encode(ukrposhta.ClientRef{UUID: "client-uuid", Name: body.Name})
	}))
	defer srv.Close()

	api := newHTTPAPI(srv.URL)
	ref, err := api.CreateClient(context.Background(), &ukrposhta.ClientRequest{Name: "Jane Smith"})

	require.NoError(t, err)
	assert.Equal(t, "client-uuid", ref.UUID)
}

func TestHTTPAPI_CreateShipment_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"weight is required"}`))
	}))
	defer srv.Close()

	api := newHTTPAPI(srv.URL)
	_, err := api.CreateShipment(context.Background(), &ukrposhta.ShipmentRequest{})

	require.Error(t, err)
	var rejected *ukrposhta.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.Status)
	assert.Contains(t, rejected.Body, "weight is required")
}

func TestHTTPAPI_DeleteShipment_BadRequestMeansNotDeletable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	api := newHTTPAPI(srv.URL)
	err := api.DeleteShipment(context.Background(), "shipment-uuid")

	assert.ErrorIs(t, err, ukrposhta.ErrNotDeletable)
}

func TestHTTPAPI_DeleteShipment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	api := newHTTPAPI(srv.URL)
	err := api.DeleteShipment(context.Background(), "shipment-uuid")

	assert.NoError(t, err)
}

func TestHTTPAPI_GetLabel_UsesFormsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/ecom/0.0.1/international/shipments/abc/cn23", r.URL.Path)
		assert.Equal(t, "counterparty-token", r.URL.Query().Get("token"))
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	api := newHTTPAPI(srv.URL)
	data, err := api.GetLabel(context.Background(), "abc", ukrposhta.FormCN23)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestHTTPAPI_Unreachable(t *testing.T) {
	// Closed server: connections are refused immediately.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	api := newHTTPAPI(srv.URL)
	_, err := api.TrackStatuses(context.Background(), []string{"CV1UA"})

	require.Error(t, err)
	assert.True(t, ukrposhta.IsUnreachable(err))
}
