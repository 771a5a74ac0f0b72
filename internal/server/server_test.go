package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dovira/postal/internal/dispatch"
	"github.com/dovira/postal/internal/ledger"
	"github.com/dovira/postal/internal/pricing"
	"github.com/dovira/postal/internal/refdata"
	"github.com/dovira/postal/internal/sender"
	"github.com/dovira/postal/internal/server"
	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// One fixture for the whole package: metrics register in the default
// Prometheus registry, so the server is constructed exactly once.
var (
	fixtureOnce sync.Once
	fixture     struct {
		handler http.Handler
		mockAPI *ukrposhta.MockAPI
		store   *ledger.Store
	}
)

func testServer(t *testing.T) (http.Handler, *ukrposhta.MockAPI, *ledger.Store) {
	t.Helper()

	fixtureOnce.Do(func() {
		logger := otelzap.New(zap.NewNop())
		mockAPI := ukrposhta.NewMockAPI()
		carrier := ukrposhta.NewWithAPI(ukrposhta.Config{}, mockAPI, logger, nil)

		tables := refdata.Default()
		ledgerPath := filepath.Join(os.TempDir(),
			fmt.Sprintf("postal-test-ledger-%d.json", time.Now().UnixNano()))
		store := ledger.NewStore(ledgerPath, logger)
		resolver := sender.New(sender.Profile{UUID: "sender-uuid", AddressID: 42}, carrier, logger)

		srv := server.New(server.Config{Port: 0}, server.Deps{
			Carrier:    carrier,
			Estimator:  pricing.New(tables),
			Assembler:  dispatch.New(carrier, resolver, store, tables, logger),
			Store:      store,
			Reconciler: ledger.NewReconciler(store, carrier, logger),
			Tables:     tables,
		}, logger)

		fixture.handler = srv.Handler()
		fixture.mockAPI = mockAPI
		fixture.store = store
	})

	// Reset per-test mock overrides.
	fixture.mockAPI.OnTrackStatuses = nil
	fixture.mockAPI.OnDeleteShipment = nil
	fixture.mockAPI.SimulateErrors = false

	return fixture.handler, fixture.mockAPI, fixture.store
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

func TestServer_Health(t *testing.T) {
	handler, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Track_SingleBarcode(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodPost, "/api/track", `{"barcodes":["CV123456789UA"]}`)

	require.True(t, env.Success)
	var events []ukrposhta.StatusEvent
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "CV123456789UA", events[0].Barcode)
}

func TestServer_Track_NoBarcodes(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodPost, "/api/track", `{"barcodes":[]}`)

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "no barcodes")
}

func TestServer_Track_CarrierFailureReturnsEnvelope(t *testing.T) {
	handler, mockAPI, _ := testServer(t)
	mockAPI.SimulateErrors = true

	rec, env := doJSON(t, handler, http.MethodPost, "/api/track", `{"barcodes":["CV1UA"]}`)

	// Carrier failures come back inside the envelope, not as HTTP errors.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "rejected")
}

func TestServer_Calculate(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodGet, "/api/calculate?country=PL&weight=250&type=PARCEL", "")

	require.True(t, env.Success)
	var est pricing.Estimate
	require.NoError(t, json.Unmarshal(env.Data, &est))
	assert.Equal(t, int64(450+35), est.Price)
	assert.Equal(t, 1, est.Zone)
}

func TestServer_ListShipments_NegativeOffset(t *testing.T) {
	handler, _, _ := testServer(t)

	rec, env := doJSON(t, handler, http.MethodGet, "/api/shipments?offset=-1&limit=-5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestServer_Calculate_MissingParams(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodGet, "/api/calculate?country=PL", "")

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "missing")
}

func TestServer_CreateShipment(t *testing.T) {
	handler, _, store := testServer(t)

	body := `{
		"address": {"country": "Poland", "city": "Warsaw", "address": "Nowy Swiat 15", "zipCode": "00-001"},
		"recipient": {"fullName": "Jan Kowalski", "phone": "+48 601 234 567"},
		"package": {"weight": 500},
		"type": "PARCEL"
	}`
	before := len(store.All())

	_, env := doJSON(t, handler, http.MethodPost, "/api/shipment", body)

	require.True(t, env.Success, env.Error)
	var rec ledger.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.NotEmpty(t, rec.UUID)
	assert.NotEmpty(t, rec.Barcode)
	assert.Len(t, store.All(), before+1)
}

func TestServer_CreateShipment_InvalidRequest(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodPost, "/api/shipment", `{"address":{"country":"PL"}}`)

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "validate request")
}

func TestServer_DeleteShipment_NotDeletableLeavesLedger(t *testing.T) {
	handler, mockAPI, store := testServer(t)

	require.NoError(t, store.Append(ledger.Record{
		UUID: "keep-me", Barcode: "CVKEEPUA", Created: time.Now(),
	}))
	mockAPI.OnDeleteShipment = func(ctx context.Context, shipmentUUID string) error {
		return ukrposhta.ErrNotDeletable
	}

	rec, env := doJSON(t, handler, http.MethodDelete, "/api/shipment/keep-me", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "freshly created")
	assert.True(t, containsUUID(store.All(), "keep-me"))
}

func TestServer_DeleteShipment_Success(t *testing.T) {
	handler, _, store := testServer(t)

	require.NoError(t, store.Append(ledger.Record{
		UUID: "delete-me", Barcode: "CVDELUA", Created: time.Now(),
	}))

	_, env := doJSON(t, handler, http.MethodDelete, "/api/shipment/delete-me", "")

	require.True(t, env.Success)
	assert.False(t, containsUUID(store.All(), "delete-me"))
}

func TestServer_Label(t *testing.T) {
	handler, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/label/some-uuid?type=cn22", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "label_some-uuid_cn22.pdf")
	assert.Contains(t, rec.Body.String(), "%PDF")
}

func TestServer_Label_UnknownType(t *testing.T) {
	handler, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/label/some-uuid?type=cn99", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "unknown label type")
}

func TestServer_ImportShipment(t *testing.T) {
	handler, _, _ := testServer(t)

	body := `{"barcode": "CVIMPORTUA", "recipient": {"name": "Jane"}, "address": {"country": "US"}}`
	_, env := doJSON(t, handler, http.MethodPost, "/api/import-shipment", body)

	require.True(t, env.Success, env.Error)

	// A second import of the same barcode is rejected.
	_, env = doJSON(t, handler, http.MethodPost, "/api/import-shipment", body)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "already imported")
}

func TestServer_RefData(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodGet, "/api/shipment-types", "")
	require.True(t, env.Success)
	var types []refdata.ShipmentType
	require.NoError(t, json.Unmarshal(env.Data, &types))
	assert.Len(t, types, 6)

	_, env = doJSON(t, handler, http.MethodGet, "/api/hs-codes?q=laptop", "")
	require.True(t, env.Success)
	var codes []refdata.HSCode
	require.NoError(t, json.Unmarshal(env.Data, &codes))
	require.Len(t, codes, 1)
	assert.Equal(t, "8471300000", codes[0].Code)
}

func TestServer_CreateGroup(t *testing.T) {
	handler, _, _ := testServer(t)

	_, env := doJSON(t, handler, http.MethodPost, "/api/shipment-group", `{"name": "August batch"}`)

	require.True(t, env.Success)
	var ref ukrposhta.GroupRef
	require.NoError(t, json.Unmarshal(env.Data, &ref))
	assert.Equal(t, "August batch", ref.Name)
	assert.NotEmpty(t, ref.UUID)
}

func containsUUID(records []ledger.Record, uuid string) bool {
	for _, rec := range records {
		if rec.UUID == uuid {
			return true
		}
	}
	return false
}
