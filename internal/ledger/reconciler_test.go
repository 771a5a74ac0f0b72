package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dovira/postal/internal/ledger"
	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// fakeTracker records which barcodes were looked up and serves canned events.
type fakeTracker struct {
	mu      sync.Mutex
	tracked []string
	events  map[string][]ukrposhta.StatusEvent
	err     error
}

func (f *fakeTracker) TrackStatus(ctx context.Context, barcode string) ([]ukrposhta.StatusEvent, error) {
	f.mu.Lock()
	f.tracked = append(f.tracked, barcode)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.events[barcode], nil
}

func (f *fakeTracker) trackedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tracked)
}

func newReconciler(t *testing.T, tracker *fakeTracker) (*ledger.Reconciler, *ledger.Store) {
	t.Helper()
	logger := otelzap.New(zap.NewNop())
	store := ledger.NewStore(filepath.Join(t.TempDir(), "shipments.json"), logger)
	return ledger.NewReconciler(store, tracker, logger), store
}

func TestReconciler_List_RefreshesAndPersistsStatus(t *testing.T) {
	tracker := &fakeTracker{
		events: map[string][]ukrposhta.StatusEvent{
			"CV1UA": {
				{Barcode: "CV1UA", EventName: "Accepted at post office", Date: "2026-08-01T10:00:00"},
				{Barcode: "CV1UA", EventName: "Delivered", Date: "2026-08-10T12:00:00"},
			},
		},
	}
	rec, store := newReconciler(t, tracker)

	require.NoError(t, store.Append(ledger.Record{
		Barcode: "CV1UA", Status: "CREATED", Created: time.Now(),
	}))

	records := rec.List(context.Background(), 10, 0)

	require.Len(t, records, 1)
	// The last event in the history is the current status.
	assert.Equal(t, "Delivered", records[0].Status)
	assert.Equal(t, "2026-08-10T12:00:00", records[0].LastUpdate)

	// The refreshed status survives a re-read without another lookup.
	stored := store.All()
	assert.Equal(t, "Delivered", stored[0].Status)
}

func TestReconciler_List_RefreshWindowBounded(t *testing.T) {
	tracker := &fakeTracker{events: map[string][]ukrposhta.StatusEvent{}}
	rec, store := newReconciler(t, tracker)

	for i := 0; i < 30; i++ {
		require.NoError(t, store.Append(ledger.Record{
			Barcode: fmt.Sprintf("CV%09dUA", i), Status: "CREATED",
		}))
	}

	rec.List(context.Background(), 0, 0)

	// Only the 20 most recent records get a live lookup.
	assert.Equal(t, 20, tracker.trackedCount())
}

func TestReconciler_List_LookupFailureKeepsStoredStatus(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("carrier down")}
	rec, store := newReconciler(t, tracker)

	require.NoError(t, store.Append(ledger.Record{Barcode: "CV1UA", Status: "CREATED"}))

	records := rec.List(context.Background(), 10, 0)

	require.Len(t, records, 1)
	assert.Equal(t, "CREATED", records[0].Status)
}

func TestReconciler_List_Pagination(t *testing.T) {
	tracker := &fakeTracker{events: map[string][]ukrposhta.StatusEvent{}}
	rec, store := newReconciler(t, tracker)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ledger.Record{
			UUID: fmt.Sprintf("uuid-%d", i), Barcode: fmt.Sprintf("CV%dUA", i),
		}))
	}

	page := rec.List(context.Background(), 2, 1)
	require.Len(t, page, 2)
	assert.Equal(t, "uuid-3", page[0].UUID)
	assert.Equal(t, "uuid-2", page[1].UUID)

	assert.Empty(t, rec.List(context.Background(), 10, 99))
	assert.Len(t, rec.List(context.Background(), 0, 0), 5)
}

func TestReconciler_List_NegativeOffsetTreatedAsZero(t *testing.T) {
	tracker := &fakeTracker{events: map[string][]ukrposhta.StatusEvent{}}
	rec, store := newReconciler(t, tracker)

	require.NoError(t, store.Append(ledger.Record{UUID: "uuid-0", Barcode: "CV0UA"}))

	page := rec.List(context.Background(), 10, -1)

	require.Len(t, page, 1)
	assert.Equal(t, "uuid-0", page[0].UUID)
}

func TestReconciler_Import_Success(t *testing.T) {
	tracker := &fakeTracker{
		events: map[string][]ukrposhta.StatusEvent{
			"CV555UA": {
				{Barcode: "CV555UA", EventName: "Accepted at post office"},
				{Barcode: "CV555UA", EventName: "In transit"},
			},
		},
	}
	rec, store := newReconciler(t, tracker)

	imported, err := rec.Import(context.Background(), "CV555UA",
		ledger.Recipient{Name: "Jane Smith"},
		ledger.Address{Country: "US", City: "Chicago"})

	require.NoError(t, err)
	assert.Equal(t, "In transit", imported.Status)
	assert.True(t, imported.Imported)
	assert.Equal(t, "IMPORTED", imported.Type)

	records := store.All()
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Smith", records[0].Recipient.Name)
}

func TestReconciler_Import_Duplicate(t *testing.T) {
	tracker := &fakeTracker{events: map[string][]ukrposhta.StatusEvent{}}
	rec, store := newReconciler(t, tracker)

	_, err := rec.Import(context.Background(), "CV555UA", ledger.Recipient{}, ledger.Address{})
	require.NoError(t, err)

	_, err = rec.Import(context.Background(), "CV555UA", ledger.Recipient{}, ledger.Address{})
	assert.ErrorIs(t, err, ledger.ErrAlreadyImported)
	assert.Len(t, store.All(), 1)
}

func TestReconciler_Import_TrackingFailure(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("carrier down")}
	rec, store := newReconciler(t, tracker)

	_, err := rec.Import(context.Background(), "CV555UA", ledger.Recipient{}, ledger.Address{})

	assert.Error(t, err)
	assert.Empty(t, store.All())
}

func TestReconciler_Import_NoEventsMeansUnknownStatus(t *testing.T) {
	tracker := &fakeTracker{events: map[string][]ukrposhta.StatusEvent{}}
	rec, _ := newReconciler(t, tracker)

	imported, err := rec.Import(context.Background(), "CV777UA", ledger.Recipient{}, ledger.Address{})

	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", imported.Status)
}
