package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// refreshWindow bounds how many of the most recent records get a live
	// status lookup per listing; older records keep their stored status.
	refreshWindow = 20

	// refreshWorkers bounds concurrent tracking lookups. The lookups are
	// independent of each other, so ordering does not matter here.
	refreshWorkers = 4
)

type tracker interface {
	TrackStatus(ctx context.Context, barcode string) ([]ukrposhta.StatusEvent, error)
}

// Reconciler merges the stored ledger with live tracking status on read.
type Reconciler struct {
	store  *Store
	api    tracker
	logger *otelzap.Logger
}

// NewReconciler creates a reconciler over the store and tracking client.
func NewReconciler(store *Store, api tracker, logger *otelzap.Logger) *Reconciler {
	return &Reconciler{store: store, api: api, logger: logger}
}

// List returns a page of ledger records after refreshing the status of the
// most recent refreshWindow entries. A failed lookup leaves that record's
// stored status untouched; partial staleness is preferred over failing the
// whole listing.
func (r *Reconciler) List(ctx context.Context, limit, offset int) []Record {
	records := r.store.All()

	window := refreshWindow
	if window > len(records) {
		window = len(records)
	}

	updates := make(map[string]statusUpdate)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshWorkers)

	for _, rec := range records[:window] {
		if rec.Barcode == "" {
			continue
		}
		barcode := rec.Barcode
		g.Go(func() error {
			events, err := r.api.TrackStatus(gctx, barcode)
			if err != nil || len(events) == 0 {
				return nil // stale status is fine
			}
			latest := events[len(events)-1]
			mu.Lock()
			updates[barcode] = statusUpdate{status: latest.EventName, date: latest.Date}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if err := r.store.applyStatuses(updates); err != nil {
		r.logger.Ctx(ctx).Warn("Could not persist refreshed statuses", zap.Error(err))
	}

	records = r.store.All()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []Record{}
	}
	end := offset + limit
	if limit <= 0 || end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}

// Import catalogues an externally created shipment by barcode. The barcode
// must track successfully and must not already be catalogued; recipient
// metadata is whatever the caller supplies.
func (r *Reconciler) Import(ctx context.Context, barcode string, recipient Recipient, address Address) (Record, error) {
	if r.store.HasBarcode(barcode) {
		return Record{}, ErrAlreadyImported
	}

	events, err := r.api.TrackStatus(ctx, barcode)
	if err != nil {
		return Record{}, err
	}

	status := "UNKNOWN"
	if len(events) > 0 {
		status = events[len(events)-1].EventName
	}

	rec := Record{
		Barcode:          barcode,
		Type:             "IMPORTED",
		Status:           status,
		Created:          time.Now(),
		Imported:         true,
		Recipient:        recipient,
		RecipientAddress: address,
	}
	if err := r.store.AppendUnique(rec); err != nil {
		return Record{}, err
	}

	r.logger.Ctx(ctx).Info("Imported shipment",
		zap.String("barcode", barcode), zap.String("status", status))
	return rec, nil
}
