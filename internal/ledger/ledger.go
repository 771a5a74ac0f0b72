// Package ledger maintains the local durable catalogue of shipments,
// independent of the carrier's own system of record. The ledger is an
// append-only bounded list persisted as a single JSON file; reads merge in
// live tracking status (see reconciler.go).
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// maxRecords bounds the ledger: the oldest records are evicted first.
const maxRecords = 200

// ErrAlreadyImported indicates the barcode is already catalogued.
var ErrAlreadyImported = errors.New("shipment already imported")

// Recipient is the stored recipient summary.
type Recipient struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Address is the stored recipient address summary.
type Address struct {
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Street   string `json:"street,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Record is one catalogued shipment. UUID is empty for shipments imported
// by barcode from outside this service.
type Record struct {
	UUID             string    `json:"uuid,omitempty"`
	Barcode          string    `json:"barcode"`
	Type             string    `json:"type,omitempty"`
	Status           string    `json:"status,omitempty"`
	LastUpdate       string    `json:"lastUpdate,omitempty"`
	DeliveryPrice    int64     `json:"deliveryPrice,omitempty"`
	Weight           int       `json:"weight,omitempty"`
	Created          time.Time `json:"created"`
	Imported         bool      `json:"imported,omitempty"`
	GroupUUID        string    `json:"group_uuid,omitempty"`
	Recipient        Recipient `json:"recipient"`
	RecipientAddress Address   `json:"recipientAddress"`
}

// Store is the file-backed ledger. Every read-modify-write cycle runs under
// one mutex so concurrent requests cannot lose updates.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *otelzap.Logger
}

// NewStore creates a ledger store over the given file path.
func NewStore(path string, logger *otelzap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// load reads the whole ledger. A missing or corrupt backing file is treated
// as an empty ledger, never a fatal error.
func (s *Store) load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Ledger file unreadable, treating as empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Ledger file corrupt, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return records
}

func (s *Store) save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// Append inserts a record at the head and truncates the ledger to its
// bound, evicting the oldest entries.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append([]Record{rec}, s.load()...)
	if len(records) > maxRecords {
		records = records[:maxRecords]
	}
	return s.save(records)
}

// AppendUnique appends like Append but fails with ErrAlreadyImported when
// a record with the same barcode already exists. The duplicate check and
// the insert happen under one lock acquisition.
func (s *Store) AppendUnique(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for _, existing := range records {
		if existing.Barcode == rec.Barcode {
			return ErrAlreadyImported
		}
	}

	records = append([]Record{rec}, records...)
	if len(records) > maxRecords {
		records = records[:maxRecords]
	}
	return s.save(records)
}

// Remove deletes the record with the given carrier UUID. Removing an
// unknown UUID is a no-op.
func (s *Store) Remove(uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	for _, rec := range records {
		if rec.UUID != uuid {
			kept = append(kept, rec)
		}
	}
	return s.save(kept)
}

// HasBarcode reports whether a record with the barcode exists.
func (s *Store) HasBarcode(barcode string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.load() {
		if rec.Barcode == barcode {
			return true
		}
	}
	return false
}

// All returns a snapshot of every stored record, most recent first.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// applyStatuses overwrites status fields by barcode and persists the
// result. Called by the reconciler after its lookups complete.
func (s *Store) applyStatuses(updates map[string]statusUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for i := range records {
		if up, ok := updates[records[i].Barcode]; ok {
			records[i].Status = up.status
			records[i].LastUpdate = up.date
		}
	}
	return s.save(records)
}

type statusUpdate struct {
	status string
	date   string
}
