// Package sender resolves the sending party's carrier identity. The
// resolved profile is the one piece of shared mutable state in the service
// and is guarded by a mutex so concurrent cold-cache creations cannot race
// into duplicate remote addresses.
package sender

import (
	"context"
	"sync"

	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Profile is the sender identity used on every outgoing shipment.
type Profile struct {
	UUID        string `json:"uuid"`
	AddressID   int64  `json:"addressId,omitempty"`
	Name        string `json:"name"`
	LatinName   string `json:"latinName,omitempty"` // required for some destinations
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	MiddleName  string `json:"middleName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	TIN         string `json:"tin,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	Apartment   string `json:"apartmentNumber,omitempty"`

	// Warning annotates a degraded resolution (UUID known but no address
	// ID). It is set on returned snapshots, never cached.
	Warning string `json:"warning,omitempty"`
}

type carrier interface {
	GetClient(ctx context.Context, clientUUID string) (*ukrposhta.ClientRef, error)
	UpdateClient(ctx context.Context, clientUUID string, req *ukrposhta.ClientRequest) (*ukrposhta.ClientRef, error)
	CreateAddress(ctx context.Context, req *ukrposhta.AddressRequest) (*ukrposhta.AddressRef, error)
}

// Resolver lazily provisions and caches the sender profile for the life of
// the process. The cache is mutated only to backfill the address ID or the
// Latin name once discovered.
type Resolver struct {
	mu      sync.Mutex
	profile Profile
	api     carrier
	logger  *otelzap.Logger
}

// New creates a resolver seeded with the configured sender profile. The
// UUID is the counterparty UUID from configuration; the address ID starts
// unknown unless configured.
func New(seed Profile, api carrier, logger *otelzap.Logger) *Resolver {
	return &Resolver{
		profile: seed,
		api:     api,
		logger:  logger,
	}
}

// Resolve returns the sender profile, provisioning missing pieces remotely
// on first use. It degrades rather than fails: when the carrier rejects
// both the read-back and the address creation, the profile is returned
// UUID-only with a warning, since shipments may still be accepted with the
// UUID alone.
func (r *Resolver) Resolve(ctx context.Context) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Cache hit: both identity and address are known.
	if r.profile.UUID != "" && r.profile.AddressID != 0 {
		return r.profile, nil
	}

	existing, err := r.api.GetClient(ctx, r.profile.UUID)
	if err == nil {
		r.profile.AddressID = existing.AddressID
		r.backfillLatinName(ctx, existing)
		return r.profile, nil
	}

	// Some deployments reject reads of the sender's own record while
	// accepting writes; fall back to creating the home address directly.
	r.logger.Ctx(ctx).Warn("Sender read-back unavailable, creating address",
		zap.String("sender_uuid", r.profile.UUID), zap.Error(err))

	if r.profile.AddressID == 0 {
		ref, err := r.api.CreateAddress(ctx, &ukrposhta.AddressRequest{
			Postcode:        r.profile.Postcode,
			Country:         r.profile.Country,
			Region:          r.profile.Region,
			City:            r.profile.City,
			Street:          r.profile.Street,
			HouseNumber:     r.profile.HouseNumber,
			ApartmentNumber: r.profile.Apartment,
		})
		if err != nil {
			r.logger.Ctx(ctx).Warn("Sender address creation failed, continuing with UUID only",
				zap.Error(err))
			degraded := r.profile
			degraded.Warning = "could not get or create sender address"
			return degraded, nil
		}
		r.profile.AddressID = ref.ID
	}

	return r.profile, nil
}

// backfillLatinName pushes the configured Latin name to the carrier when
// the remote record lacks one. Failures are logged, never propagated: the
// sender can still ship without it.
func (r *Resolver) backfillLatinName(ctx context.Context, existing *ukrposhta.ClientRef) {
	if existing.LatinName != "" || r.profile.LatinName == "" {
		return
	}

	_, err := r.api.UpdateClient(ctx, r.profile.UUID, &ukrposhta.ClientRequest{
		LatinName: r.profile.LatinName,
		AddressID: r.profile.AddressID,
	})
	if err != nil {
		r.logger.Ctx(ctx).Warn("Could not backfill sender Latin name",
			zap.String("sender_uuid", r.profile.UUID), zap.Error(err))
	}
}
