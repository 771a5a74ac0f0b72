// Package pricing implements the zone-based price estimator for
// international shipments. Estimation is pure table arithmetic: no I/O,
// integer UAH and gram units throughout.
package pricing

import (
	"github.com/dovira/postal/internal/refdata"
)

// DefaultClass is used when an unknown calculation class is requested.
const DefaultClass = "SMALL_PACKAGE"

// baseWeight is the weight covered by the zone base price; every started
// 100g above it adds one per-100g increment.
const baseWeight = 100

// Estimate is the result of a price calculation.
type Estimate struct {
	Price  int64 `json:"deliveryPrice"`
	Zone   int   `json:"zone"`
	Weight int   `json:"weight"`
}

// Estimator computes delivery price estimates from the static zone and
// price tables.
type Estimator struct {
	tables *refdata.Tables
	zone1  map[string]struct{}
	zone2  map[string]struct{}
}

// New creates an estimator over the given reference tables.
func New(tables *refdata.Tables) *Estimator {
	e := &Estimator{
		tables: tables,
		zone1:  make(map[string]struct{}, len(tables.Zone1)),
		zone2:  make(map[string]struct{}, len(tables.Zone2)),
	}
	for _, code := range tables.Zone1 {
		e.zone1[code] = struct{}{}
	}
	for _, code := range tables.Zone2 {
		e.zone2[code] = struct{}{}
	}
	return e
}

// Zone maps a destination country code to its price zone. Countries absent
// from both membership tables fall into zone 3, so unlisted destinations
// never error.
func (e *Estimator) Zone(countryCode string) int {
	if _, ok := e.zone1[countryCode]; ok {
		return 1
	}
	if _, ok := e.zone2[countryCode]; ok {
		return 2
	}
	return 3
}

// Estimate computes the delivery price for a destination, weight in grams
// and calculation class. Unknown classes fall back to DefaultClass.
func (e *Estimator) Estimate(countryCode string, weightGrams int, class string) Estimate {
	row, ok := e.tables.Prices[class]
	if !ok {
		row = e.tables.Prices[DefaultClass]
	}

	zone := e.Zone(countryCode)
	var base int64
	switch zone {
	case 1:
		base = row.Zone1
	case 2:
		base = row.Zone2
	default:
		base = row.Zone3
	}

	extra := weightGrams - baseWeight
	if extra < 0 {
		extra = 0
	}
	price := base + int64(extra/100)*row.PerExtra100g

	return Estimate{Price: price, Zone: zone, Weight: weightGrams}
}
