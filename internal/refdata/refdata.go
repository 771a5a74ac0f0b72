// Package refdata holds the static reference tables the service ships with:
// countries, shipment types, customs categories, HS codes, currencies,
// price zones and exchange rates. The compiled-in defaults can be partially
// overridden from a YAML file so table updates do not require code changes.
package refdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Country is a destination country entry.
type Country struct {
	Code     string `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	DialCode string `yaml:"dialCode" json:"phone"`
}

// ShipmentType is a user-facing package class definition.
type ShipmentType struct {
	Code            string `yaml:"code" json:"code"`
	Name            string `yaml:"name" json:"name"`
	MaxWeight       int    `yaml:"maxWeight" json:"maxWeight"` // grams
	CalcType        string `yaml:"calcType" json:"calcType"`
	PackageType     string `yaml:"packageType" json:"packageType"`
	RequiresTracked bool   `yaml:"requiresTracked" json:"requiresTracked,omitempty"`
	RequiresAvia    bool   `yaml:"requiresAvia" json:"requiresAvia,omitempty"`
}

// Category is a customs category entry.
type Category struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// HSCode is a harmonized-system code entry.
type HSCode struct {
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

// PriceRow holds the zone base prices and the per-100g surcharge for one
// calculation class. All amounts are integer UAH.
type PriceRow struct {
	Zone1        int64 `yaml:"zone1" json:"zone1"`
	Zone2        int64 `yaml:"zone2" json:"zone2"`
	Zone3        int64 `yaml:"zone3" json:"zone3"`
	PerExtra100g int64 `yaml:"per100g" json:"per100g"`
}

// Tables bundles every reference table the orchestration layer consumes.
type Tables struct {
	Countries     []Country           `yaml:"countries"`
	ShipmentTypes []ShipmentType      `yaml:"shipmentTypes"`
	Categories    []Category          `yaml:"categories"`
	HSCodes       []HSCode            `yaml:"hsCodes"`
	Currencies    []string            `yaml:"currencies"`
	Zone1         []string            `yaml:"zone1"`
	Zone2         []string            `yaml:"zone2"`
	Prices        map[string]PriceRow `yaml:"prices"`
	Rates         map[string]int64    `yaml:"rates"` // UAH per unit of currency
}

// Load returns the default tables, overlaid with the YAML file at path when
// one is given. A missing or empty path is not an error.
func Load(path string) (*Tables, error) {
	tables := Default()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tables, nil
		}
		return nil, fmt.Errorf("reading reference data overlay: %w", err)
	}

	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("parsing reference data overlay: %w", err)
	}
	return tables, nil
}

// CountryCode resolves a country value to its 2-letter code. Values longer
// than 2 characters are matched case-insensitively against country display
// names; unresolvable values pass through unchanged so the carrier gets the
// final say on validity.
func (t *Tables) CountryCode(value string) string {
	if len(value) <= 2 {
		return value
	}
	for _, c := range t.Countries {
		if strings.EqualFold(c.Name, value) {
			return c.Code
		}
	}
	return value
}

// ShipmentType returns the shipment-type definition for a class code.
func (t *Tables) ShipmentType(code string) (ShipmentType, bool) {
	for _, st := range t.ShipmentTypes {
		if st.Code == code {
			return st, true
		}
	}
	return ShipmentType{}, false
}

// Rate returns the UAH exchange rate for a currency, falling back to the
// USD rate for unknown currencies.
func (t *Tables) Rate(currency string) int64 {
	if rate, ok := t.Rates[currency]; ok {
		return rate
	}
	return t.Rates["USD"]
}

// SearchHSCodes returns up to limit HS codes whose code or description
// contains the query (case-insensitive). Queries shorter than 2 characters
// return the head of the table.
func (t *Tables) SearchHSCodes(query string, limit int) []HSCode {
	if limit <= 0 || limit > len(t.HSCodes) {
		limit = len(t.HSCodes)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return t.HSCodes[:min(limit, len(t.HSCodes))]
	}

	results := make([]HSCode, 0, limit)
	for _, hs := range t.HSCodes {
		if strings.Contains(hs.Code, query) || strings.Contains(strings.ToLower(hs.Description), query) {
			results = append(results, hs)
			if len(results) == limit {
				break
			}
		}
	}
	return results
}
