package ukrposhta

import (
	"context"
)

// API defines the interface for Ukrposhta API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type API interface {
	// TrackStatuses fetches tracking events for one or more barcodes
	// from the status-tracking sub-API.
	TrackStatuses(ctx context.Context, barcodes []string) ([]StatusEvent, error)

	// CreateAddress registers an address and returns its numeric ID.
	CreateAddress(ctx context.Context, req *AddressRequest) (*AddressRef, error)

	// CreateClient registers a client (sender or recipient party).
	CreateClient(ctx context.Context, req *ClientRequest) (*ClientRef, error)

	// UpdateClient updates an existing client record.
	UpdateClient(ctx context.Context, clientUUID string, req *ClientRequest) (*ClientRef, error)

	// GetClient fetches a client record by UUID.
	GetClient(ctx context.Context, clientUUID string) (*ClientRef, error)

	// CreateShipment creates an international shipment.
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentRef, error)

	// GetShipment fetches a shipment by UUID.
	GetShipment(ctx context.Context, shipmentUUID string) (*ShipmentRef, error)

	// DeleteShipment deletes a shipment. Only freshly created shipments
	// are deletable; the carrier rejects everything else with a 400.
	DeleteShipment(ctx context.Context, shipmentUUID string) error

	// CreateShipmentGroup creates a dispatch group for batching shipments.
	CreateShipmentGroup(ctx context.Context, name string) (*GroupRef, error)

	// GetLabel fetches the label/customs form PDF for a shipment.
	GetLabel(ctx context.Context, shipmentUUID string, form LabelForm) ([]byte, error)
}

// LabelForm selects which document the forms sub-API renders.
type LabelForm string

const (
	// FormCombined is the combined CN22 + address label.
	FormCombined LabelForm = "forms"
	// FormCN22 is the CN22 customs declaration.
	FormCN22 LabelForm = "cn22"
	// FormCN23 is the CN23 customs declaration (parcels over 2kg).
	FormCN23 LabelForm = "cn23"
	// FormAddressLabel is the address label only.
	FormAddressLabel LabelForm = "dl"
)

// ValidLabelForm reports whether s names a known label form.
func ValidLabelForm(s string) bool {
	switch LabelForm(s) {
	case FormCombined, FormCN22, FormCN23, FormAddressLabel:
		return true
	}
	return false
}

// ============================================================================
// API Request/Response Types (match Ukrposhta eCom/status-tracking APIs)
// ============================================================================

// StatusEvent is one tracking event, ordered oldest first within a response.
type StatusEvent struct {
	Barcode   string `json:"barcode"`
	Step      int    `json:"step"`
	Date      string `json:"date"` // ISO 8601
	Index     string `json:"index,omitempty"`
	EventID   int    `json:"event"`
	EventName string `json:"eventName"`
	Country   string `json:"country,omitempty"`
}

// AddressRequest creates an address.
// Domestic addresses use the structured street/house fields; international
// ones put the whole street line into ForeignStreetHouseApartment.
type AddressRequest struct {
	Postcode                    string `json:"postcode,omitempty"`
	Country                     string `json:"country"` // ISO 3166-1 alpha-2
	Region                      string `json:"region,omitempty"`
	District                    string `json:"district,omitempty"`
	City                        string `json:"city"`
	Street                      string `json:"street,omitempty"`
	HouseNumber                 string `json:"houseNumber,omitempty"`
	ApartmentNumber             string `json:"apartmentNumber,omitempty"`
	ForeignStreetHouseApartment string `json:"foreignStreetHouseApartment,omitempty"`
}

// AddressRef is a created address.
type AddressRef struct {
	ID          int64  `json:"id"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
	Description string `json:"description,omitempty"`
}

// ClientRequest creates or updates a client record.
// CounterpartyUUID is filled in by the API implementation.
type ClientRequest struct {
	Name             string `json:"name,omitempty"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	MiddleName       string `json:"middleName,omitempty"`
	LatinName        string `json:"latinName,omitempty"`
	AddressID        int64  `json:"addressId,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Email            string `json:"email,omitempty"`
	Type             string `json:"type,omitempty"` // INDIVIDUAL or LEGAL_ENTITY
	TIN              string `json:"tin,omitempty"`
	CounterpartyUUID string `json:"counterpartyUuid,omitempty"`
}

// ClientRef is a client record as returned by the carrier.
type ClientRef struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	LatinName   string `json:"latinName,omitempty"`
	AddressID   int64  `json:"addressId,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	Type        string `json:"type,omitempty"`
}

// PartyRef references a client by UUID inside a shipment payload.
type PartyRef struct {
	UUID string `json:"uuid"`
}

// InternationalData carries the customs envelope of a shipment.
type InternationalData struct {
	CategoryType   string `json:"categoryType"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Tracked        bool   `json:"tracked,omitempty"`
	TransportType  string `json:"transportType,omitempty"` // AVIA for PRIME
	DaysForReturn  int    `json:"daysForReturn,omitempty"`
}

// ParcelItem is one declared content line.
type ParcelItem struct {
	Name            string `json:"name"`
	LatinName       string `json:"latinName"`
	Description     string `json:"description,omitempty"`
	Weight          int    `json:"weight"` // grams
	Quantity        int    `json:"quantity"`
	Price           int64  `json:"price"`
	Value           int64  `json:"value"` // duplicated for customs compatibility
	Currency        string `json:"currency"`
	HSCode          string `json:"hsCode"` // 6-10 digits
	CountryOfOrigin string `json:"countryOfOrigin"`
}

// Parcel is one physical parcel of a shipment.
type Parcel struct {
	Weight        int          `json:"weight"` // grams
	Length        int          `json:"length"` // cm
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	DeclaredPrice *int64       `json:"declaredPrice,omitempty"` // only package types that support it
	ParcelItems   []ParcelItem `json:"parcelItems"`
}

// ShipmentRequest creates an international shipment.
// POST /shipments endpoint.
type ShipmentRequest struct {
	Sender             PartyRef          `json:"sender"`
	Recipient          PartyRef          `json:"recipient"`
	SenderAddressID    int64             `json:"senderAddressId,omitempty"` // number, not object
	RecipientAddressID int64             `json:"recipientAddressId"`
	DeliveryType       string            `json:"deliveryType"` // W2W
	Weight             int               `json:"weight"`
	Length             int               `json:"length"`
	Width              int               `json:"width"`
	Height             int               `json:"height"`
	PackageType        string            `json:"packageType"`
	International      bool              `json:"international"`
	InternationalData  InternationalData `json:"internationalData"`
	Parcels            []Parcel          `json:"parcels"`
}

// ShipmentRef is a shipment as returned by the carrier.
type ShipmentRef struct {
	UUID          string `json:"uuid"`
	Barcode       string `json:"barcode"`
	Status        string `json:"status"`
	DeliveryPrice int64  `json:"deliveryPrice,omitempty"`
	Weight        int    `json:"weight,omitempty"`
	PackageType   string `json:"packageType,omitempty"`
	LastModified  string `json:"lastModified,omitempty"`
}

// GroupRef is a shipment dispatch group.
type GroupRef struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}
