// Package dispatch assembles and submits international shipments: the
// ordered sequence of dependent carrier calls (sender, recipient address,
// recipient client, shipment) followed by the local ledger append. Each
// step is a hard dependency on the previous one succeeding; there is no
// compensating rollback of sub-resources already created.
package dispatch

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dovira/postal/internal/ledger"
	"github.com/dovira/postal/internal/refdata"
	"github.com/dovira/postal/internal/sender"
	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/go-playground/validator/v10"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Defaults applied to sparse line items, matching what the carrier's
// customs pipeline expects at minimum.
const (
	defaultItemName      = "Goods"
	defaultHSCode        = "6109100000"
	defaultDeclaredValue = 10
	defaultItemWeight    = 100
	defaultCategory      = "GIFT"
	defaultCurrency      = "USD"
	defaultDimensionCM   = 10
)

// declarablePackageTypes are the carrier package types that accept a
// declaredPrice field; attaching it to any other type is rejected.
var declarablePackageTypes = map[string]bool{
	"PARCEL":         true,
	"DECLARED_VALUE": true,
}

// Address is the destination address of a shipment request. Street is the
// free-text line used for international addresses.
type Address struct {
	Country string `json:"country" validate:"required"`
	Region  string `json:"region"`
	City    string `json:"city" validate:"required"`
	ZipCode string `json:"zipCode"`
	Street  string `json:"address" validate:"required"`
}

// Recipient is the receiving party of a shipment request.
type Recipient struct {
	FullName    string `json:"fullName" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	LegalEntity bool   `json:"legalEntity"`
}

// Dimensions are the physical parameters of the package.
type Dimensions struct {
	Weight int `json:"weight" validate:"required,gte=1"`
	Length int `json:"length" validate:"gte=0"`
	Width  int `json:"width" validate:"gte=0"`
	Height int `json:"height" validate:"gte=0"`
}

// LineItem is one declared content line.
type LineItem struct {
	Name            string `json:"latinName"`
	Description     string `json:"description"`
	HSCode          string `json:"hsCode" validate:"omitempty,numeric,min=6,max=10"`
	Price           int64  `json:"price" validate:"gte=0"`
	Currency        string `json:"currency"`
	Quantity        int    `json:"quantity" validate:"omitempty,gte=1"`
	Weight          int    `json:"weight" validate:"omitempty,gte=1"`
	CountryOfOrigin string `json:"countryOfOrigin" validate:"omitempty,len=2"`
}

// Request is the normalized shipment creation input.
type Request struct {
	Address       Address    `json:"address"`
	Recipient     Recipient  `json:"recipient"`
	Package       Dimensions `json:"package"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Currency      string     `json:"currency"`
	DeclaredValue int64      `json:"declaredValue"`
	EUInfo        string     `json:"euInfo"`
	GroupUUID     string     `json:"groupUuid"`
	Items         []LineItem `json:"items" validate:"dive"`
}

type carrier interface {
	CreateAddress(ctx context.Context, req *ukrposhta.AddressRequest) (*ukrposhta.AddressRef, error)
	CreateClient(ctx context.Context, req *ukrposhta.ClientRequest) (*ukrposhta.ClientRef, error)
	CreateShipment(ctx context.Context, req *ukrposhta.ShipmentRequest) (*ukrposhta.ShipmentRef, error)
}

// Assembler runs the shipment creation sequence.
type Assembler struct {
	api      carrier
	sender   *sender.Resolver
	store    *ledger.Store
	tables   *refdata.Tables
	validate *validator.Validate
	logger   *otelzap.Logger
}

// New creates a shipment assembler.
func New(api carrier, resolver *sender.Resolver, store *ledger.Store, tables *refdata.Tables, logger *otelzap.Logger) *Assembler {
	return &Assembler{
		api:      api,
		sender:   resolver,
		store:    store,
		tables:   tables,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Create runs the full creation sequence and appends the resulting record
// to the ledger. On failure it returns a StepError naming the failed step
// and any remote sub-resources already created.
func (a *Assembler) Create(ctx context.Context, req *Request) (*ledger.Record, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, stepErr(StepValidate, nil, err)
	}

	snd, err := a.sender.Resolve(ctx)
	if err != nil {
		return nil, stepErr(StepSender, nil, err)
	}

	var created []Resource

	countryCode := a.tables.CountryCode(req.Address.Country)
	addrReq := &ukrposhta.AddressRequest{
		Country:                     countryCode,
		City:                        req.Address.City,
		ForeignStreetHouseApartment: req.Address.Street,
		Postcode:                    req.Address.ZipCode,
		Region:                      req.Address.Region,
	}
	addrRef, err := a.api.CreateAddress(ctx, addrReq)
	if err != nil {
		return nil, stepErr(StepRecipientAddress, created, err)
	}
	created = append(created, Resource{Kind: "address", Ref: formatAddressID(addrRef.ID)})

	firstName, lastName := splitName(req.Recipient.FullName)
	clientType := "INDIVIDUAL"
	if req.Recipient.LegalEntity {
		clientType = "LEGAL_ENTITY"
	}
	clientReq := &ukrposhta.ClientRequest{
		Name:        req.Recipient.FullName,
		FirstName:   firstName,
		LastName:    lastName,
		LatinName:   req.Recipient.FullName,
		PhoneNumber: normalizePhone(req.Recipient.Phone),
		Email:       req.Recipient.Email,
		Type:        clientType,
		AddressID:   addrRef.ID,
	}
	clientRef, err := a.api.CreateClient(ctx, clientReq)
	if err != nil {
		// The address created above is now orphaned remotely; the step
		// error carries its reference for manual cleanup.
		return nil, stepErr(StepRecipientClient, created, err)
	}
	created = append(created, Resource{Kind: "client", Ref: clientRef.UUID})

	packageType := req.Type
	var tracked, avia bool
	if st, ok := a.tables.ShipmentType(req.Type); ok {
		packageType = st.PackageType
		tracked = st.RequiresTracked
		avia = st.RequiresAvia
	}

	items := a.buildItems(req)
	totalDeclared := a.totalDeclaredValue(items)

	parcel := ukrposhta.Parcel{
		Weight:      req.Package.Weight,
		Length:      dimensionOrDefault(req.Package.Length),
		Width:       dimensionOrDefault(req.Package.Width),
		Height:      dimensionOrDefault(req.Package.Height),
		ParcelItems: items,
	}
	if declarablePackageTypes[packageType] {
		parcel.DeclaredPrice = &totalDeclared
	}

	category := req.Category
	if category == "" {
		category = defaultCategory
	}
	intl := ukrposhta.InternationalData{
		CategoryType:   category,
		AdditionalInfo: req.EUInfo,
	}
	if tracked {
		intl.Tracked = true
	}
	if avia {
		intl.TransportType = "AVIA"
	}

	shipReq := &ukrposhta.ShipmentRequest{
		Sender:             ukrposhta.PartyRef{UUID: snd.UUID},
		Recipient:          ukrposhta.PartyRef{UUID: clientRef.UUID},
		SenderAddressID:    snd.AddressID,
		RecipientAddressID: addrRef.ID,
		DeliveryType:       "W2W",
		Weight:             req.Package.Weight,
		Length:             parcel.Length,
		Width:              parcel.Width,
		Height:             parcel.Height,
		PackageType:        packageType,
		International:      true,
		InternationalData:  intl,
		Parcels:            []ukrposhta.Parcel{parcel},
	}

	shipRef, err := a.api.CreateShipment(ctx, shipReq)
	if err != nil {
		return nil, stepErr(StepShipment, created, err)
	}
	created = append(created, Resource{Kind: "shipment", Ref: shipRef.UUID})

	status := shipRef.Status
	if status == "" {
		status = "CREATED"
	}
	rec := ledger.Record{
		UUID:          shipRef.UUID,
		Barcode:       shipRef.Barcode,
		Type:          req.Type,
		Status:        status,
		DeliveryPrice: shipRef.DeliveryPrice,
		Weight:        req.Package.Weight,
		Created:       time.Now(),
		GroupUUID:     req.GroupUUID,
		Recipient: ledger.Recipient{
			Name:        req.Recipient.FullName,
			PhoneNumber: req.Recipient.Phone,
			Email:       req.Recipient.Email,
		},
		RecipientAddress: ledger.Address{
			Country:  req.Address.Country,
			City:     req.Address.City,
			Street:   req.Address.Street,
			Postcode: req.Address.ZipCode,
		},
	}
	if err := a.store.Append(rec); err != nil {
		return nil, stepErr(StepLedger, created, err)
	}

	a.logger.Ctx(ctx).Info("Shipment assembled",
		zap.String("shipment_uuid", shipRef.UUID),
		zap.String("barcode", shipRef.Barcode),
		zap.String("package_type", packageType),
		zap.Int("items", len(items)))
	return &rec, nil
}

// buildItems maps the request's line items to carrier parcel items,
// applying defaults to sparse fields. When no items were supplied, exactly
// one default line is synthesized from the package totals so the carrier
// never receives an empty manifest.
func (a *Assembler) buildItems(req *Request) []ukrposhta.ParcelItem {
	if len(req.Items) == 0 {
		value := req.DeclaredValue
		if value == 0 {
			value = defaultDeclaredValue
		}
		currency := req.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		return []ukrposhta.ParcelItem{{
			Name:            defaultItemName,
			LatinName:       defaultItemName,
			Description:     defaultItemName,
			Weight:          req.Package.Weight,
			Quantity:        1,
			Price:           value,
			Value:           value,
			Currency:        currency,
			HSCode:          defaultHSCode,
			CountryOfOrigin: "UA",
		}}
	}

	items := make([]ukrposhta.ParcelItem, 0, len(req.Items))
	for _, item := range req.Items {
		name := item.Name
		if name == "" {
			name = defaultItemName
		}
		weight := item.Weight
		if weight == 0 {
			weight = defaultItemWeight
		}
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		currency := item.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		hsCode := item.HSCode
		if hsCode == "" {
			hsCode = defaultHSCode
		}
		// Customs forms reject empty content descriptions.
		description := item.Description
		if description == "" {
			description = name
		}
		origin := item.CountryOfOrigin
		if origin == "" {
			origin = "UA"
		}

		items = append(items, ukrposhta.ParcelItem{
			Name:            name,
			LatinName:       name,
			Description:     description,
			Weight:          weight,
			Quantity:        quantity,
			Price:           item.Price,
			Value:           item.Price, // duplicated for customs compatibility
			Currency:        currency,
			HSCode:          hsCode,
			CountryOfOrigin: origin,
		})
	}
	return items
}

// totalDeclaredValue sums price x quantity per item, converted to UAH
// through the static rate table. Unknown currencies use the USD rate.
func (a *Assembler) totalDeclaredValue(items []ukrposhta.ParcelItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Value * int64(item.Quantity) * a.tables.Rate(item.Currency)
	}
	return total
}

// splitName splits a full name into a first token and the remainder. When
// there is no space, the remainder defaults to the first token.
func splitName(full string) (first, rest string) {
	first, rest, found := strings.Cut(strings.TrimSpace(full), " ")
	if !found || rest == "" {
		rest = first
	}
	return first, rest
}

// normalizePhone strips the formatting characters the carrier rejects.
func normalizePhone(phone string) string {
	replacer := strings.NewReplacer("+", "", " ", "", "-", "")
	return replacer.Replace(phone)
}

func dimensionOrDefault(v int) int {
	if v == 0 {
		return defaultDimensionCM
	}
	return v
}

func formatAddressID(id int64) string {
	return strconv.FormatInt(id, 10)
}
