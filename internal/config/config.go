package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Ukrposhta carrier API
	UkrposhtaBaseURL           string `envconfig:"UKRPOSHTA_BASE_URL" default:"https://www.ukrposhta.ua"`
	UkrposhtaBearerTracking    string `envconfig:"UKRPOSHTA_BEARER_TRACKING"`
	UkrposhtaBearerEcom        string `envconfig:"UKRPOSHTA_BEARER_ECOM"`
	UkrposhtaCounterpartyUUID  string `envconfig:"UKRPOSHTA_COUNTERPARTY_UUID"`
	UkrposhtaCounterpartyToken string `envconfig:"UKRPOSHTA_COUNTERPARTY_TOKEN"`
	UkrposhtaUseMock           bool   `envconfig:"UKRPOSHTA_USE_MOCK" default:"false"`

	// Sender profile
	SenderName        string `envconfig:"SENDER_NAME"`
	SenderLatinName   string `envconfig:"SENDER_LATIN_NAME"`
	SenderFirstName   string `envconfig:"SENDER_FIRST_NAME"`
	SenderLastName    string `envconfig:"SENDER_LAST_NAME"`
	SenderMiddleName  string `envconfig:"SENDER_MIDDLE_NAME"`
	SenderPhone       string `envconfig:"SENDER_PHONE"`
	SenderTIN         string `envconfig:"SENDER_TIN"`
	SenderPostcode    string `envconfig:"SENDER_POSTCODE"`
	SenderCountry     string `envconfig:"SENDER_COUNTRY" default:"UA"`
	SenderRegion      string `envconfig:"SENDER_REGION"`
	SenderCity        string `envconfig:"SENDER_CITY"`
	SenderStreet      string `envconfig:"SENDER_STREET"`
	SenderHouseNumber string `envconfig:"SENDER_HOUSE_NUMBER"`
	SenderApartment   string `envconfig:"SENDER_APARTMENT"`
	SenderAddressID   int64  `envconfig:"SENDER_ADDRESS_ID"`

	// Local ledger and reference data
	LedgerPath  string `envconfig:"LEDGER_PATH" default:"shipments.json"`
	RefDataPath string `envconfig:"REFDATA_PATH"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"dovira-postal"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.UkrposhtaCounterpartyUUID != "" {
		if _, err := uuid.Parse(cfg.UkrposhtaCounterpartyUUID); err != nil {
			return nil, fmt.Errorf("invalid counterparty UUID: %w", err)
		}
	}
	return &cfg, nil
}

// Attributes returns deployment attributes for the tracer resource.
// Service name and version are carried separately by the tracer bootstrap.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("ukrposhta.mock", c.UkrposhtaUseMock),
		attribute.String("ukrposhta.base_url", c.UkrposhtaBaseURL),
	}
}
