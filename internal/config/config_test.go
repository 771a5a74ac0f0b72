package config_test

import (
	"testing"

	"github.com/dovira/postal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestLoad_Defaults(t *testing.T) {
	// Empty values make envconfig fall back to the struct defaults even
	// when the surrounding environment defines these variables.
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LEDGER_PATH", "")
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("UKRPOSHTA_COUNTERPARTY_UUID", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "shipments.json", cfg.LedgerPath)
	assert.Equal(t, "dovira-postal", cfg.ServiceName)
	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_InvalidCounterpartyUUID(t *testing.T) {
	t.Setenv("UKRPOSHTA_COUNTERPARTY_UUID", "not-a-uuid")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "counterparty UUID")
}

func TestLoad_ValidCounterpartyUUID(t *testing.T) {
	t.Setenv("UKRPOSHTA_COUNTERPARTY_UUID", "11111111-2222-3333-4444-555555555555")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", cfg.UkrposhtaCounterpartyUUID)
}

func TestAttributes(t *testing.T) {
	cfg := &config.Config{
		UkrposhtaUseMock: true,
		UkrposhtaBaseURL: "https://www.ukrposhta.ua",
	}

	attrs := cfg.Attributes()

	assert.Contains(t, attrs, attribute.Bool("ukrposhta.mock", true))
	assert.Contains(t, attrs, attribute.String("ukrposhta.base_url", "https://www.ukrposhta.ua"))
}
