package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dovira/postal/internal/config"
	"github.com/dovira/postal/internal/dispatch"
	"github.com/dovira/postal/internal/ledger"
	"github.com/dovira/postal/internal/pricing"
	"github.com/dovira/postal/internal/refdata"
	"github.com/dovira/postal/internal/sender"
	"github.com/dovira/postal/internal/server"
	"github.com/dovira/postal/internal/telemetry"
	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	return shutdown, err
}

// initComponents wires the carrier client and the orchestration layers in
// dependency order: tables, carrier, sender, ledger, assembler.
func initComponents(cfg *config.Config, logger *otelzap.Logger) (server.Deps, error) {
	tables, err := refdata.Load(cfg.RefDataPath)
	if err != nil {
		return server.Deps{}, fmt.Errorf("loading reference data: %w", err)
	}

	tracer := otel.GetTracerProvider().Tracer(cfg.ServiceName)
	carrier := ukrposhta.New(ukrposhta.Config{
		BaseURL:           cfg.UkrposhtaBaseURL,
		BearerTracking:    cfg.UkrposhtaBearerTracking,
		BearerEcom:        cfg.UkrposhtaBearerEcom,
		CounterpartyUUID:  cfg.UkrposhtaCounterpartyUUID,
		CounterpartyToken: cfg.UkrposhtaCounterpartyToken,
		Timeout:           30 * time.Second,
		UseMock:           cfg.UkrposhtaUseMock,
	}, logger, tracer)

	resolver := sender.New(sender.Profile{
		UUID:        cfg.UkrposhtaCounterpartyUUID,
		AddressID:   cfg.SenderAddressID,
		Name:        cfg.SenderName,
		LatinName:   cfg.SenderLatinName,
		FirstName:   cfg.SenderFirstName,
		LastName:    cfg.SenderLastName,
		MiddleName:  cfg.SenderMiddleName,
		PhoneNumber: cfg.SenderPhone,
		TIN:         cfg.SenderTIN,
		Postcode:    cfg.SenderPostcode,
		Country:     cfg.SenderCountry,
		Region:      cfg.SenderRegion,
		City:        cfg.SenderCity,
		Street:      cfg.SenderStreet,
		HouseNumber: cfg.SenderHouseNumber,
		Apartment:   cfg.SenderApartment,
	}, carrier, logger)

	store := ledger.NewStore(cfg.LedgerPath, logger)
	reconciler := ledger.NewReconciler(store, carrier, logger)
	assembler := dispatch.New(carrier, resolver, store, tables, logger)

	return server.Deps{
		Carrier:    carrier,
		Estimator:  pricing.New(tables),
		Assembler:  assembler,
		Store:      store,
		Reconciler: reconciler,
		Tables:     tables,
	}, nil
}
