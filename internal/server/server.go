// Package server exposes the orchestration operations over HTTP. Every
// operation answers with the {success, data, error} JSON envelope; label
// retrieval streams the PDF through unchanged.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dovira/postal/internal/dispatch"
	"github.com/dovira/postal/internal/ledger"
	"github.com/dovira/postal/internal/pricing"
	"github.com/dovira/postal/internal/refdata"
	"github.com/dovira/postal/internal/telemetry"
	"github.com/dovira/postal/pkg/ukrposhta"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// Server is the HTTP server for the postal service.
type Server struct {
	port       int
	carrier    *ukrposhta.Client
	estimator  *pricing.Estimator
	assembler  *dispatch.Assembler
	store      *ledger.Store
	reconciler *ledger.Reconciler
	tables     *refdata.Tables
	logger     *otelzap.Logger
	metrics    *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// Deps bundles the orchestration components the server fronts.
type Deps struct {
	Carrier    *ukrposhta.Client
	Estimator  *pricing.Estimator
	Assembler  *dispatch.Assembler
	Store      *ledger.Store
	Reconciler *ledger.Reconciler
	Tables     *refdata.Tables
}

// New creates a new server instance.
func New(cfg Config, deps Deps, logger *otelzap.Logger) *Server {
	return &Server{
		port:       cfg.Port,
		carrier:    deps.Carrier,
		estimator:  deps.Estimator,
		assembler:  deps.Assembler,
		store:      deps.Store,
		reconciler: deps.Reconciler,
		tables:     deps.Tables,
		logger:     logger,
		metrics:    telemetry.NewMetrics(),
	}
}

// Handler builds the route table. Split out from Run so tests can exercise
// the routes without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/track", s.handle("track", s.track))
	mux.HandleFunc("GET /api/calculate", s.handle("calculate", s.calculate))
	mux.HandleFunc("POST /api/shipment", s.handle("create_shipment", s.createShipment))
	mux.HandleFunc("GET /api/shipments", s.handle("list_shipments", s.listShipments))
	mux.HandleFunc("GET /api/shipment/{uuid}", s.handle("get_shipment", s.getShipment))
	mux.HandleFunc("DELETE /api/shipment/{uuid}", s.handle("delete_shipment", s.deleteShipment))
	mux.HandleFunc("GET /api/label/{uuid}", s.handleLabel)
	mux.HandleFunc("POST /api/import-shipment", s.handle("import_shipment", s.importShipment))
	mux.HandleFunc("POST /api/shipment-group", s.handle("create_group", s.createGroup))

	mux.HandleFunc("GET /api/shipment-types", s.handle("shipment_types", s.shipmentTypes))
	mux.HandleFunc("GET /api/countries", s.handle("countries", s.countries))
	mux.HandleFunc("GET /api/categories", s.handle("categories", s.categories))
	mux.HandleFunc("GET /api/currencies", s.handle("currencies", s.currencies))
	mux.HandleFunc("GET /api/hs-codes", s.handle("hs_codes", s.hsCodes))

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// response is the envelope every orchestration operation answers with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handle wraps an operation handler with the JSON envelope and metrics.
// Remote-API failures never crash the process; they come back as
// {success:false, error:"..."}.
func (s *Server) handle(op string, fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data, err := fn(r)

		w.Header().Set("Content-Type", "application/json")
		status := "success"
		if err != nil {
			status = "error"
			s.logger.Ctx(r.Context()).Warn("Operation failed",
				zap.String("operation", op), zap.Error(err))
			json.NewEncoder(w).Encode(response{Success: false, Error: err.Error()})
		} else {
			json.NewEncoder(w).Encode(response{Success: true, Data: data})
		}
		s.metrics.RecordRequest(op, status, time.Since(start).Seconds())
	}
}

// ============================================================================
// Orchestration handlers
// ============================================================================

type trackRequest struct {
	Barcodes []string `json:"barcodes"`
}

func (s *Server) track(r *http.Request) (any, error) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(req.Barcodes) == 0 {
		return nil, errors.New("no barcodes provided")
	}

	if len(req.Barcodes) == 1 {
		return s.carrier.TrackStatus(r.Context(), req.Barcodes[0])
	}
	return s.carrier.TrackStatuses(r.Context(), req.Barcodes)
}

func (s *Server) calculate(r *http.Request) (any, error) {
	country := r.URL.Query().Get("country")
	weightParam := r.URL.Query().Get("weight")
	if country == "" || weightParam == "" {
		return nil, errors.New("missing country or weight")
	}
	weight, err := strconv.Atoi(weightParam)
	if err != nil {
		return nil, fmt.Errorf("invalid weight: %w", err)
	}

	class := pricing.DefaultClass
	if st, ok := s.tables.ShipmentType(r.URL.Query().Get("type")); ok {
		class = st.CalcType
	}
	return s.estimator.Estimate(country, weight, class), nil
}

func (s *Server) createShipment(r *http.Request) (any, error) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	rec, err := s.assembler.Create(r.Context(), &req)
	if err != nil {
		var step *dispatch.StepError
		if errors.As(err, &step) {
			s.metrics.RecordCarrierError("create_shipment", string(step.Step))
		}
		return nil, err
	}
	s.metrics.LedgerSize.Set(float64(len(s.store.All())))
	return rec, nil
}

func (s *Server) listShipments(r *http.Request) (any, error) {
	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)
	return s.reconciler.List(r.Context(), limit, offset), nil
}

func (s *Server) getShipment(r *http.Request) (any, error) {
	return s.carrier.GetShipment(r.Context(), r.PathValue("uuid"))
}

// deleteShipment deletes remotely first; the local record is removed only
// after the carrier confirms, so a rejected delete leaves the ledger
// unchanged.
func (s *Server) deleteShipment(r *http.Request) (any, error) {
	shipmentUUID := r.PathValue("uuid")

	if err := s.carrier.DeleteShipment(r.Context(), shipmentUUID); err != nil {
		return nil, err
	}
	if err := s.store.Remove(shipmentUUID); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Shipment deleted successfully"}, nil
}

type importRequest struct {
	Barcode   string           `json:"barcode"`
	Recipient ledger.Recipient `json:"recipient"`
	Address   ledger.Address   `json:"address"`
}

func (s *Server) importShipment(r *http.Request) (any, error) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if req.Barcode == "" {
		return nil, errors.New("barcode is required")
	}

	rec, err := s.reconciler.Import(r.Context(), req.Barcode, req.Recipient, req.Address)
	if err != nil {
		return nil, err
	}
	return map[string]string{"barcode": rec.Barcode, "status": rec.Status}, nil
}

type groupRequest struct {
	Name string `json:"name"`
}

func (s *Server) createGroup(r *http.Request) (any, error) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if req.Name == "" {
		return nil, errors.New("group name is required")
	}
	return s.carrier.CreateShipmentGroup(r.Context(), req.Name)
}

// handleLabel streams the label PDF; it bypasses the JSON envelope except
// on failure.
func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	shipmentUUID := r.PathValue("uuid")

	form := r.URL.Query().Get("type")
	if form == "" {
		form = string(ukrposhta.FormCombined)
	}
	if !ukrposhta.ValidLabelForm(form) {
		s.writeError(w, fmt.Sprintf("unknown label type %q", form))
		s.metrics.RecordRequest("get_label", "error", time.Since(start).Seconds())
		return
	}

	data, err := s.carrier.GetLabel(r.Context(), shipmentUUID, ukrposhta.LabelForm(form))
	if err != nil {
		s.writeError(w, "could not generate label: "+err.Error())
		s.metrics.RecordRequest("get_label", "error", time.Since(start).Seconds())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=label_%s_%s.pdf", shipmentUUID, form))
	w.Write(data)
	s.metrics.RecordRequest("get_label", "success", time.Since(start).Seconds())
}

// ============================================================================
// Reference data handlers
// ============================================================================

func (s *Server) shipmentTypes(r *http.Request) (any, error) {
	return s.tables.ShipmentTypes, nil
}

func (s *Server) countries(r *http.Request) (any, error) {
	return s.tables.Countries, nil
}

func (s *Server) categories(r *http.Request) (any, error) {
	return s.tables.Categories, nil
}

func (s *Server) currencies(r *http.Request) (any, error) {
	return s.tables.Currencies, nil
}

func (s *Server) hsCodes(r *http.Request) (any, error) {
	return s.tables.SearchHSCodes(r.URL.Query().Get("q"), 20), nil
}

func (s *Server) writeError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{Success: false, Error: msg})
}

// queryInt parses a non-negative integer query parameter. Malformed or
// negative values fall back to the default instead of reaching the slicing
// logic downstream.
func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
