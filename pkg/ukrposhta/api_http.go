package ukrposhta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	trackingPath = "/status-tracking/0.0.1"
	ecomPath     = "/ecom/0.0.1"
	formsPath    = "/forms/ecom/0.0.1"
)

// HTTPAPI is the production implementation of API using HTTP.
// The carrier splits its surface into a status-tracking sub-API and an
// e-commerce sub-API, each with its own bearer token; e-commerce calls
// additionally carry the counterparty token as a query parameter.
type HTTPAPI struct {
	baseURL           string
	bearerTracking    string
	bearerEcom        string
	counterpartyUUID  string
	counterpartyToken string
	httpClient        *http.Client
}

// HTTPAPIConfig holds configuration for the HTTP client.
type HTTPAPIConfig struct {
	BaseURL           string
	BearerTracking    string
	BearerEcom        string
	CounterpartyUUID  string
	CounterpartyToken string
	Timeout           time.Duration
}

// NewHTTPAPI creates a new HTTP-based API client for production use.
func NewHTTPAPI(cfg HTTPAPIConfig) *HTTPAPI {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPI{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		bearerTracking:    cfg.BearerTracking,
		bearerEcom:        cfg.BearerEcom,
		counterpartyUUID:  cfg.CounterpartyUUID,
		counterpartyToken: cfg.CounterpartyToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TrackStatuses fetches tracking events for the given barcodes.
// GET /statuses?barcode=a,b,c&lang=EN on the status-tracking sub-API.
func (c *HTTPAPI) TrackStatuses(ctx context.Context, barcodes []string) ([]StatusEvent, error) {
	const op = "track statuses"

	query := url.Values{}
	query.Set("barcode", strings.Join(barcodes, ","))
	query.Set("lang", "EN")

	endpoint := c.baseURL + trackingPath + "/statuses?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building tracking request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerTracking)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnreachableError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejected(op, resp)
	}

	var events []StatusEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding tracking response: %w", err)
	}
	return events, nil
}

// CreateAddress registers an address. POST /addresses.
func (c *HTTPAPI) CreateAddress(ctx context.Context, req *AddressRequest) (*AddressRef, error) {
	var ref AddressRef
	if err := c.doEcom(ctx, "create address", http.MethodPost, "/addresses", req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreateClient registers a client. POST /clients.
// The counterparty UUID is stamped onto every client write.
func (c *HTTPAPI) CreateClient(ctx context.Context, req *ClientRequest) (*ClientRef, error) {
	body := *req
	body.CounterpartyUUID = c.counterpartyUUID

	var ref ClientRef
	if err := c.doEcom(ctx, "create client", http.MethodPost, "/clients", &body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// UpdateClient updates a client record. PUT /clients/{uuid}.
func (c *HTTPAPI) UpdateClient(ctx context.Context, clientUUID string, req *ClientRequest) (*ClientRef, error) {
	body := *req
	body.CounterpartyUUID = c.counterpartyUUID

	var ref ClientRef
	if err := c.doEcom(ctx, "update client", http.MethodPut, "/clients/"+clientUUID, &body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetClient fetches a client by UUID. GET /clients/uuid/{uuid}.
func (c *HTTPAPI) GetClient(ctx context.Context, clientUUID string) (*ClientRef, error) {
	var ref ClientRef
	if err := c.doEcom(ctx, "get client", http.MethodGet, "/clients/uuid/"+clientUUID, nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreateShipment creates an international shipment. POST /shipments.
func (c *HTTPAPI) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentRef, error) {
	var ref ShipmentRef
	if err := c.doEcom(ctx, "create shipment", http.MethodPost, "/shipments", req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetShipment fetches a shipment by UUID. GET /shipments/{uuid}.
func (c *HTTPAPI) GetShipment(ctx context.Context, shipmentUUID string) (*ShipmentRef, error) {
	var ref ShipmentRef
	if err := c.doEcom(ctx, "get shipment", http.MethodGet, "/shipments/"+shipmentUUID, nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// DeleteShipment deletes a shipment. DELETE /shipments/{uuid}.
// A 400 means the shipment is past the CREATED state and is surfaced as
// ErrNotDeletable so callers can show a friendly message.
func (c *HTTPAPI) DeleteShipment(ctx context.Context, shipmentUUID string) error {
	const op = "delete shipment"

	resp, err := c.ecomRequest(ctx, op, http.MethodDelete, "/shipments/"+shipmentUUID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return ErrNotDeletable
	default:
		return rejected(op, resp)
	}
}

// CreateShipmentGroup creates a dispatch group. POST /shipment-groups.
func (c *HTTPAPI) CreateShipmentGroup(ctx context.Context, name string) (*GroupRef, error) {
	var ref GroupRef
	body := map[string]string{"name": name}
	if err := c.doEcom(ctx, "create shipment group", http.MethodPost, "/shipment-groups", body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetLabel fetches the label PDF for an international shipment.
// GET /international/shipments/{uuid}/{form} on the forms sub-API.
func (c *HTTPAPI) GetLabel(ctx context.Context, shipmentUUID string, form LabelForm) ([]byte, error) {
	const op = "get label"

	endpoint := fmt.Sprintf("%s%s/international/shipments/%s/%s?token=%s",
		c.baseURL, formsPath, shipmentUUID, form, url.QueryEscape(c.counterpartyToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building label request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerEcom)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnreachableError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejected(op, resp)
	}
	return io.ReadAll(resp.Body)
}

// doEcom performs an e-commerce request and decodes a 200 response into out.
func (c *HTTPAPI) doEcom(ctx context.Context, op, method, path string, body, out interface{}) error {
	resp, err := c.ecomRequest(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rejected(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// ecomRequest builds and performs an e-commerce sub-API request with the
// bearer token and the counterparty token query parameter attached.
func (c *HTTPAPI) ecomRequest(ctx context.Context, op, method, path string, body interface{}) (*http.Response, error) {
	endpoint := c.baseURL + ecomPath + path
	if strings.Contains(endpoint, "?") {
		endpoint += "&token=" + url.QueryEscape(c.counterpartyToken)
	} else {
		endpoint += "?token=" + url.QueryEscape(c.counterpartyToken)
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshaling request body: %w", op, err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerEcom)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnreachableError{Op: op, Cause: err}
	}
	return resp, nil
}

// rejected reads the response body into a RejectedError.
func rejected(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &RejectedError{
		Op:     op,
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

// Ensure HTTPAPI implements the API interface.
var _ API = (*HTTPAPI)(nil)
