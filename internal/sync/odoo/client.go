package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"consultly/internal/config"
	syncx "consultly/internal/sync"
)

// Client talks to Odoo's external JSON-RPC endpoint and creates calendar
// appointments bound to the configured API user.
type Client struct {
	cfg  config.OdooConfig
	http *http.Client
}

func NewClient(cfg config.OdooConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.cfg.IsConfigured()
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Message string `json:"message"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
}

func (e *rpcError) Error() string {
	if e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}

func (c *Client) CreateAppointment(ctx context.Context, req syncx.AppointmentRequest) (*syncx.RemoteRef, error) {
	description := fmt.Sprintf(
		"Customer: %s\nEmail: %s\nPhone: %s\n\n%s",
		req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.Notes,
	)

	values := map[string]any{
		"name":        fmt.Sprintf("Consultation: %s", req.CustomerName),
		"start":       req.StartTime.UTC().Format("2006-01-02 15:04:05"),
		"stop":        req.EndTime.UTC().Format("2006-01-02 15:04:05"),
		"description": description,
	}

	raw, err := c.executeKw(ctx, "calendar.event", "create", []any{values})
	if err != nil {
		return nil, err
	}

	var remoteID int64
	if err := json.Unmarshal(raw, &remoteID); err != nil {
		return nil, fmt.Errorf("odoo create: unexpected result %s", string(raw))
	}
	if remoteID <= 0 {
		return nil, fmt.Errorf("odoo create: invalid record id %d", remoteID)
	}

	return &syncx.RemoteRef{RemoteID: strconv.FormatInt(remoteID, 10)}, nil
}

func (c *Client) executeKw(ctx context.Context, model, method string, args []any) (json.RawMessage, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: rpcParams{
			Service: "object",
			Method:  "execute_kw",
			Args: []any{
				c.cfg.Database,
				c.cfg.UserID,
				c.cfg.APIKey,
				model,
				method,
				args,
			},
		},
		ID: time.Now().UnixNano(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/jsonrpc", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("odoo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odoo request: status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("odoo response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("odoo error: %s", rpcResp.Error.Error())
	}
	return rpcResp.Result, nil
}
