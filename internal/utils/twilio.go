package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client — Twilio Messages API client (or a dry-run stand-in for local dev).
type Client struct {
	AccountSID string
	AuthToken  string
	From       string
	DryRun     bool

	// BaseURL is overridable in tests; empty means the real API.
	BaseURL string
}

type SendSMSResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func NewClient(accountSID, authToken, from string, dryRun bool) *Client {
	return &Client{AccountSID: accountSID, AuthToken: authToken, From: from, DryRun: dryRun}
}

// SendSMS posts one outbound message and returns the provider acknowledgment.
func (c *Client) SendSMS(to, body string) (*SendSMSResponse, error) {
	// DRY-RUN: no HTTP request, log-only delivery
	if c.DryRun || c.AccountSID == "" {
		fmt.Printf("[twilio][dry-run] to=%s from=%q body=%q\n", to, c.From, body)
		return &SendSMSResponse{SID: "dry-run", Status: "queued"}, nil
	}

	base := c.BaseURL
	if base == "" {
		base = "https://api.twilio.com"
	}
	apiURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", base, c.AccountSID)

	form := url.Values{
		"To":   {to},
		"From": {c.From},
		"Body": {body},
	}
	req, err := http.NewRequest(http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build SMS request: %w", err)
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var result SendSMSResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse SMS response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("twilio returned %d: %s", resp.StatusCode, result.ErrorMessage)
	}
	if result.ErrorCode != nil {
		return nil, fmt.Errorf("twilio error code %d: %s", *result.ErrorCode, result.ErrorMessage)
	}
	return &result, nil
}
