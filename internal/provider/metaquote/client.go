// Package metaquote implements the account-data provider against a
// MetaTrader cloud-API style REST service.
package metaquote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tranvu/roitrack/internal/provider"
	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/httputil"
	"github.com/tranvu/roitrack/pkg/logger"
)

// callTimeout bounds every provider call.
const callTimeout = 30 * time.Second

// Client handles communication with the account-data API.
// SSOT: provider API calls happen in this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.ProviderConfig
}

// NewClient creates a new provider client.
func NewClient(cfg config.ProviderConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// accountResponse is the account descriptor returned on authentication.
type accountResponse struct {
	ID     string `json:"_id"`
	Login  string `json:"login"`
	Server string `json:"server"`
	State  string `json:"state"`
}

// Authenticate validates the access token against the account endpoint
// and resolves the account's identity.
func (c *Client) Authenticate(ctx context.Context) (provider.Session, error) {
	var acc accountResponse
	err := c.getJSON(ctx, fmt.Sprintf("/users/current/accounts/%s", c.cfg.AccountID), &acc)
	if err != nil {
		return provider.Session{}, authify(err, "account lookup")
	}

	if acc.State != "" && acc.State != "DEPLOYED" {
		c.logger.WithFields(map[string]interface{}{
			"account": c.cfg.AccountID,
			"state":   acc.State,
		}).Warn("Account not deployed, data may be stale")
	}

	return provider.Session{
		AccountID: c.cfg.AccountID,
		Login:     acc.Login,
		Server:    acc.Server,
	}, nil
}

// accountInformation is the live equity/balance payload.
type accountInformation struct {
	Balance  float64 `json:"balance"`
	Equity   float64 `json:"equity"`
	Currency string  `json:"currency"`
}

// FetchSnapshot reads the current account information.
func (c *Client) FetchSnapshot(ctx context.Context, sess provider.Session) (provider.AccountSnapshot, error) {
	var info accountInformation
	err := c.getJSON(ctx, fmt.Sprintf("/users/current/accounts/%s/account-information", sess.AccountID), &info)
	if err != nil {
		return provider.AccountSnapshot{}, err
	}

	return provider.AccountSnapshot{
		Equity:     decimal.NewFromFloat(info.Equity),
		Balance:    decimal.NewFromFloat(info.Balance),
		ObservedAt: time.Now(),
		Login:      sess.Login,
		Server:     sess.Server,
	}, nil
}

// dailyGainEntry is one day's return in the provider's history payload.
type dailyGainEntry struct {
	Date string  `json:"date"` // 2006-01-02
	Gain float64 `json:"gain"` // percent
}

// FetchDailyGains returns the ordered daily returns in [from, to].
// Entries are sorted by date and de-duplicated, keeping the last entry
// for a day.
func (c *Client) FetchDailyGains(ctx context.Context, sess provider.Session, from, to time.Time) ([]provider.GainSample, error) {
	path := fmt.Sprintf("/users/current/accounts/%s/daily-gain?%s", sess.AccountID, url.Values{
		"from": {from.Format("2006-01-02")},
		"to":   {to.Format("2006-01-02")},
	}.Encode())

	var entries []dailyGainEntry
	if err := c.getJSON(ctx, path, &entries); err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]provider.GainSample, len(entries))
	for _, e := range entries {
		day, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, &provider.NetworkError{Op: "daily-gain", Err: fmt.Errorf("bad date %q: %w", e.Date, err)}
		}
		byDay[day] = provider.GainSample{Date: day, Percent: decimal.NewFromFloat(e.Gain)}
	}

	samples := make([]provider.GainSample, 0, len(byDay))
	for _, s := range byDay {
		samples = append(samples, s)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Date.Before(samples[j].Date) })

	return samples, nil
}

// accountMetrics carries the provider's cumulative statistics.
type accountMetrics struct {
	Gain float64 `json:"gain"` // all-time percent gain
}

// FetchCumulativeGain returns the provider's all-time gain figure.
func (c *Client) FetchCumulativeGain(ctx context.Context, sess provider.Session) (decimal.Decimal, error) {
	var metrics accountMetrics
	err := c.getJSON(ctx, fmt.Sprintf("/users/current/accounts/%s/metrics", sess.AccountID), &metrics)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(metrics.Gain), nil
}

// getJSON performs an authenticated GET and decodes the JSON body into
// dest, mapping failures onto the provider error taxonomy.
func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return &provider.NetworkError{Op: path, Err: err}
	}
	req.Header.Set("auth-token", c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &provider.NetworkError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &provider.AuthError{Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &provider.NetworkError{Op: path, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &provider.NetworkError{Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

// authify upgrades transport failures during session establishment to
// the fatal auth path; an existing AuthError passes through.
func authify(err error, reason string) error {
	if provider.IsAuth(err) {
		return err
	}
	return &provider.AuthError{Reason: reason, Err: err}
}
