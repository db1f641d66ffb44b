package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/logger"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const (
	opSearch  = "search"
	opDetails = "details"
)

const (
	contentType           = "application/json"
	restliProtocolHeader  = "X-Restli-Protocol-Version"
	restliProtocolVersion = "2.0.0"
	rateLimitRemainingHdr = "X-RateLimit-Remaining"
	rateLimitResetHdr     = "X-RateLimit-Reset"
	maxLoggedBody         = 512
)

// log tags entries with the provider and the operation being served.
func (c *Client) log(operation string) *zap.Logger {
	return logger.WithCommonFields(c.logger, string(provider.TypeLinkedIn), operation)
}

func (c *Client) getJSON(ctx context.Context, operation, path string, q url.Values, target any) (http.Header, error) {
	if !c.IsConfigured() {
		return nil, c.configError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set(restliProtocolHeader, restliProtocolVersion)
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	log := c.log(operation)

	log.Debug("make request", zap.String("path", req.URL.Path))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		var tokenErr *tokenError
		if errors.As(err, &tokenErr) {
			return nil, fmt.Errorf("%s: %w", tokenErr.Error(), provider.ErrUnauthorized)
		}
		return nil, fmt.Errorf("linkedin request %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.recordRateLimit(resp.Header)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading linkedin response %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("linkedin request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.TruncateForLog(string(data), maxLoggedBody)),
		)
		return resp.Header, provider.ErrorFromStatus(provider.TypeLinkedIn, resp.StatusCode, string(data), hints)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return resp.Header, fmt.Errorf("decoding linkedin response %s: %w", path, err)
	}

	return resp.Header, nil
}

func (c *Client) recordRateLimit(h http.Header) {
	remaining, reset := parseRateLimit(h)
	if remaining == nil && reset == "" {
		return
	}

	c.mu.Lock()
	c.rateLimit = rateLimit{remaining: remaining, reset: reset}
	c.mu.Unlock()
}

func parseRateLimit(h http.Header) (*int, string) {
	var remaining *int
	if raw := strings.TrimSpace(h.Get(rateLimitRemainingHdr)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			remaining = candidate.Ptr(n)
		}
	}
	return remaining, strings.TrimSpace(h.Get(rateLimitResetHdr))
}
