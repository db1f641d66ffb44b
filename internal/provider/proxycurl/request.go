package proxycurl

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/logger"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const (
	opSearch         = "search"
	opDetails        = "details"
	opCreditBalance  = "credit_balance"
	opRoleLookup     = "role_lookup"
	opResolveProfile = "resolve_profile"
)

const (
	contentType      = "application/json"
	contentEncoding  = "gzip"
	creditCostHeader = "X-Proxycurl-Credit-Cost"
	maxLoggedBody    = 512
)

// log tags entries with the provider and the operation being served.
func (c *Client) log(operation string) *zap.Logger {
	return logger.WithCommonFields(c.logger, string(provider.TypeProxycurl), operation)
}

func (c *Client) getJSON(ctx context.Context, operation, path string, q url.Values, target any) error {
	if !c.IsConfigured() {
		return c.configError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	c.setHeaders(req)
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	log := c.log(operation)

	resp, err := c.request(log, req)
	if err != nil {
		return fmt.Errorf("proxycurl request %s: %w", path, err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading proxycurl response %s: %w", path, err)
	}

	if cost := resp.Header.Get(creditCostHeader); cost != "" {
		log.Debug("proxycurl credits spent", zap.String("path", path), zap.String("cost", cost))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("proxycurl request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.TruncateForLog(string(data), maxLoggedBody)),
		)
		return provider.ErrorFromStatus(provider.TypeProxycurl, resp.StatusCode, string(data), hints)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding proxycurl response %s: %w", path, err)
	}

	return nil
}

func (c *Client) request(log *zap.Logger, req *http.Request) (*http.Response, error) {
	log.Debug("make request", zap.String("path", req.URL.Path))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

// isNotFound reports whether err is a remote 404.
func isNotFound(err error) bool {
	return errors.Is(err, provider.ErrNotFound)
}
