// Package tools implements the tool handlers exposed to model-driven clients
// and their registration on an MCP server.
package tools

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/ai"
	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

// ProviderSelector resolves the active provider adapter.
type ProviderSelector interface {
	Active() (provider.Provider, error)
	ActiveType() (provider.Type, error)
	Statuses(ctx context.Context) ([]provider.Status, error)
}

// Handlers holds the collaborators every tool needs. It is safe for
// concurrent use.
type Handlers struct {
	selector ProviderSelector
	store    *bookmarks.Store
	matcher  ai.Matcher
	logger   *zap.Logger
	newID    func() string

	mu           sync.Mutex
	lastSearch   []candidate.Candidate
	lastSearchID string
}

// New builds the handlers. matcher may be nil, which disables fit assessment.
func New(selector ProviderSelector, store *bookmarks.Store, matcher ai.Matcher, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handlers{
		selector: selector,
		store:    store,
		matcher:  matcher,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// HasMatcher reports whether fit assessment is available.
func (h *Handlers) HasMatcher() bool {
	return h.matcher != nil
}

func (h *Handlers) rememberSearch(candidates []candidate.Candidate, searchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSearch = slices.Clone(candidates)
	h.lastSearchID = searchID
}

// LastSearch returns a copy of the candidates returned by the latest search.
func (h *Handlers) LastSearch() ([]candidate.Candidate, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.lastSearch), h.lastSearchID
}

// fromLastSearch looks a candidate up by its Key.
func (h *Handlers) fromLastSearch(key string) (candidate.Candidate, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.lastSearch {
		if h.lastSearch[i].Key() == key {
			return h.lastSearch[i], true
		}
	}
	return candidate.Candidate{}, false
}

// bookmarkedIDs reports which of the candidates are already bookmarked. A
// store failure is logged and leaves the rest unmarked.
func (h *Handlers) bookmarkedIDs(candidates []candidate.Candidate) map[string]bool {
	marked := make(map[string]bool, len(candidates))
	if h.store == nil {
		return marked
	}

	for _, c := range candidates {
		ok, err := h.store.IsBookmarked(c.SourceID)
		if err != nil {
			h.logger.Warn("checking bookmarks", zap.Error(err))
			return marked
		}
		marked[c.SourceID] = ok
	}

	return marked
}

// decode maps raw tool arguments onto a json-tagged input struct. Any
// mismatch is reported as invalid input.
func decode(args map[string]any, out any) error {
	if args == nil {
		args = map[string]any{}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: integralHook,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(args); err != nil {
		return provider.InvalidInput("%v", err)
	}

	return nil
}

// integralHook rejects fractional numbers destined for integer fields, which
// mapstructure would otherwise truncate.
func integralHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}

	if to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	if to.Kind() == reflect.Int && f != math.Trunc(f) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}

	return data, nil
}
