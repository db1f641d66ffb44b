package tools

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

func callResultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestWrapConvertsErrorsToFailureResults(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeProvider{})
	handler := h.wrap("failing", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("provider exploded")
	})

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("wrap must not return protocol errors, got %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected isError result")
	}
	if got := callResultText(t, res); got != "Error: provider exploded" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestWrapRendersIndentedJSON(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeProvider{})
	handler := h.wrap("tags", h.BookmarkTags)

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected failure result: %s", callResultText(t, res))
	}

	want := "{\n  \"tags\": [],\n  \"count\": 0\n}"
	if got := callResultText(t, res); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapPassesArguments(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{result: &candidate.SearchResult{}}
	h := newTestHandlers(t, p)
	handler := h.wrap("linkedin_search_candidates", h.SearchCandidates)

	req := mcp.CallToolRequest{}
	req.Params.Name = "linkedin_search_candidates"
	req.Params.Arguments = map[string]any{"page_size": float64(99)}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError || !strings.HasPrefix(callResultText(t, res), "Error: invalid input: page_size") {
		t.Fatalf("expected invalid input failure, got %+v", res)
	}
	if p.calls() != 0 {
		t.Fatalf("provider must not be called")
	}
}

func listedTools(t *testing.T, h *Handlers) []string {
	t.Helper()

	s := NewServer(h, "test")
	msg := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	names := make([]string, 0, len(resp.Result.Tools))
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	return names
}

func TestRegisterListsTools(t *testing.T) {
	t.Parallel()

	base := []string{
		"bookmark_candidate",
		"export_candidates",
		"get_bookmark_tags",
		"get_provider_status",
		"linkedin_get_candidate_details",
		"linkedin_search_candidates",
		"list_bookmarks",
		"lookup_candidate_by_role",
		"remove_bookmark",
		"resolve_profile_url",
		"update_bookmark",
	}

	h := newTestHandlers(t, &fakeProvider{})
	if got := listedTools(t, h); !slices.Equal(got, base) {
		t.Fatalf("unexpected tools without matcher: %v", got)
	}

	h.matcher = &fakeMatcher{}
	withFit := append(slices.Clone(base), "assess_candidate_fit")
	slices.Sort(withFit)
	if got := listedTools(t, h); !slices.Equal(got, withFit) {
		t.Fatalf("unexpected tools with matcher: %v", got)
	}
}
