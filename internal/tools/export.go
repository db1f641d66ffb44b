package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/export"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const (
	SourceLastSearch = "last_search"
	SourceBookmarks  = "bookmarks"
)

type exportInput struct {
	Format       string   `json:"format"`
	Source       string   `json:"source"`
	BookmarkTags []string `json:"bookmark_tags,omitempty"`
}

type exportOutput struct {
	Format  export.Format `json:"format"`
	Source  string        `json:"source"`
	Count   int           `json:"count"`
	Data    string        `json:"data"`
	Message string        `json:"message"`
}

// ExportCandidates renders the last search or the bookmarks as JSON or CSV.
func (h *Handlers) ExportCandidates(_ context.Context, args map[string]any) (any, error) {
	var in exportInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(in.Format)
	if err != nil {
		return nil, err
	}

	var (
		data  string
		count int
	)

	switch in.Source {
	case SourceBookmarks:
		list, err := h.store.List(bookmarks.ListOptions{Tags: in.BookmarkTags})
		if err != nil {
			return nil, err
		}
		count = len(list)
		data, err = export.Bookmarks(format, list)
		if err != nil {
			return nil, err
		}
	case SourceLastSearch:
		candidates, _ := h.LastSearch()
		count = len(candidates)
		data, err = export.Candidates(format, candidates)
		if err != nil {
			return nil, err
		}
	default:
		return nil, provider.InvalidInput("source must be %q or %q, got %q", SourceLastSearch, SourceBookmarks, in.Source)
	}

	return exportOutput{
		Format:  format,
		Source:  in.Source,
		Count:   count,
		Data:    data,
		Message: fmt.Sprintf("Exported %d candidates as %s", count, strings.ToUpper(string(format))),
	}, nil
}
