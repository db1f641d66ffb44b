package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/export"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

type bookmarkInput struct {
	Candidate export.Record `json:"candidate"`
	Notes     string        `json:"notes,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
}

// snapshot turns the supplied candidate into the value to persist. Fields the
// caller left out are taken from the last search when it holds the same
// source id.
func (h *Handlers) snapshot(r export.Record) (candidate.Candidate, error) {
	r.SourceID = strings.TrimSpace(r.SourceID)
	if r.SourceID == "" {
		return candidate.Candidate{}, provider.InvalidInput("candidate.source_id is required")
	}

	supplied := candidate.Candidate{
		Source:          r.Source,
		SourceID:        r.SourceID,
		FullName:        r.FullName,
		HeadlineOrTitle: r.Headline,
		CurrentTitle:    r.CurrentTitle,
		CurrentCompany:  r.CurrentCompany,
		Location:        r.Location,
		ExperienceYears: r.ExperienceYears,
		Skills:          r.Skills,
		ProfileURL:      r.ProfileURL,
		Industries:      r.Industries,
	}
	if r.SeniorityLevel != "" {
		level, err := candidate.ParseSeniority(string(r.SeniorityLevel))
		if err != nil {
			return candidate.Candidate{}, provider.InvalidInput("candidate.%v", err)
		}
		supplied.SeniorityLevel = level
	}

	c, ok := h.fromLastSearch(supplied.Key())
	if !ok {
		c = candidate.Candidate{}
	}
	c.Merge(&supplied)

	if c.Source == "" {
		c.Source = candidate.SourceLinkedIn
	}
	if strings.TrimSpace(c.FullName) == "" {
		return candidate.Candidate{}, provider.InvalidInput("candidate.full_name is required")
	}
	if strings.TrimSpace(c.ProfileURL) == "" {
		return candidate.Candidate{}, provider.InvalidInput("candidate.profile_url is required")
	}

	return c, nil
}

type bookmarkSummary struct {
	SourceID     string    `json:"source_id"`
	FullName     string    `json:"full_name"`
	BookmarkedAt time.Time `json:"bookmarked_at,omitzero"`
	Notes        string    `json:"notes,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
}

type bookmarkResult struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Bookmark *bookmarkSummary `json:"bookmark,omitempty"`
}

// BookmarkCandidate saves a candidate snapshot with notes and tags.
func (h *Handlers) BookmarkCandidate(_ context.Context, args map[string]any) (any, error) {
	var in bookmarkInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}

	c, err := h.snapshot(in.Candidate)
	if err != nil {
		return nil, err
	}

	saved, err := h.store.Add(c, in.Notes, in.Tags)
	if err != nil {
		return nil, err
	}

	h.logger.Info("candidate bookmarked", zap.String("source_id", saved.SourceID))

	return bookmarkResult{
		Success: true,
		Message: fmt.Sprintf("Bookmarked %s", saved.FullName),
		Bookmark: &bookmarkSummary{
			SourceID:     saved.SourceID,
			FullName:     saved.FullName,
			BookmarkedAt: saved.BookmarkedAt,
			Notes:        saved.Notes,
			Tags:         saved.Tags,
		},
	}, nil
}

// RemoveBookmark deletes a bookmark. Removing an absent one is not an error.
func (h *Handlers) RemoveBookmark(_ context.Context, args map[string]any) (any, error) {
	var in sourceIDInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	removed, err := h.store.Remove(in.SourceID)
	if err != nil {
		return nil, err
	}

	msg := "Candidate was not in bookmarks"
	if removed {
		msg = "Candidate removed from bookmarks"
	}

	return bookmarkResult{Success: removed, Message: msg}, nil
}

type listBookmarksInput struct {
	Tags        []string `json:"tags,omitempty"`
	SearchQuery string   `json:"search_query,omitempty"`
}

type listedBookmark struct {
	Index int `json:"index"`
	export.Record
	Notes        string    `json:"notes,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

type listBookmarksOutput struct {
	Count     int              `json:"count"`
	Bookmarks []listedBookmark `json:"bookmarks"`
}

// ListBookmarks returns bookmarks, newest first, optionally filtered.
func (h *Handlers) ListBookmarks(_ context.Context, args map[string]any) (any, error) {
	var in listBookmarksInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}

	list, err := h.store.List(bookmarks.ListOptions{Tags: in.Tags, Query: in.SearchQuery})
	if err != nil {
		return nil, err
	}

	out := listBookmarksOutput{Count: len(list), Bookmarks: make([]listedBookmark, 0, len(list))}
	for i, b := range list {
		out.Bookmarks = append(out.Bookmarks, listedBookmark{
			Index:        i + 1,
			Record:       export.NewRecord(b.Candidate),
			Notes:        b.Notes,
			Tags:         b.Tags,
			BookmarkedAt: b.BookmarkedAt,
		})
	}

	return out, nil
}

type updateBookmarkInput struct {
	SourceID string    `json:"source_id"`
	Notes    *string   `json:"notes,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// UpdateBookmark replaces notes and/or tags on an existing bookmark.
func (h *Handlers) UpdateBookmark(_ context.Context, args map[string]any) (any, error) {
	var in updateBookmarkInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}

	id := sourceIDInput{SourceID: in.SourceID}
	if err := id.validate(); err != nil {
		return nil, err
	}

	updated, err := h.store.Update(id.SourceID, bookmarks.Update{Notes: in.Notes, Tags: in.Tags})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return bookmarkResult{Message: "Candidate not found in bookmarks"}, nil
	}

	return bookmarkResult{
		Success: true,
		Message: "Bookmark updated",
		Bookmark: &bookmarkSummary{
			SourceID: updated.SourceID,
			FullName: updated.FullName,
			Notes:    updated.Notes,
			Tags:     updated.Tags,
		},
	}, nil
}

type tagsOutput struct {
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

// BookmarkTags lists every tag in use.
func (h *Handlers) BookmarkTags(_ context.Context, _ map[string]any) (any, error) {
	tags, err := h.store.Tags()
	if err != nil {
		return nil, err
	}

	return tagsOutput{Tags: tags, Count: len(tags)}, nil
}
