// Package bookmarks persists bookmarked candidates in a single JSON document.
//
// Every operation reads the whole file, mutates it in memory and writes it
// back. There is no locking: concurrent writers may lose updates, last writer
// wins.
package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

const (
	dirName  = ".candidate-sourcing"
	fileName = "bookmarks.json"
)

// Bookmark is a candidate snapshot plus the user's annotations.
type Bookmark struct {
	candidate.Candidate
	BookmarkedAt time.Time `json:"bookmarkedAt"`
	Notes        string    `json:"notes,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
}

type document struct {
	Bookmarks   []Bookmark `json:"bookmarks"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

type Store struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// DefaultPath returns ~/.candidate-sourcing/bookmarks.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

func New(logger *zap.Logger, path string) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Add bookmarks c, replacing an existing entry with the same source id in
// place. Notes and tags are replaced, never merged.
func (s *Store) Add(c candidate.Candidate, notes string, tags []string) (*Bookmark, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	bookmark := Bookmark{
		Candidate:    c,
		BookmarkedAt: s.now().UTC(),
		Notes:        notes,
		Tags:         normalizeTags(tags),
	}

	if i := doc.index(c.SourceID); i >= 0 {
		doc.Bookmarks[i] = bookmark
	} else {
		doc.Bookmarks = append(doc.Bookmarks, bookmark)
	}

	if err := s.save(doc); err != nil {
		return nil, err
	}

	s.logger.Debug("candidate bookmarked", zap.String("source_id", c.SourceID), zap.Int("tags", len(bookmark.Tags)))

	return &bookmark, nil
}

// Update carries the fields to change. Nil fields are left untouched.
type Update struct {
	Notes *string
	Tags  *[]string
}

// Update changes notes and/or tags of an existing bookmark. It returns nil
// when sourceID is not bookmarked.
func (s *Store) Update(sourceID string, upd Update) (*Bookmark, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	i := doc.index(sourceID)
	if i < 0 {
		return nil, nil
	}

	bookmark := &doc.Bookmarks[i]
	if upd.Notes != nil {
		bookmark.Notes = *upd.Notes
	}
	if upd.Tags != nil {
		bookmark.Tags = normalizeTags(*upd.Tags)
	}

	if err := s.save(doc); err != nil {
		return nil, err
	}

	updated := *bookmark
	return &updated, nil
}

// Remove deletes the bookmark and reports whether one existed.
func (s *Store) Remove(sourceID string) (bool, error) {
	doc, err := s.load()
	if err != nil {
		return false, err
	}

	before := len(doc.Bookmarks)
	doc.Bookmarks = slices.DeleteFunc(doc.Bookmarks, func(b Bookmark) bool {
		return b.SourceID == sourceID
	})

	if len(doc.Bookmarks) == before {
		return false, nil
	}

	return true, s.save(doc)
}

func (s *Store) Get(sourceID string) (*Bookmark, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if i := doc.index(sourceID); i >= 0 {
		return &doc.Bookmarks[i], nil
	}
	return nil, nil
}

func (s *Store) IsBookmarked(sourceID string) (bool, error) {
	b, err := s.Get(sourceID)
	return b != nil, err
}

// ListOptions narrows List. Tags match when a bookmark carries any of them;
// Query is a case-insensitive substring match.
type ListOptions struct {
	Tags  []string
	Query string
}

// List returns the matching bookmarks, most recently bookmarked first.
func (s *Store) List(opts ListOptions) ([]Bookmark, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	tags := normalizeTags(opts.Tags)

	result := make([]Bookmark, 0, len(doc.Bookmarks))
	for _, b := range doc.Bookmarks {
		if len(tags) > 0 && !hasAnyTag(b.Tags, tags) {
			continue
		}
		if query != "" && !strings.Contains(searchText(&b), query) {
			continue
		}
		result = append(result, b)
	}

	slices.SortStableFunc(result, func(a, b Bookmark) int {
		return b.BookmarkedAt.Compare(a.BookmarkedAt)
	})

	return result, nil
}

// Tags returns every tag in use, sorted and unique.
func (s *Store) Tags() ([]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	tags := []string{}
	for _, b := range doc.Bookmarks {
		tags = append(tags, b.Tags...)
	}
	slices.Sort(tags)

	return slices.Compact(tags), nil
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks %q: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bookmarks file %q is corrupt, fix or remove it: %w", s.path, err)
	}

	return &doc, nil
}

func (s *Store) save(doc *document) error {
	if doc.Bookmarks == nil {
		doc.Bookmarks = []Bookmark{}
	}
	doc.LastUpdated = s.now().UTC()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating bookmarks directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing bookmarks %q: %w", s.path, err)
	}

	return nil
}

func (d *document) index(sourceID string) int {
	return slices.IndexFunc(d.Bookmarks, func(b Bookmark) bool {
		return b.SourceID == sourceID
	})
}

// hasAnyTag compares tags case-insensitively.
func hasAnyTag(have, want []string) bool {
	for _, tag := range want {
		if slices.ContainsFunc(have, func(h string) bool { return strings.EqualFold(h, tag) }) {
			return true
		}
	}
	return false
}

func searchText(b *Bookmark) string {
	parts := []string{b.FullName, b.CurrentTitle, b.CurrentCompany, b.HeadlineOrTitle, b.Notes}
	parts = append(parts, b.Skills...)
	parts = append(parts, b.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// normalizeTags trims tags and drops empties and duplicates, keeping order.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
