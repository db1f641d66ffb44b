package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/tools"
)

const promptDone = "Done"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search candidates on the active provider and print them as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("title", nil, "job titles to match (any)")
	f.StringArray("location", nil, "location, repeatable, e.g. --location 'Berlin, Germany'")
	f.StringSlice("skill", nil, "skills the candidate must list (all)")
	f.StringSlice("seniority", nil, "seniority levels: entry, junior, mid, senior, lead, manager, director, vp, c-level, owner")
	f.StringSlice("include-company", nil, "current companies to include")
	f.StringSlice("exclude-company", nil, "current companies to exclude")
	f.StringSlice("industry", nil, "industries to match (any)")
	f.StringSlice("keyword", nil, "keywords that must all appear in the profile")
	f.StringSlice("exclude-keyword", nil, "keywords that must not appear in the profile")
	f.Int("min-years", -1, "minimum years of experience")
	f.Int("max-years", -1, "maximum years of experience")
	f.Int("page-size", candidate.DefaultPageSize, "maximum candidates to return")
	f.String("cursor", "", "cursor from a previous search")
	f.BoolP("interactive", "i", false, "pick candidates to bookmark after the search")
	f.StringSlice("tag", nil, "tags for candidates bookmarked in interactive mode")
	f.String("notes", "", "notes for candidates bookmarked in interactive mode")
}

func searchInputFromFlags(cmd *cobra.Command) (*tools.SearchInput, error) {
	f := cmd.Flags()
	in := &tools.SearchInput{}

	lists := map[string]*[]string{
		"title":           &in.Titles,
		"skill":           &in.Skills,
		"seniority":       &in.SeniorityLevels,
		"include-company": &in.IncludeCompanies,
		"exclude-company": &in.ExcludeCompanies,
		"industry":        &in.Industries,
		"keyword":         &in.MustHaveKeywords,
		"exclude-keyword": &in.ExcludeKeywords,
	}
	for name, dst := range lists {
		v, err := f.GetStringSlice(name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	locations, err := f.GetStringArray("location")
	if err != nil {
		return nil, err
	}
	in.Locations = locations

	ints := map[string]**int{
		"min-years": &in.MinExperienceYears,
		"max-years": &in.MaxExperienceYears,
		"page-size": &in.PageSize,
	}
	for name, dst := range ints {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetInt(name)
		if err != nil {
			return nil, err
		}
		*dst = &v
	}

	cursor, err := f.GetString("cursor")
	if err != nil {
		return nil, err
	}
	in.Cursor = cursor

	return in, nil
}

func search(cmd *cobra.Command) error {
	ctx := context.Background()

	a, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	in, err := searchInputFromFlags(cmd)
	if err != nil {
		return err
	}

	out, err := a.handlers.Search(ctx, in)
	if err != nil {
		return err
	}

	if err := printJSON(out); err != nil {
		return err
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		return nil
	}

	tags, _ := cmd.Flags().GetStringSlice("tag")
	notes, _ := cmd.Flags().GetString("notes")

	return pickBookmarks(a, tags, notes)
}

// pickBookmarks lets the user bookmark candidates from the last search one
// by one until Done is chosen.
func pickBookmarks(a *application, tags []string, notes string) error {
	remaining, _ := a.handlers.LastSearch()

	for len(remaining) > 0 {
		items := make([]string, 0, len(remaining)+1)
		items = append(items, promptDone)
		for _, c := range remaining {
			items = append(items, fmt.Sprintf("%s | %s | %s", c.FullName, orDash(c.CurrentTitle), orDash(c.CurrentCompany)))
		}

		prompt := promptui.Select{
			Label: "Bookmark a candidate?",
			Items: items,
			Size:  15,
		}

		idx, _, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}
		if idx == 0 {
			return nil
		}

		picked := remaining[idx-1]
		saved, err := a.store.Add(picked, notes, tags)
		if err != nil {
			return err
		}

		a.logger.Info("bookmarked", zap.String("source_id", saved.SourceID), zap.String("full_name", saved.FullName))
		remaining = append(remaining[:idx-1], remaining[idx:]...)
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
