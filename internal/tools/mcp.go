package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/logger"
)

// ServerName is the name advertised to MCP clients.
const ServerName = "candidate-sourcing"

type handlerFunc func(ctx context.Context, args map[string]any) (any, error)

// NewServer builds an MCP server with every tool registered.
func NewServer(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	Register(s, h)
	return s
}

// Register adds the tools to s. assess_candidate_fit is only added when the
// handlers have a matcher.
func Register(s *server.MCPServer, h *Handlers) {
	stringList := map[string]any{"type": "string"}
	seniority := map[string]any{"type": "string", "enum": seniorityNames()}

	s.AddTool(mcp.NewTool("linkedin_search_candidates",
		mcp.WithDescription("Search candidate profiles on the active data provider. "+
			"Filters the provider cannot apply natively are applied to the returned page, "+
			"so a page may hold fewer candidates than page_size."),
		mcp.WithArray("titles", mcp.Description("Job titles to match (any)"), mcp.Items(stringList)),
		mcp.WithArray("locations", mcp.Description("Locations, e.g. 'Berlin, Germany'"), mcp.Items(stringList)),
		mcp.WithArray("skills", mcp.Description("Skills the candidate must list (all)"), mcp.Items(stringList)),
		mcp.WithNumber("min_experience_years", mcp.Description("Minimum years of experience"), mcp.Min(0)),
		mcp.WithNumber("max_experience_years", mcp.Description("Maximum years of experience"), mcp.Min(0)),
		mcp.WithArray("seniority_levels", mcp.Description("Seniority levels to match (any)"), mcp.Items(seniority)),
		mcp.WithArray("include_companies", mcp.Description("Current companies to include"), mcp.Items(stringList)),
		mcp.WithArray("exclude_companies", mcp.Description("Current companies to exclude"), mcp.Items(stringList)),
		mcp.WithArray("industries", mcp.Description("Industries to match (any)"), mcp.Items(stringList)),
		mcp.WithArray("must_have_keywords", mcp.Description("Keywords that must all appear in the profile"), mcp.Items(stringList)),
		mcp.WithArray("exclude_keywords", mcp.Description("Keywords that must not appear in the profile"), mcp.Items(stringList)),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum candidates to return"),
			mcp.Min(1), mcp.Max(candidate.MaxPageSize), mcp.DefaultNumber(candidate.DefaultPageSize)),
		mcp.WithString("cursor", mcp.Description("Cursor from a previous search's pagination.next_cursor")),
	), h.wrap("linkedin_search_candidates", h.SearchCandidates))

	s.AddTool(mcp.NewTool("linkedin_get_candidate_details",
		mcp.WithDescription("Fetch the full profile of a candidate: experience, education, certifications and languages."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("The candidate's source_id or profile URL")),
	), h.wrap("linkedin_get_candidate_details", h.GetCandidateDetails))

	s.AddTool(mcp.NewTool("lookup_candidate_by_role",
		mcp.WithDescription("Find the person holding a role at a company, e.g. the CTO of Acme. Proxycurl only."),
		mcp.WithString("role", mcp.Required(), mcp.Description("Role to look up")),
		mcp.WithString("company_name", mcp.Required(), mcp.Description("Company name")),
	), h.wrap("lookup_candidate_by_role", h.LookupByRole))

	s.AddTool(mcp.NewTool("resolve_profile_url",
		mcp.WithDescription("Resolve a person's profile URL from their name and company domain. Proxycurl only."),
		mcp.WithString("first_name", mcp.Required()),
		mcp.WithString("last_name"),
		mcp.WithString("company_domain", mcp.Required(), mcp.Description("e.g. acme.com")),
		mcp.WithString("title", mcp.Description("Current title, improves matching")),
	), h.wrap("resolve_profile_url", h.ResolveProfileURL))

	s.AddTool(mcp.NewTool("bookmark_candidate",
		mcp.WithDescription("Save a candidate to your bookmarks for later review. Tags categorize candidates, e.g. 'shortlist' or 'follow-up'. "+
			"Bookmarking the same source_id again replaces its notes and tags."),
		mcp.WithObject("candidate",
			mcp.Required(),
			mcp.Description("The candidate object from search results"),
			mcp.Properties(map[string]any{
				"source_id":        map[string]any{"type": "string"},
				"full_name":        map[string]any{"type": "string"},
				"headline":         map[string]any{"type": "string"},
				"current_title":    map[string]any{"type": "string"},
				"current_company":  map[string]any{"type": "string"},
				"location":         map[string]any{"type": "string"},
				"experience_years": map[string]any{"type": "number"},
				"skills":           map[string]any{"type": "array", "items": stringList},
				"profile_url":      map[string]any{"type": "string"},
				"seniority_level":  seniority,
				"industries":       map[string]any{"type": "array", "items": stringList},
			}),
		),
		mcp.WithString("notes", mcp.Description("Notes about this candidate")),
		mcp.WithArray("tags", mcp.Description("Tags for categorization"), mcp.Items(stringList)),
	), h.wrap("bookmark_candidate", h.BookmarkCandidate))

	s.AddTool(mcp.NewTool("remove_bookmark",
		mcp.WithDescription("Remove a candidate from your bookmarks."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("The candidate's source_id")),
	), h.wrap("remove_bookmark", h.RemoveBookmark))

	s.AddTool(mcp.NewTool("list_bookmarks",
		mcp.WithDescription("List bookmarked candidates, newest first, optionally filtered by tags or a search query."),
		mcp.WithArray("tags", mcp.Description("Return candidates with any of these tags"), mcp.Items(stringList)),
		mcp.WithString("search_query", mcp.Description("Search name, title, company, headline, notes, skills and tags")),
	), h.wrap("list_bookmarks", h.ListBookmarks))

	s.AddTool(mcp.NewTool("update_bookmark",
		mcp.WithDescription("Replace the notes or tags of a bookmarked candidate."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("The candidate's source_id")),
		mcp.WithString("notes", mcp.Description("New notes (replaces existing)")),
		mcp.WithArray("tags", mcp.Description("New tags (replaces existing)"), mcp.Items(stringList)),
	), h.wrap("update_bookmark", h.UpdateBookmark))

	s.AddTool(mcp.NewTool("get_bookmark_tags",
		mcp.WithDescription("Get all unique tags used across bookmarked candidates."),
	), h.wrap("get_bookmark_tags", h.BookmarkTags))

	s.AddTool(mcp.NewTool("export_candidates",
		mcp.WithDescription("Export the last search results or the bookmarks as JSON or CSV. Returns the formatted data as a string."),
		mcp.WithString("format", mcp.Required(), mcp.Enum("json", "csv")),
		mcp.WithString("source", mcp.Required(), mcp.Enum(SourceLastSearch, SourceBookmarks)),
		mcp.WithArray("bookmark_tags", mcp.Description("When exporting bookmarks, only those with any of these tags"), mcp.Items(stringList)),
	), h.wrap("export_candidates", h.ExportCandidates))

	s.AddTool(mcp.NewTool("get_provider_status",
		mcp.WithDescription("Show the active data provider, the configuration of every provider, the credit balance and per-call costs. "+
			"Use it to verify setup or troubleshoot connection issues."),
	), h.wrap("get_provider_status", h.ProviderStatus))

	if h.HasMatcher() {
		s.AddTool(mcp.NewTool("assess_candidate_fit",
			mcp.WithDescription("Fetch a candidate's full profile and assess how well it fits a job description."),
			mcp.WithString("source_id", mcp.Required(), mcp.Description("The candidate's source_id or profile URL")),
			mcp.WithString("job_description", mcp.Required(), mcp.Description("The job description to assess against")),
		), h.wrap("assess_candidate_fit", h.AssessCandidateFit))
	}
}

// wrap adapts a handler to the MCP boundary: errors become failure results
// and values are rendered as indented JSON text.
func (h *Handlers) wrap(name string, fn handlerFunc) server.ToolHandlerFunc {
	log := logger.WithFields(h.logger, zap.String(logger.FieldTool, name))

	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		out, err := fn(ctx, args)
		if err != nil {
			log.Warn("tool call failed", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err)), nil
		}

		text, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Error("encoding tool result", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Error: encoding result: %s", err)), nil
		}

		return mcp.NewToolResultText(string(text)), nil
	}
}

func seniorityNames() []string {
	levels := candidate.SeniorityLevels()
	names := make([]string, 0, len(levels))
	for _, l := range levels {
		names = append(names, string(l))
	}
	return names
}
