// Package provider defines the capability contract every profile-data
// adapter implements, together with the error taxonomy they share.
package provider

import (
	"context"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

// Type tags the closed set of supported providers.
type Type string

const (
	TypeProxycurl Type = "proxycurl"
	TypeLinkedIn  Type = "linkedin"
)

// Types lists every provider in reporting order.
func Types() []Type {
	return []Type{TypeLinkedIn, TypeProxycurl}
}

// Provider is implemented by each adapter.
type Provider interface {
	Name() Type

	// SearchCandidates honors the page size as an upper bound and forwards the
	// cursor unmodified. Filter dimensions the remote API lacks are applied to
	// the fetched page in memory, so pagination counts are pre-filter.
	SearchCandidates(ctx context.Context, filters *candidate.SearchFilters) (*candidate.SearchResult, error)

	// GetCandidateDetails accepts a bare identifier or a profile URL. A remote
	// 404 yields a nil candidate and a nil error.
	GetCandidateDetails(ctx context.Context, sourceID string) (*candidate.CandidateDetailed, error)

	// IsConfigured inspects configuration only.
	IsConfigured() bool

	// Status never fails; information that is not cheaply available is left out.
	Status(ctx context.Context) Status
}

// Status describes configuration state and any usage hints an adapter holds.
type Status struct {
	Provider           Type   `json:"provider"`
	Configured         bool   `json:"configured"`
	CreditsRemaining   *int   `json:"creditsRemaining,omitempty"`
	RateLimitRemaining *int   `json:"rateLimitRemaining,omitempty"`
	RateLimitReset     string `json:"rateLimitReset,omitempty"`
	Message            string `json:"message,omitempty"`
}

// CreditReporter is implemented by providers with a credit balance endpoint.
type CreditReporter interface {
	CreditBalance(ctx context.Context) (int, error)
}

// RoleLookup finds the person holding a role at a company. A nil candidate
// with a nil error means nobody was found.
type RoleLookup interface {
	LookupByRole(ctx context.Context, role, company string) (*candidate.Candidate, error)
}

// ResolveQuery describes a person to resolve into a profile URL.
type ResolveQuery struct {
	FirstName     string
	LastName      string
	CompanyDomain string
	Title         string
}

// ProfileResolver turns a name and company into a profile URL. An empty URL
// with a nil error means nothing matched.
type ProfileResolver interface {
	ResolveProfileURL(ctx context.Context, query ResolveQuery) (string, error)
}
