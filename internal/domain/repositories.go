package domain

import (
	"context"
)

// Page is one server page of a list, with the totals the server reported
type Page[T any] struct {
	Items      []T
	Page       int // 1-based page number the server actually returned
	TotalPages int // last_page
	TotalItems int // total
}

// Dimension names a filter dropdown
type Dimension string

const (
	DimensionGenres    Dimension = "genres"
	DimensionCountries Dimension = "countries"
	DimensionYears     Dimension = "years"
)

// CatalogRepository provides public catalog reads (implemented by the api client)
type CatalogRepository interface {
	// ListTitles returns the full browse list
	ListTitles(ctx context.Context) ([]Title, error)

	// SearchTitles returns one server-filtered page
	SearchTitles(ctx context.Context, criteria FilterCriteria, page, perPage int) (Page[Title], error)

	// TopRated returns one page of titles ordered by rating
	TopRated(ctx context.Context, page, perPage int) (Page[Title], error)

	// NewReleases returns one page of the most recent titles
	NewReleases(ctx context.Context, page, perPage int) (Page[Title], error)

	// Genres returns the public genre list
	Genres(ctx context.Context) ([]Genre, error)

	// DropdownOptions returns the choices for one filter dimension
	DropdownOptions(ctx context.Context, dim Dimension) ([]Option, error)

	// Actor returns a single cast member
	Actor(ctx context.Context, id string) (*Actor, error)

	// ActorTitles returns one page of the titles an actor appears in
	ActorTitles(ctx context.Context, actorID string, page, perPage int) (Page[Title], error)
}

// AuthResult contains the result of a successful login or registration
type AuthResult struct {
	Token string // Bearer token for API calls
	User  *User  // Present when the endpoint returned the profile
}

// RegisterRequest holds the fields of the registration form
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthRepository provides the identity endpoints
type AuthRepository interface {
	Login(ctx context.Context, identifier, secret string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)

	// Me validates token against the identity endpoint
	Me(ctx context.Context, token string) (*User, error)

	// Logout invalidates token server-side; callers treat it as best-effort
	Logout(ctx context.Context, token string) error
}

// ListQuery selects one page of an admin listing
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
}

// AdminRepository provides authenticated CRUD over admin resources
type AdminRepository interface {
	List(ctx context.Context, res Resource, q ListQuery) (Page[Record], error)
	ListAll(ctx context.Context, res Resource) ([]Record, error)
	Create(ctx context.Context, res Resource, fields Record) (Record, error)
	Update(ctx context.Context, res Resource, id string, fields Record) (Record, error)
	Delete(ctx context.Context, res Resource, id string) error
}

// TokenStore persists the bearer token across process starts.
// Exactly one token is stored, under a fixed key.
type TokenStore interface {
	Token() (string, bool)
	SaveToken(token string) error
	ClearToken() error
}
