package vigie

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client represents a customer whose equipment undergoes periodic
// verification. Clients are created once, on first import mention or by
// manual entry, and persist indefinitely.
type Client struct {
	ID               uuid.UUID `json:"id"`
	Nom              string    `json:"nom"`
	Adresse          string    `json:"adresse"`
	ContactNom       string    `json:"contactNom,omitempty"`
	ContactPrenom    string    `json:"contactPrenom,omitempty"`
	ContactEmail     string    `json:"contactEmail,omitempty"`
	ContactTelephone string    `json:"contactTelephone,omitempty"`

	// Site metadata folded in from import payloads; a site is never
	// persisted as its own entity.
	NomSite   string   `json:"nomSite,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NaturalKey returns the normalized (nom, adresse) pair used for
// de-duplication during import. The rest of the system keys on ID.
func (c *Client) NaturalKey() (string, string) {
	return NormalizeKey(c.Nom), NormalizeKey(c.Adresse)
}

// ClientService defines operations for managing clients.
type ClientService interface {
	// FindClientByID retrieves a client by its ID.
	// Returns ENOTFOUND if the client does not exist.
	FindClientByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindClientByKey retrieves a client by normalized (nom, adresse)
	// equality. Returns ENOTFOUND if no client matches.
	FindClientByKey(ctx context.Context, nom, adresse string) (*Client, error)

	// FindClients retrieves clients matching the filter criteria.
	// Returns the matching clients and total count.
	FindClients(ctx context.Context, filter ClientFilter) ([]*Client, int, error)

	// CreateClient creates a new client, assigning a fresh ID.
	CreateClient(ctx context.Context, client *Client) error

	// UpdateClient updates an existing client.
	// Returns ENOTFOUND if the client does not exist.
	UpdateClient(ctx context.Context, id uuid.UUID, upd ClientUpdate) (*Client, error)
}

// ClientFilter defines criteria for filtering clients.
type ClientFilter struct {
	ID  *uuid.UUID
	Nom *string

	// Pagination
	Offset int
	Limit  int
}

// ClientUpdate defines fields that can be updated on a client.
// Nil pointers leave the stored value untouched.
type ClientUpdate struct {
	Nom              *string
	Adresse          *string
	ContactNom       *string
	ContactPrenom    *string
	ContactEmail     *string
	ContactTelephone *string
	NomSite          *string
	Latitude         *float64
	Longitude        *float64
}

// IsZero reports whether the update carries no changes.
func (u ClientUpdate) IsZero() bool {
	return u.Nom == nil && u.Adresse == nil &&
		u.ContactNom == nil && u.ContactPrenom == nil &&
		u.ContactEmail == nil && u.ContactTelephone == nil &&
		u.NomSite == nil && u.Latitude == nil && u.Longitude == nil
}
