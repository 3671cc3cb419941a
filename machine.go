package vigie

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Machine represents a piece of equipment belonging to a client. Machines
// are created on first mention in an import and persist indefinitely;
// subsequent imports only update descriptive fields.
type Machine struct {
	ID                 uuid.UUID   `json:"id"`
	ClientID           uuid.UUID   `json:"clientId"`
	TypeMachine        MachineType `json:"typeMachine"`
	Nature             string      `json:"nature,omitempty"`
	Constructeur       string      `json:"constructeur,omitempty"`
	Modele             string      `json:"modele,omitempty"`
	Type               string      `json:"type,omitempty"`
	NumeroSerie        string      `json:"numeroSerie,omitempty"`
	Force              string      `json:"force,omitempty"`
	AnneeMiseEnService string      `json:"anneeMiseEnService,omitempty"`
	ReferenceClient    string      `json:"referenceClient,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// MachineType categorizes equipment for VGP periodicity purposes.
type MachineType string

const (
	MachineTypeMobile   MachineType = "mobile"
	MachineTypeFixe     MachineType = "fixe"
	MachineTypeLevage   MachineType = "levage"
	MachineTypePression MachineType = "pression"
)

// IsValid returns true if the machine type is a recognized value.
func (t MachineType) IsValid() bool {
	switch t {
	case MachineTypeMobile, MachineTypeFixe, MachineTypeLevage, MachineTypePression:
		return true
	}
	return false
}

// VerificationPeriod returns the regulatory interval between VGP
// verifications for this category. Lifting equipment is on a six month
// cycle; everything else is annual.
func (t MachineType) VerificationPeriod() time.Duration {
	if t == MachineTypeLevage {
		return 6 * 30 * 24 * time.Hour
	}
	return 12 * 30 * 24 * time.Hour
}

// MachineTypeFromNature maps the free-text nature/type fields of an import
// payload onto a MachineType. Unmapped values default to mobile.
func MachineTypeFromNature(nature, typ string) MachineType {
	for _, s := range []string{nature, typ} {
		switch {
		case containsFold(s, "levage"), containsFold(s, "grue"), containsFold(s, "palan"), containsFold(s, "treuil"):
			return MachineTypeLevage
		case containsFold(s, "pression"), containsFold(s, "compresseur"):
			return MachineTypePression
		case containsFold(s, "fixe"):
			return MachineTypeFixe
		}
	}
	return MachineTypeMobile
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// HasSerial reports whether the machine carries a usable serial number.
func (m *Machine) HasSerial() bool {
	return strings.TrimSpace(m.NumeroSerie) != ""
}

// MachineService defines operations for managing machines.
type MachineService interface {
	// FindMachineByID retrieves a machine by its ID.
	// Returns ENOTFOUND if the machine does not exist.
	FindMachineByID(ctx context.Context, id uuid.UUID) (*Machine, error)

	// FindMachines retrieves machines matching the filter criteria.
	// Returns the matching machines and total count.
	FindMachines(ctx context.Context, filter MachineFilter) ([]*Machine, int, error)

	// CreateMachine creates a new machine, assigning a fresh ID.
	// Returns ENOTFOUND if the owning client does not exist.
	CreateMachine(ctx context.Context, machine *Machine) error

	// UpdateMachine updates an existing machine.
	// Returns ENOTFOUND if the machine does not exist.
	UpdateMachine(ctx context.Context, id uuid.UUID, upd MachineUpdate) (*Machine, error)
}

// MachineFilter defines criteria for filtering machines.
type MachineFilter struct {
	ID          *uuid.UUID
	ClientID    *uuid.UUID
	NumeroSerie *string

	// Pagination
	Offset int
	Limit  int
}

// MachineUpdate defines fields that can be updated on a machine.
// Nil pointers leave the stored value untouched.
type MachineUpdate struct {
	TypeMachine        *MachineType
	Nature             *string
	Constructeur       *string
	Modele             *string
	Type               *string
	Force              *string
	AnneeMiseEnService *string
	ReferenceClient    *string
}

// IsZero reports whether the update carries no changes.
func (u MachineUpdate) IsZero() bool {
	return u.TypeMachine == nil && u.Nature == nil && u.Constructeur == nil &&
		u.Modele == nil && u.Type == nil && u.Force == nil &&
		u.AnneeMiseEnService == nil && u.ReferenceClient == nil
}
