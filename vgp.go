package vigie

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VGPHistory records one periodic verification of a machine, derived from
// an imported report's verification date. History rows drive due-date
// tracking and are replaced together with their report on a replace import.
type VGPHistory struct {
	ID               uuid.UUID `json:"id"`
	MachineID        uuid.UUID `json:"machineId"`
	ReportID         uuid.UUID `json:"reportId"`
	ReportNumber     string    `json:"reportNumber"`
	DateVerification time.Time `json:"dateVerification"`
	NextDueDate      time.Time `json:"nextDueDate"`
	CreatedAt        time.Time `json:"createdAt"`
}

// VGPHistoryService defines operations for machine verification history.
type VGPHistoryService interface {
	// CreateVGPHistory creates a history row, assigning a fresh ID.
	CreateVGPHistory(ctx context.Context, history *VGPHistory) error

	// FindVGPHistory lists history rows matching the filter, most recent
	// verification first.
	FindVGPHistory(ctx context.Context, filter VGPHistoryFilter) ([]*VGPHistory, error)
}

// VGPHistoryFilter defines criteria for filtering VGP history.
type VGPHistoryFilter struct {
	MachineID *uuid.UUID
	ReportID  *uuid.UUID
}
