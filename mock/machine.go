package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.MachineService = (*MachineService)(nil)

// MachineService is a mock implementation of vigie.MachineService.
type MachineService struct {
	FindMachineByIDFn func(ctx context.Context, id uuid.UUID) (*vigie.Machine, error)
	FindMachinesFn    func(ctx context.Context, filter vigie.MachineFilter) ([]*vigie.Machine, int, error)
	CreateMachineFn   func(ctx context.Context, machine *vigie.Machine) error
	UpdateMachineFn   func(ctx context.Context, id uuid.UUID, upd vigie.MachineUpdate) (*vigie.Machine, error)
}

func (s *MachineService) FindMachineByID(ctx context.Context, id uuid.UUID) (*vigie.Machine, error) {
	if s.FindMachineByIDFn != nil {
		return s.FindMachineByIDFn(ctx, id)
	}
	return nil, vigie.NotFound("Machine not found")
}

func (s *MachineService) FindMachines(ctx context.Context, filter vigie.MachineFilter) ([]*vigie.Machine, int, error) {
	if s.FindMachinesFn != nil {
		return s.FindMachinesFn(ctx, filter)
	}
	return []*vigie.Machine{}, 0, nil
}

func (s *MachineService) CreateMachine(ctx context.Context, machine *vigie.Machine) error {
	if s.CreateMachineFn != nil {
		return s.CreateMachineFn(ctx, machine)
	}
	machine.ID = uuid.New()
	machine.CreatedAt = time.Now()
	machine.UpdatedAt = time.Now()
	return nil
}

func (s *MachineService) UpdateMachine(ctx context.Context, id uuid.UUID, upd vigie.MachineUpdate) (*vigie.Machine, error) {
	if s.UpdateMachineFn != nil {
		return s.UpdateMachineFn(ctx, id, upd)
	}
	return nil, vigie.NotFound("Machine not found")
}
