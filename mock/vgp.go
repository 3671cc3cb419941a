package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.VGPHistoryService = (*VGPHistoryService)(nil)

// VGPHistoryService is a mock implementation of vigie.VGPHistoryService.
type VGPHistoryService struct {
	CreateVGPHistoryFn func(ctx context.Context, history *vigie.VGPHistory) error
	FindVGPHistoryFn   func(ctx context.Context, filter vigie.VGPHistoryFilter) ([]*vigie.VGPHistory, error)
}

func (s *VGPHistoryService) CreateVGPHistory(ctx context.Context, history *vigie.VGPHistory) error {
	if s.CreateVGPHistoryFn != nil {
		return s.CreateVGPHistoryFn(ctx, history)
	}
	history.ID = uuid.New()
	history.CreatedAt = time.Now()
	return nil
}

func (s *VGPHistoryService) FindVGPHistory(ctx context.Context, filter vigie.VGPHistoryFilter) ([]*vigie.VGPHistory, error) {
	if s.FindVGPHistoryFn != nil {
		return s.FindVGPHistoryFn(ctx, filter)
	}
	return []*vigie.VGPHistory{}, nil
}
