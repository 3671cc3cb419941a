package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.ClientService = (*ClientService)(nil)

// ClientService is a mock implementation of vigie.ClientService.
type ClientService struct {
	FindClientByIDFn  func(ctx context.Context, id uuid.UUID) (*vigie.Client, error)
	FindClientByKeyFn func(ctx context.Context, nom, adresse string) (*vigie.Client, error)
	FindClientsFn     func(ctx context.Context, filter vigie.ClientFilter) ([]*vigie.Client, int, error)
	CreateClientFn    func(ctx context.Context, client *vigie.Client) error
	UpdateClientFn    func(ctx context.Context, id uuid.UUID, upd vigie.ClientUpdate) (*vigie.Client, error)
}

func (s *ClientService) FindClientByID(ctx context.Context, id uuid.UUID) (*vigie.Client, error) {
	if s.FindClientByIDFn != nil {
		return s.FindClientByIDFn(ctx, id)
	}
	return nil, vigie.NotFound("Client not found")
}

func (s *ClientService) FindClientByKey(ctx context.Context, nom, adresse string) (*vigie.Client, error) {
	if s.FindClientByKeyFn != nil {
		return s.FindClientByKeyFn(ctx, nom, adresse)
	}
	return nil, vigie.NotFound("Client not found")
}

func (s *ClientService) FindClients(ctx context.Context, filter vigie.ClientFilter) ([]*vigie.Client, int, error) {
	if s.FindClientsFn != nil {
		return s.FindClientsFn(ctx, filter)
	}
	return []*vigie.Client{}, 0, nil
}

func (s *ClientService) CreateClient(ctx context.Context, client *vigie.Client) error {
	if s.CreateClientFn != nil {
		return s.CreateClientFn(ctx, client)
	}
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()
	return nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, upd vigie.ClientUpdate) (*vigie.Client, error) {
	if s.UpdateClientFn != nil {
		return s.UpdateClientFn(ctx, id, upd)
	}
	return nil, vigie.NotFound("Client not found")
}
