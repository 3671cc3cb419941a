package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vigie"
)

// Compile-time check that ClientService implements vigie.ClientService.
var _ vigie.ClientService = (*ClientService)(nil)

// ClientService implements vigie.ClientService using PostgreSQL.
//
// Natural-key matching runs against the nom_norm/adresse_norm columns,
// which hold vigie.NormalizeKey output maintained on every write. SQL
// never normalizes; Go is the single source of truth for the key rules.
type ClientService struct {
	db *DB
}

const clientColumns = `id, nom, adresse, nom_norm, adresse_norm,
	contact_nom, contact_prenom, contact_email, contact_telephone,
	nom_site, latitude, longitude, created_at, updated_at`

func scanClient(row pgx.Row) (*vigie.Client, error) {
	var c vigie.Client
	var nomNorm, adresseNorm string
	err := row.Scan(&c.ID, &c.Nom, &c.Adresse, &nomNorm, &adresseNorm,
		&c.ContactNom, &c.ContactPrenom, &c.ContactEmail, &c.ContactTelephone,
		&c.NomSite, &c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) FindClientByID(ctx context.Context, id uuid.UUID) (*vigie.Client, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Client not found")
		}
		return nil, vigie.Internal("Failed to fetch client", err)
	}
	return client, nil
}

func (s *ClientService) FindClientByKey(ctx context.Context, nom, adresse string) (*vigie.Client, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE nom_norm = $1 AND adresse_norm = $2 LIMIT 1`,
		vigie.NormalizeKey(nom), vigie.NormalizeKey(adresse))
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Client not found")
		}
		return nil, vigie.Internal("Failed to fetch client by key", err)
	}
	return client, nil
}

func (s *ClientService) FindClients(ctx context.Context, filter vigie.ClientFilter) ([]*vigie.Client, int, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	var where []string
	if filter.ID != nil {
		args = append(args, *filter.ID)
		where = append(where, `id = $1`)
	}
	if filter.Nom != nil {
		args = append(args, vigie.NormalizeKey(*filter.Nom))
		if len(args) == 1 {
			where = append(where, `nom_norm = $1`)
		} else {
			where = append(where, `nom_norm = $2`)
		}
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY nom, adresse`

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, vigie.Internal("Failed to list clients", err)
	}
	defer rows.Close()

	var clients []*vigie.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, 0, vigie.Internal("Failed to scan client", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, vigie.Internal("Failed to list clients", err)
	}

	total := len(clients)
	clients = paginate(clients, filter.Offset, filter.Limit)
	return clients, total, nil
}

func (s *ClientService) CreateClient(ctx context.Context, client *vigie.Client) error {
	nomNorm, adresseNorm := client.NaturalKey()
	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO clients (nom, adresse, nom_norm, adresse_norm,
			contact_nom, contact_prenom, contact_email, contact_telephone,
			nom_site, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		client.Nom, client.Adresse, nomNorm, adresseNorm,
		client.ContactNom, client.ContactPrenom, client.ContactEmail, client.ContactTelephone,
		client.NomSite, client.Latitude, client.Longitude)
	if err := row.Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt); err != nil {
		return vigie.Internal("Failed to create client", err)
	}
	return nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, upd vigie.ClientUpdate) (*vigie.Client, error) {
	current, err := s.FindClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Nom != nil {
		current.Nom = *upd.Nom
	}
	if upd.Adresse != nil {
		current.Adresse = *upd.Adresse
	}
	if upd.ContactNom != nil {
		current.ContactNom = *upd.ContactNom
	}
	if upd.ContactPrenom != nil {
		current.ContactPrenom = *upd.ContactPrenom
	}
	if upd.ContactEmail != nil {
		current.ContactEmail = *upd.ContactEmail
	}
	if upd.ContactTelephone != nil {
		current.ContactTelephone = *upd.ContactTelephone
	}
	if upd.NomSite != nil {
		current.NomSite = *upd.NomSite
	}
	if upd.Latitude != nil {
		current.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		current.Longitude = upd.Longitude
	}

	nomNorm, adresseNorm := current.NaturalKey()
	row := s.db.pool.QueryRow(ctx, `
		UPDATE clients SET nom = $2, adresse = $3, nom_norm = $4, adresse_norm = $5,
			contact_nom = $6, contact_prenom = $7, contact_email = $8, contact_telephone = $9,
			nom_site = $10, latitude = $11, longitude = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, current.Nom, current.Adresse, nomNorm, adresseNorm,
		current.ContactNom, current.ContactPrenom, current.ContactEmail, current.ContactTelephone,
		current.NomSite, current.Latitude, current.Longitude)
	if err := row.Scan(&current.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Client not found")
		}
		return nil, vigie.Internal("Failed to update client", err)
	}
	return current, nil
}

// paginate applies offset/limit in memory, matching the listing behavior
// of the other services.
func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
