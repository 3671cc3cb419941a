package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vigie"
)

// Compile-time check that MachineService implements vigie.MachineService.
var _ vigie.MachineService = (*MachineService)(nil)

// MachineService implements vigie.MachineService using PostgreSQL.
type MachineService struct {
	db *DB
}

const machineColumns = `id, client_id, type_machine, nature, constructeur, modele,
	type, numero_serie, force, annee_mise_en_service, reference_client,
	created_at, updated_at`

func scanMachine(row pgx.Row) (*vigie.Machine, error) {
	var m vigie.Machine
	err := row.Scan(&m.ID, &m.ClientID, &m.TypeMachine, &m.Nature, &m.Constructeur, &m.Modele,
		&m.Type, &m.NumeroSerie, &m.Force, &m.AnneeMiseEnService, &m.ReferenceClient,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MachineService) FindMachineByID(ctx context.Context, id uuid.UUID) (*vigie.Machine, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+machineColumns+` FROM machines WHERE id = $1`, id)
	machine, err := scanMachine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Machine not found")
		}
		return nil, vigie.Internal("Failed to fetch machine", err)
	}
	return machine, nil
}

func (s *MachineService) FindMachines(ctx context.Context, filter vigie.MachineFilter) ([]*vigie.Machine, int, error) {
	query := `SELECT ` + machineColumns + ` FROM machines`
	var args []any
	var where []string
	if filter.ID != nil {
		args = append(args, *filter.ID)
		where = append(where, `id = $1`)
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		if len(args) == 1 {
			where = append(where, `client_id = $1`)
		} else {
			where = append(where, `client_id = $2`)
		}
	}
	if filter.NumeroSerie != nil {
		args = append(args, strings.TrimSpace(*filter.NumeroSerie))
		switch len(args) {
		case 1:
			where = append(where, `lower(trim(numero_serie)) = lower($1)`)
		case 2:
			where = append(where, `lower(trim(numero_serie)) = lower($2)`)
		default:
			where = append(where, `lower(trim(numero_serie)) = lower($3)`)
		}
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, vigie.Internal("Failed to list machines", err)
	}
	defer rows.Close()

	var machines []*vigie.Machine
	for rows.Next() {
		machine, err := scanMachine(rows)
		if err != nil {
			return nil, 0, vigie.Internal("Failed to scan machine", err)
		}
		machines = append(machines, machine)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, vigie.Internal("Failed to list machines", err)
	}

	total := len(machines)
	machines = paginate(machines, filter.Offset, filter.Limit)
	return machines, total, nil
}

func (s *MachineService) CreateMachine(ctx context.Context, machine *vigie.Machine) error {
	if machine.TypeMachine == "" {
		machine.TypeMachine = vigie.MachineTypeMobile
	}
	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO machines (client_id, type_machine, nature, constructeur, modele,
			type, numero_serie, force, annee_mise_en_service, reference_client)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		machine.ClientID, machine.TypeMachine, machine.Nature, machine.Constructeur, machine.Modele,
		machine.Type, machine.NumeroSerie, machine.Force, machine.AnneeMiseEnService, machine.ReferenceClient)
	if err := row.Scan(&machine.ID, &machine.CreatedAt, &machine.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return vigie.NotFound("Client not found")
		}
		return vigie.Internal("Failed to create machine", err)
	}
	return nil
}

func (s *MachineService) UpdateMachine(ctx context.Context, id uuid.UUID, upd vigie.MachineUpdate) (*vigie.Machine, error) {
	current, err := s.FindMachineByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.TypeMachine != nil {
		current.TypeMachine = *upd.TypeMachine
	}
	if upd.Nature != nil {
		current.Nature = *upd.Nature
	}
	if upd.Constructeur != nil {
		current.Constructeur = *upd.Constructeur
	}
	if upd.Modele != nil {
		current.Modele = *upd.Modele
	}
	if upd.Type != nil {
		current.Type = *upd.Type
	}
	if upd.Force != nil {
		current.Force = *upd.Force
	}
	if upd.AnneeMiseEnService != nil {
		current.AnneeMiseEnService = *upd.AnneeMiseEnService
	}
	if upd.ReferenceClient != nil {
		current.ReferenceClient = *upd.ReferenceClient
	}

	row := s.db.pool.QueryRow(ctx, `
		UPDATE machines SET type_machine = $2, nature = $3, constructeur = $4, modele = $5,
			type = $6, force = $7, annee_mise_en_service = $8, reference_client = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, current.TypeMachine, current.Nature, current.Constructeur, current.Modele,
		current.Type, current.Force, current.AnneeMiseEnService, current.ReferenceClient)
	if err := row.Scan(&current.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Machine not found")
		}
		return nil, vigie.Internal("Failed to update machine", err)
	}
	return current, nil
}
