package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type InitiativeRepository interface {
	Create(ctx context.Context, ini *models.Initiative) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Initiative, error)
	Update(ctx context.Context, ini *models.Initiative) error
	Delete(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, c dtos.InitiativeCriteria) ([]dtos.InitiativeRow, int, error)
	Export(ctx context.Context, c dtos.InitiativeCriteria) ([]dtos.InitiativeRow, error)
}

type initiativeRepo struct {
	db DB
}

func NewInitiativeRepository(db DB) InitiativeRepository {
	return &initiativeRepo{db: db}
}

func baseSelectInitiative() string {
	return `
        SELECT
            id, code, auditor_id, date,
            region, type, station, details,
            evidences_before, evidences_after,
            created_at, updated_at
        FROM initiatives
    `
}

func scanInitiative(row pgx.Row) (*models.Initiative, error) {
	var ini models.Initiative
	err := row.Scan(
		&ini.ID,
		&ini.Code,
		&ini.AuditorID,
		&ini.Date,
		&ini.Region,
		&ini.Type,
		&ini.Station,
		&ini.Details,
		&ini.EvidencesBefore,
		&ini.EvidencesAfter,
		&ini.CreatedAt,
		&ini.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ini, nil
}

func (r *initiativeRepo) Create(ctx context.Context, ini *models.Initiative) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO initiatives (
            id, code, auditor_id, date,
            region, type, station, details,
            evidences_before, evidences_after,
            created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW()
        )
    `,
		ini.ID,
		ini.Code,
		ini.AuditorID,
		ini.Date,
		ini.Region,
		ini.Type,
		ini.Station,
		ini.Details,
		ini.EvidencesBefore,
		ini.EvidencesAfter,
	)
	return err
}

func (r *initiativeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Initiative, error) {
	row := r.db.QueryRow(ctx, baseSelectInitiative()+" WHERE id=$1", id)
	ini, err := scanInitiative(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	return ini, err
}

func (r *initiativeRepo) Update(ctx context.Context, ini *models.Initiative) error {
	ct, err := r.db.Exec(ctx, `
        UPDATE initiatives SET
            date=$2, region=$3, type=$4, station=$5, details=$6,
            evidences_before=$7, evidences_after=$8,
            updated_at=NOW()
        WHERE id=$1
    `,
		ini.ID,
		ini.Date,
		ini.Region,
		ini.Type,
		ini.Station,
		ini.Details,
		ini.EvidencesBefore,
		ini.EvidencesAfter,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *initiativeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM initiatives WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func buildInitiativeFilter(c dtos.InitiativeCriteria) (string, []any) {
	var (
		qb   strings.Builder
		args []any
		idx  = 1
	)

	add := func(clause string, value any) {
		if len(args) == 0 {
			qb.WriteString(" WHERE ")
		} else {
			qb.WriteString(" AND ")
		}
		qb.WriteString(strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(idx)))
		args = append(args, value)
		idx++
	}

	if c.Code != "" {
		add("i.code = ?", c.Code)
	}
	if c.Date != nil {
		add("i.date >= ?", c.Date.From)
		add("i.date <= ?", c.Date.To)
	}
	if c.Auditor != "" {
		add("a.name ILIKE ?", "%"+c.Auditor+"%")
	}
	if c.Station != "" {
		add("i.station ILIKE ?", "%"+c.Station+"%")
	}
	if c.Type != "" {
		add("i.type ILIKE ?", "%"+c.Type+"%")
	}
	if c.Region != "" {
		add("i.region ILIKE ?", "%"+c.Region+"%")
	}
	if len(c.TypeIn) > 0 {
		add("i.type = ANY(?)", c.TypeIn)
	}
	if len(c.RegionIn) > 0 {
		add("i.region = ANY(?)", c.RegionIn)
	}
	return qb.String(), args
}

const initiativeRowSelect = `
        SELECT
            i.id, i.code, i.auditor_id, i.date,
            i.region, i.type, i.station, i.details,
            i.evidences_before, i.evidences_after,
            i.created_at, i.updated_at,
            a.name
        FROM initiatives i
        JOIN users a ON a.id = i.auditor_id
    `

func scanInitiativeRow(row pgx.Row) (*dtos.InitiativeRow, error) {
	var out dtos.InitiativeRow
	err := row.Scan(
		&out.ID,
		&out.Code,
		&out.AuditorID,
		&out.Date,
		&out.Region,
		&out.Type,
		&out.Station,
		&out.Details,
		&out.EvidencesBefore,
		&out.EvidencesAfter,
		&out.CreatedAt,
		&out.UpdatedAt,
		&out.AuditorName,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *initiativeRepo) Search(ctx context.Context, c dtos.InitiativeCriteria) ([]dtos.InitiativeRow, int, error) {
	where, args := buildInitiativeFilter(c)
	from := `
        FROM initiatives i
        JOIN users a ON a.id = i.auditor_id
    `

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY i.created_at DESC"
	if c.Sort == dtos.SortByDate {
		if c.Desc {
			order = " ORDER BY i.date DESC"
		} else {
			order = " ORDER BY i.date ASC"
		}
	}

	q := initiativeRowSelect + where + order
	q += " LIMIT $" + strconv.Itoa(len(args)+1)
	args = append(args, c.PageSize)
	q += " OFFSET $" + strconv.Itoa(len(args)+1)
	args = append(args, c.PageSize*(c.Page-1))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []dtos.InitiativeRow{}
	for rows.Next() {
		row, err := scanInitiativeRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *row)
	}
	return out, total, rows.Err()
}

// Export returns every matching row oldest-first, unpaginated.
func (r *initiativeRepo) Export(ctx context.Context, c dtos.InitiativeCriteria) ([]dtos.InitiativeRow, error) {
	where, args := buildInitiativeFilter(c)
	q := initiativeRowSelect + where + " ORDER BY i.created_at ASC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []dtos.InitiativeRow{}
	for rows.Next() {
		row, err := scanInitiativeRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}
