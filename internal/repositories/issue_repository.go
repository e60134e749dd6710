package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error)

	// Update rewrites the mutable columns from the model and appends
	// the trail entry in the same statement.
	Update(ctx context.Context, issue *models.Issue, trail *models.TrailEntry) error
	Delete(ctx context.Context, id uuid.UUID) error

	AttachEvidence(ctx context.Context, id uuid.UUID, phase models.EvidencePhase, urls []string) error
	DetachEvidence(ctx context.Context, id uuid.UUID, phase models.EvidencePhase, url string) error

	// EscalateAged flags every unresolved, unflagged issue created
	// before cutoff and returns how many rows changed.
	EscalateAged(ctx context.Context, cutoff time.Time) (int64, error)

	Search(ctx context.Context, c dtos.IssueCriteria) ([]dtos.IssueRow, int, error)
	Export(ctx context.Context, c dtos.IssueCriteria) ([]dtos.IssueRow, error)
	Stats(ctx context.Context, month *dtos.TimeRange) ([]dtos.RegionStatusStat, []dtos.RegionStatusTypeStat, []dtos.StatusStat, error)
}

type issueRepo struct {
	db DB
}

func NewIssueRepository(db DB) IssueRepository {
	return &issueRepo{db: db}
}

func baseSelectIssue() string {
	return `
        SELECT
            id, code, auditor_id, station_manager_id, resolved_by_id,
            date, date_identified, date_of_closure,
            region, type, station, details,
            evidences_before, evidences_after,
            action_taken, feedback, maintenance_comment,
            status, is_prioritized, updated_by,
            created_at, updated_at
        FROM issues
    `
}

func scanIssue(row pgx.Row) (*models.Issue, error) {
	var iss models.Issue
	var trail []byte
	err := row.Scan(
		&iss.ID,
		&iss.Code,
		&iss.AuditorID,
		&iss.StationManagerID,
		&iss.ResolvedByID,
		&iss.Date,
		&iss.DateIdentified,
		&iss.DateOfClosure,
		&iss.Region,
		&iss.Type,
		&iss.Station,
		&iss.Details,
		&iss.EvidencesBefore,
		&iss.EvidencesAfter,
		&iss.ActionTaken,
		&iss.Feedback,
		&iss.MaintenanceComment,
		&iss.Status,
		&iss.IsPrioritized,
		&trail,
		&iss.CreatedAt,
		&iss.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(trail) > 0 {
		if err := json.Unmarshal(trail, &iss.UpdatedBy); err != nil {
			return nil, err
		}
	}
	return &iss, nil
}

func (r *issueRepo) Create(ctx context.Context, issue *models.Issue) error {
	trail, err := json.Marshal(issue.UpdatedBy)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO issues (
            id, code, auditor_id, station_manager_id, resolved_by_id,
            date, date_identified, date_of_closure,
            region, type, station, details,
            evidences_before, evidences_after,
            action_taken, feedback, maintenance_comment,
            status, is_prioritized, updated_by,
            created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,NOW(),NOW()
        )
    `,
		issue.ID,
		issue.Code,
		issue.AuditorID,
		issue.StationManagerID,
		issue.ResolvedByID,
		issue.Date,
		issue.DateIdentified,
		issue.DateOfClosure,
		issue.Region,
		issue.Type,
		issue.Station,
		issue.Details,
		issue.EvidencesBefore,
		issue.EvidencesAfter,
		issue.ActionTaken,
		issue.Feedback,
		issue.MaintenanceComment,
		issue.Status,
		issue.IsPrioritized,
		trail,
	)
	return err
}

func (r *issueRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	row := r.db.QueryRow(ctx, baseSelectIssue()+" WHERE id=$1", id)
	iss, err := scanIssue(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	return iss, err
}

func (r *issueRepo) Update(ctx context.Context, issue *models.Issue, trail *models.TrailEntry) error {
	// Appending '[]'::jsonb is a no-op, so a nil trail entry leaves
	// the history untouched without a second statement.
	entries := []models.TrailEntry{}
	if trail != nil {
		entries = append(entries, *trail)
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, `
        UPDATE issues SET
            station_manager_id=$2, resolved_by_id=$3,
            date=$4, date_identified=$5, date_of_closure=$6,
            region=$7, type=$8, station=$9, details=$10,
            evidences_before=$11, evidences_after=$12,
            action_taken=$13, feedback=$14, maintenance_comment=$15,
            status=$16, is_prioritized=$17,
            updated_by = updated_by || $18::jsonb,
            updated_at=NOW()
        WHERE id=$1
    `,
		issue.ID,
		issue.StationManagerID,
		issue.ResolvedByID,
		issue.Date,
		issue.DateIdentified,
		issue.DateOfClosure,
		issue.Region,
		issue.Type,
		issue.Station,
		issue.Details,
		issue.EvidencesBefore,
		issue.EvidencesAfter,
		issue.ActionTaken,
		issue.Feedback,
		issue.MaintenanceComment,
		issue.Status,
		issue.IsPrioritized,
		payload,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *issueRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM issues WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func evidenceColumn(phase models.EvidencePhase) (string, error) {
	switch phase {
	case models.EvidenceBefore:
		return "evidences_before", nil
	case models.EvidenceAfter:
		return "evidences_after", nil
	default:
		return "", utils.NewFieldError("phase", "unknown evidence phase")
	}
}

// AttachEvidence appends urls that the list does not already contain.
// Duplicates inside urls itself must be removed by the caller.
func (r *issueRepo) AttachEvidence(ctx context.Context, id uuid.UUID, phase models.EvidencePhase, urls []string) error {
	col, err := evidenceColumn(phase)
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, fmt.Sprintf(`
        UPDATE issues SET
            %[1]s = %[1]s || COALESCE(
                (SELECT array_agg(u) FROM unnest($2::text[]) AS u WHERE NOT u = ANY(%[1]s)),
                '{}'
            ),
            updated_at=NOW()
        WHERE id=$1
    `, col), id, urls)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// DetachEvidence removes exactly one occurrence of url. A row that
// exists but does not contain url yields ErrConflict so the caller can
// tell a stale reference from a missing issue.
func (r *issueRepo) DetachEvidence(ctx context.Context, id uuid.UUID, phase models.EvidencePhase, url string) error {
	col, err := evidenceColumn(phase)
	if err != nil {
		return err
	}
	// array_remove would drop every occurrence; splice around the
	// first match instead.
	ct, err := r.db.Exec(ctx, fmt.Sprintf(`
        UPDATE issues SET
            %[1]s = %[1]s[1:array_position(%[1]s,$2)-1] || %[1]s[array_position(%[1]s,$2)+1:],
            updated_at=NOW()
        WHERE id=$1 AND $2 = ANY(%[1]s)
    `, col), id, url)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return utils.ErrConflict
	}
	return nil
}

func (r *issueRepo) EscalateAged(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE issues SET
            is_prioritized=TRUE,
            updated_at=NOW()
        WHERE created_at < $1
          AND status <> $2
          AND is_prioritized=FALSE
    `, cutoff, models.StatusResolved)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// ----------------------------------------------------------------
// Listing / aggregation
// ----------------------------------------------------------------

// daysOpenExpr ages an issue from identification to closure, or to now
// while it stays open, truncated to whole days.
const daysOpenExpr = `TRUNC(EXTRACT(EPOCH FROM (COALESCE(i.date_of_closure, NOW()) - i.date_identified)) / 86400)::int`

func baseSelectIssueRow() string {
	return `
        SELECT
            i.id, i.code, i.auditor_id, i.station_manager_id, i.resolved_by_id,
            i.date, i.date_identified, i.date_of_closure,
            i.region, i.type, i.station, i.details,
            i.evidences_before, i.evidences_after,
            i.action_taken, i.feedback, i.maintenance_comment,
            i.status, i.is_prioritized, i.updated_by,
            i.created_at, i.updated_at,
            a.name, sm.name, rb.name,
            ` + daysOpenExpr + ` AS days_open
        FROM issues i
        JOIN users a ON a.id = i.auditor_id
        JOIN users sm ON sm.id = i.station_manager_id
        LEFT JOIN users rb ON rb.id = i.resolved_by_id
    `
}

func scanIssueRow(row pgx.Row) (*dtos.IssueRow, error) {
	var out dtos.IssueRow
	var trail []byte
	err := row.Scan(
		&out.ID,
		&out.Code,
		&out.AuditorID,
		&out.StationManagerID,
		&out.ResolvedByID,
		&out.Date,
		&out.DateIdentified,
		&out.DateOfClosure,
		&out.Region,
		&out.Type,
		&out.Station,
		&out.Details,
		&out.EvidencesBefore,
		&out.EvidencesAfter,
		&out.ActionTaken,
		&out.Feedback,
		&out.MaintenanceComment,
		&out.Status,
		&out.IsPrioritized,
		&trail,
		&out.CreatedAt,
		&out.UpdatedAt,
		&out.AuditorName,
		&out.StationManagerName,
		&out.ResolvedByName,
		&out.DaysOpen,
	)
	if err != nil {
		return nil, err
	}
	if len(trail) > 0 {
		if err := json.Unmarshal(trail, &out.UpdatedBy); err != nil {
			return nil, err
		}
	}
	out.ResolvedBy = out.ResolvedByID
	return &out, nil
}

// buildIssueFilter renders the WHERE clause for a criteria set.
// Substring matches and set filters on the same field stack up.
func buildIssueFilter(c dtos.IssueCriteria) (string, []any) {
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
	if c.DateIdentified != nil {
		add("i.date_identified >= ?", c.DateIdentified.From)
		add("i.date_identified <= ?", c.DateIdentified.To)
	}
	if c.Auditor != "" {
		add("a.name ILIKE ?", "%"+c.Auditor+"%")
	}
	if c.StationManager != "" {
		add("sm.name ILIKE ?", "%"+c.StationManager+"%")
	}
	if c.Station != "" {
		add("i.station ILIKE ?", "%"+c.Station+"%")
	}
	if c.Status != "" {
		add("i.status ILIKE ?", "%"+c.Status+"%")
	}
	if c.Type != "" {
		add("i.type ILIKE ?", "%"+c.Type+"%")
	}
	if c.Region != "" {
		add("i.region ILIKE ?", "%"+c.Region+"%")
	}
	if len(c.StatusIn) > 0 {
		add("i.status = ANY(?)", c.StatusIn)
	}
	if len(c.TypeIn) > 0 {
		add("i.type = ANY(?)", c.TypeIn)
	}
	if len(c.RegionIn) > 0 {
		add("i.region = ANY(?)", c.RegionIn)
	}
	return qb.String(), args
}

func issueOrderBy(c dtos.IssueCriteria) string {
	dir := " ASC"
	if c.Desc {
		dir = " DESC"
	}
	switch c.Sort {
	case dtos.SortByDate:
		return " ORDER BY i.date" + dir
	case dtos.SortByDateIdentified:
		return " ORDER BY i.date_identified" + dir
	case dtos.SortByDaysOpen:
		return " ORDER BY days_open" + dir
	default:
		return " ORDER BY i.created_at DESC"
	}
}

func (r *issueRepo) Search(ctx context.Context, c dtos.IssueCriteria) ([]dtos.IssueRow, int, error) {
	where, args := buildIssueFilter(c)

	var total int
	countQ := `
        SELECT COUNT(*)
        FROM issues i
        JOIN users a ON a.id = i.auditor_id
        JOIN users sm ON sm.id = i.station_manager_id
        LEFT JOIN users rb ON rb.id = i.resolved_by_id
    ` + where
	if err := r.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := baseSelectIssueRow() + where + issueOrderBy(c)
	pageArgs := args
	q += " LIMIT $" + strconv.Itoa(len(pageArgs)+1)
	pageArgs = append(pageArgs, c.PageSize)
	q += " OFFSET $" + strconv.Itoa(len(pageArgs)+1)
	pageArgs = append(pageArgs, c.PageSize*(c.Page-1))

	rows, err := r.db.Query(ctx, q, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []dtos.IssueRow{}
	for rows.Next() {
		iss, err := scanIssueRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *iss)
	}
	return out, total, rows.Err()
}

// Export returns every matching row oldest-first, unpaginated.
func (r *issueRepo) Export(ctx context.Context, c dtos.IssueCriteria) ([]dtos.IssueRow, error) {
	where, args := buildIssueFilter(c)
	q := baseSelectIssueRow() + where + " ORDER BY i.created_at ASC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []dtos.IssueRow{}
	for rows.Next() {
		iss, err := scanIssueRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iss)
	}
	return out, rows.Err()
}

func (r *issueRepo) Stats(ctx context.Context, month *dtos.TimeRange) ([]dtos.RegionStatusStat, []dtos.RegionStatusTypeStat, []dtos.StatusStat, error) {
	var (
		where string
		args  []any
	)
	if month != nil {
		where = " WHERE date >= $1 AND date <= $2"
		args = []any{month.From, month.To}
	}

	regionStats := []dtos.RegionStatusStat{}
	rows, err := r.db.Query(ctx, `SELECT region, status, COUNT(*) FROM issues`+where+` GROUP BY region, status`, args...)
	if err != nil {
		return nil, nil, nil, err
	}
	for rows.Next() {
		var s dtos.RegionStatusStat
		if err := rows.Scan(&s.Region, &s.Status, &s.Count); err != nil {
			rows.Close()
			return nil, nil, nil, err
		}
		regionStats = append(regionStats, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	typeStats := []dtos.RegionStatusTypeStat{}
	rows, err = r.db.Query(ctx, `SELECT region, status, type, COUNT(*) FROM issues`+where+` GROUP BY region, status, type`, args...)
	if err != nil {
		return nil, nil, nil, err
	}
	for rows.Next() {
		var s dtos.RegionStatusTypeStat
		if err := rows.Scan(&s.Region, &s.Status, &s.Type, &s.Count); err != nil {
			rows.Close()
			return nil, nil, nil, err
		}
		typeStats = append(typeStats, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	overall := []dtos.StatusStat{}
	rows, err = r.db.Query(ctx, `SELECT status, COUNT(*) FROM issues`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, nil, nil, err
	}
	for rows.Next() {
		var s dtos.StatusStat
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			rows.Close()
			return nil, nil, nil, err
		}
		overall = append(overall, s)
	}
	rows.Close()
	return regionStats, typeStats, overall, rows.Err()
}
