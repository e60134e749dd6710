package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// TouchActivity stamps recent_activity without bumping updated_at.
	TouchActivity(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, c dtos.UserCriteria) ([]models.User, int, error)
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func baseSelectUser() string {
	return `
        SELECT
            id, name, email, password_hash, role,
            profile_picture, recent_activity,
            created_at, updated_at
        FROM users
    `
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.ProfilePicture,
		&u.RecentActivity,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, name, email, password_hash, role,
            profile_picture, created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,NOW(),NOW()
        )
    `,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.ProfilePicture,
	)
	if isUniqueViolation(err) {
		return utils.ErrEmailExists
	}
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	return u, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE LOWER(email)=LOWER($1)", email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	return u, err
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	ct, err := r.db.Exec(ctx, `
        UPDATE users SET
            name=$2, email=$3, password_hash=$4, role=$5,
            profile_picture=$6,
            updated_at=NOW()
        WHERE id=$1
    `,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.ProfilePicture,
	)
	if isUniqueViolation(err) {
		return utils.ErrEmailExists
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *userRepo) TouchActivity(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET recent_activity=NOW() WHERE id=$1`, id)
	return err
}

func (r *userRepo) Search(ctx context.Context, c dtos.UserCriteria) ([]models.User, int, error) {
	var (
		qb   strings.Builder
		args []any
		idx  = 1
	)

	if c.Name != "" {
		qb.WriteString(" WHERE name ILIKE $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, "%"+c.Name+"%")
		idx++
	}
	if len(c.RoleIn) > 0 {
		if len(args) == 0 {
			qb.WriteString(" WHERE role = ANY($")
		} else {
			qb.WriteString(" AND role = ANY($")
		}
		qb.WriteString(strconv.Itoa(idx))
		qb.WriteString(")")
		args = append(args, c.RoleIn)
		idx++
	}
	where := qb.String()

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY created_at DESC"
	if c.NameDesc != nil {
		if *c.NameDesc {
			order = " ORDER BY name DESC"
		} else {
			order = " ORDER BY name ASC"
		}
	}

	q := baseSelectUser() + where + order
	q += " LIMIT $" + strconv.Itoa(len(args)+1)
	args = append(args, c.PageSize)
	q += " OFFSET $" + strconv.Itoa(len(args)+1)
	args = append(args, c.PageSize*(c.Page-1))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}
