package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// MemberRepo implements MemberRepository using PostgreSQL.
type MemberRepo struct{ db *DB }

// NewMemberRepo constructs a member repository.
func NewMemberRepo(db *DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = `m.id, m.board_id, m.user_id, m.role, u.email, u.username, m.created_at`

const (
	membersOfSQL = `SELECT ` + memberColumns + ` FROM board_members m JOIN users u ON u.id = m.user_id
WHERE m.board_id=$1 ORDER BY m.created_at, m.id`
	memberByIDSQL = `SELECT ` + memberColumns + ` FROM board_members m JOIN users u ON u.id = m.user_id WHERE m.id=$1`
	tryInviteSQL  = `INSERT INTO board_members (id, board_id, user_id, role) VALUES ($1, $2, $3, $4)
ON CONFLICT (board_id, user_id) DO NOTHING RETURNING id`
	lockMemberSQL   = `SELECT id, role FROM board_members WHERE board_id=$1 AND user_id=$2 FOR UPDATE`
	setRoleSQL      = `UPDATE board_members SET role=$2 WHERE id=$1`
	deleteMemberSQL = `DELETE FROM board_members WHERE id=$1`
)

// List returns the members of a board, oldest first.
func (r *MemberRepo) List(ctx context.Context, boardID uuid.UUID) ([]model.Member, error) {
	rows, err := r.db.Pool.Query(ctx, membersOfSQL, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get selects a member record by ID.
func (r *MemberRepo) Get(ctx context.Context, id uuid.UUID) (model.Member, error) {
	return getMember(ctx, r.db.Pool, id)
}

// Invite inserts the membership, or reports that it already exists with role, or updates
// the role of the existing record. Concurrent invites of the same user resolve on the
// (board_id, user_id) unique key.
func (r *MemberRepo) Invite(
	ctx context.Context, boardID, userID uuid.UUID, role model.Role,
) (m model.Member, status model.InviteStatus, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		newID, err := uuid.NewV4()
		if err != nil {
			return err
		}
		var id uuid.UUID
		err = tx.QueryRow(ctx, tryInviteSQL, newID, boardID, userID, string(role)).Scan(&id)
		switch {
		case err == nil:
			status = model.InviteCreated
		case errors.Is(err, pgx.ErrNoRows):
			var cur string
			if err := tx.QueryRow(ctx, lockMemberSQL, boardID, userID).Scan(&id, &cur); err != nil {
				return err
			}
			status = model.InviteAlreadyExists
			if model.Role(cur) != role {
				if _, err := tx.Exec(ctx, setRoleSQL, id, string(role)); err != nil {
					return err
				}
				status = model.InviteUpdated
			}
		case isForeignKeyViolation(err):
			return errs.ErrNotFound
		default:
			return err
		}
		m, err = getMember(ctx, tx, id)
		return err
	})
	return m, status, err
}

// SetRole changes a member's role.
func (r *MemberRepo) SetRole(ctx context.Context, id uuid.UUID, role model.Role) (model.Member, error) {
	tag, err := r.db.Pool.Exec(ctx, setRoleSQL, id, string(role))
	if err != nil {
		return model.Member{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.Member{}, errs.ErrNotFound
	}
	return getMember(ctx, r.db.Pool, id)
}

// Delete removes a member record.
func (r *MemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, deleteMemberSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func getMember(ctx context.Context, q querier, id uuid.UUID) (model.Member, error) {
	return scanMember(q.QueryRow(ctx, memberByIDSQL, id))
}

func scanMember(row pgx.Row) (model.Member, error) {
	var (
		m    model.Member
		role string
	)
	err := row.Scan(&m.ID, &m.BoardID, &m.UserID, &role, &m.Email, &m.Username, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Member{}, errs.ErrNotFound
	}
	m.Role = model.Role(role)
	return m, err
}
