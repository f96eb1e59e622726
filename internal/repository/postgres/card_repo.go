package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// CardRepo implements CardRepository using PostgreSQL.
type CardRepo struct{ db *DB }

// NewCardRepo constructs a card repository.
func NewCardRepo(db *DB) *CardRepo { return &CardRepo{db: db} }

const cardColumns = `id, list_id, title, description, category, position, due_date, budget, people, created_at`

const (
	insertCardSQL = `INSERT INTO cards (id, list_id, title, description, category, position, due_date, budget, people)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`
	cardByIDSQL   = `SELECT ` + cardColumns + ` FROM cards WHERE id=$1`
	updateCardSQL = `UPDATE cards SET
  title = COALESCE($2, title),
  description = COALESCE($3, description),
  category = COALESCE($4, category),
  due_date = CASE WHEN $5 THEN NULL ELSE COALESCE($6, due_date) END,
  budget = COALESCE($7, budget),
  people = COALESCE($8, people)
WHERE id=$1
RETURNING ` + cardColumns
	deleteCardSQL    = `DELETE FROM cards WHERE id=$1`
	assigneesSQL     = `SELECT card_id, user_id FROM card_assignees WHERE card_id = ANY($1::uuid[]) ORDER BY card_id, user_id`
	addAssigneeSQL   = `INSERT INTO card_assignees (card_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	dropAssigneeSQL  = `DELETE FROM card_assignees WHERE card_id=$1 AND user_id=$2`
	defaultCardOrder = `position, created_at, id`
)

// cardOrderings maps accepted ordering keys to ORDER BY clauses. Every clause ends in the
// sibling order so that pages are stable.
var cardOrderings = map[string]string{
	"":            defaultCardOrder,
	"position":    defaultCardOrder,
	"budget":      `budget, ` + defaultCardOrder,
	"-budget":     `budget DESC, ` + defaultCardOrder,
	"due_date":    `due_date NULLS LAST, ` + defaultCardOrder,
	"-due_date":   `due_date DESC NULLS LAST, ` + defaultCardOrder,
	"created_at":  `created_at, id`,
	"-created_at": `created_at DESC, id`,
}

// ValidCardOrdering reports whether key is an accepted card ordering.
func ValidCardOrdering(key string) bool {
	_, ok := cardOrderings[key]
	return ok
}

// Create appends or inserts c under its list.
func (r *CardRepo) Create(ctx context.Context, c *model.Card, index *int) error {
	return r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		pos, err := cardLedger.place(ctx, tx, c.ListID, c.ID, index)
		if err != nil {
			return err
		}
		c.Position = pos
		return tx.QueryRow(ctx, insertCardSQL,
			c.ID, c.ListID, c.Title, c.Description, c.Category, c.Position, c.DueDate, c.Budget, c.People,
		).Scan(&c.CreatedAt)
	})
}

// Get selects a card with its assignees.
func (r *CardRepo) Get(ctx context.Context, id uuid.UUID) (model.Card, error) {
	c, err := scanCard(r.db.Pool.QueryRow(ctx, cardByIDSQL, id))
	if err != nil {
		return model.Card{}, err
	}
	cards := []model.Card{c}
	if err := loadAssignees(ctx, r.db.Pool, cards); err != nil {
		return model.Card{}, err
	}
	return cards[0], nil
}

// Query returns one filtered, ordered page of a list's cards and the total match count.
func (r *CardRepo) Query(ctx context.Context, listID uuid.UUID, f model.CardFilter) (model.CardPage, error) {
	order, ok := cardOrderings[f.Ordering]
	if !ok {
		return model.CardPage{}, errs.Invalid("ordering", "unknown key "+f.Ordering)
	}
	page, size := max(f.Page, 1), f.PageSize
	if size < 1 {
		size = 20
	}
	where, args := cardWhere(listID, f)

	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE `+where, args...).Scan(&count); err != nil {
		return model.CardPage{}, err
	}

	offset := (page - 1) * size
	q := fmt.Sprintf(`SELECT %s FROM cards WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		cardColumns, where, order, len(args)+1, len(args)+2)
	cards, err := queryCards(ctx, r.db.Pool, q, append(args, size, offset)...)
	if err != nil {
		return model.CardPage{}, err
	}
	if err := loadAssignees(ctx, r.db.Pool, cards); err != nil {
		return model.CardPage{}, err
	}
	return model.CardPage{
		Cards: cards,
		Count: int(count),
		Page:  page,
		Next:  int64(offset+len(cards)) < count,
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// cardWhere builds the filter predicate; $1 is always the list id.
func cardWhere(listID uuid.UUID, f model.CardFilter) (string, []any) {
	conds := []string{"list_id = $1"}
	args := []any{listID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Search != "" {
		add("title ILIKE $%d", "%"+likeEscaper.Replace(f.Search)+"%")
	}
	if f.MinBudget != nil {
		add("budget >= $%d", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		add("budget <= $%d", *f.MaxBudget)
	}
	if f.DueFrom != nil {
		add("due_date >= $%d", *f.DueFrom)
	}
	if f.DueTo != nil {
		add("due_date <= $%d", *f.DueTo)
	}
	return strings.Join(conds, " AND "), args
}

// Update applies the set fields of p.
func (r *CardRepo) Update(ctx context.Context, id uuid.UUID, p model.CardPatch) (model.Card, error) {
	c, err := scanCard(r.db.Pool.QueryRow(ctx, updateCardSQL,
		id, p.Title, p.Description, p.Category, p.ClearDue, p.DueDate, p.Budget, p.People))
	if err != nil {
		return model.Card{}, err
	}
	cards := []model.Card{c}
	if err := loadAssignees(ctx, r.db.Pool, cards); err != nil {
		return model.Card{}, err
	}
	return cards[0], nil
}

// Delete removes a card. Remaining siblings keep their positions.
func (r *CardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, deleteCardSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Move places a card at index in toList (same-list reorder when toList is its current list).
func (r *CardRepo) Move(ctx context.Context, id, fromList, toList uuid.UUID, index int) (at model.Placement, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		at, err = cardLedger.move(ctx, tx, id, fromList, toList, index)
		return err
	})
	return at, err
}

// Reorder applies an explicit order to the cards of a list.
func (r *CardRepo) Reorder(ctx context.Context, listID uuid.UUID, ids []uuid.UUID) (order []uuid.UUID, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		order, err = cardLedger.reorder(ctx, tx, listID, ids)
		return err
	})
	return order, err
}

// AddAssignees links users to a card, returning the newly linked ones.
func (r *CardRepo) AddAssignees(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) (added []uuid.UUID, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		added = added[:0]
		for _, u := range userIDs {
			tag, err := tx.Exec(ctx, addAssigneeSQL, id, u)
			if isForeignKeyViolation(err) {
				return errs.ErrNotFound
			}
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 1 {
				added = append(added, u)
			}
		}
		return nil
	})
	return added, err
}

// RemoveAssignee unlinks a user from a card.
func (r *CardRepo) RemoveAssignee(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, dropAssigneeSQL, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundField("assignee")
	}
	return nil
}

func scanCard(row pgx.Row) (model.Card, error) {
	var c model.Card
	err := row.Scan(&c.ID, &c.ListID, &c.Title, &c.Description, &c.Category, &c.Position,
		&c.DueDate, &c.Budget, &c.People, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Card{}, errs.ErrNotFound
	}
	return c, err
}

func queryCards(ctx context.Context, q querier, sql string, args ...any) ([]model.Card, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// loadAssignees fills Assignees of cards in place.
func loadAssignees(ctx context.Context, q querier, cards []model.Card) error {
	if len(cards) == 0 {
		return nil
	}
	ids := make([]string, len(cards))
	idx := make(map[uuid.UUID]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID.String()
		idx[c.ID] = i
	}
	rows, err := q.Query(ctx, assigneesSQL, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cardID, userID uuid.UUID
		if err := rows.Scan(&cardID, &userID); err != nil {
			return err
		}
		if i, ok := idx[cardID]; ok {
			cards[i].Assignees = append(cards[i].Assignees, userID)
		}
	}
	return rows.Err()
}
