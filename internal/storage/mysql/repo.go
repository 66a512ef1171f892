package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"pms_dashboard/internal/domain"
)

const errDupEntry = 1062

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// mapErr turns driver errors into domain sentinels.
func mapErr(err error) error {
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == errDupEntry {
		return domain.ErrConflict
	}
	return err
}

func splitCodes(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return []string{}
	}
	return strings.Split(s.String, ",")
}

// insertLinks bulk-inserts (owner, hotel_code) rows.
func insertLinks(ctx context.Context, tx *sql.Tx, prefix, owner string, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	values := make([]string, 0, len(codes))
	args := make([]any, 0, len(codes)*2)
	for _, c := range codes {
		values = append(values, "(?,?)")
		args = append(args, owner, c)
	}
	_, err := tx.ExecContext(ctx, prefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapErr(err)
	}
	return tx.Commit()
}

/********** agents **********/

func (r *Repo) CreateAgent(ctx context.Context, a domain.Agent) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertAgentSQL, a.ID, a.Name, a.Email, a.Status, a.CreatedAt); err != nil {
			return err
		}
		return insertLinks(ctx, tx, insertAgentHotelsPrefix, a.ID, a.Hotels)
	})
}

func (r *Repo) GetAgent(ctx context.Context, id string) (domain.Agent, error) {
	rows, err := r.queryAgents(ctx, "WHERE a.id = ?", id)
	if err != nil {
		return domain.Agent{}, err
	}
	if len(rows) == 0 {
		return domain.Agent{}, domain.ErrNotFound
	}
	return rows[0], nil
}

func (r *Repo) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return r.queryAgents(ctx, "")
}

func (r *Repo) queryAgents(ctx context.Context, where string, args ...any) ([]domain.Agent, error) {
	rows, err := r.db.QueryContext(ctx, selectAgentsSQL+where+groupAgentsSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Agent{}
	for rows.Next() {
		var a domain.Agent
		var codes sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Status, &a.CreatedAt, &codes); err != nil {
			return nil, err
		}
		a.Hotels = splitCodes(codes)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplaceAgentHotels deletes then re-inserts the agent's links in one transaction.
func (r *Repo) ReplaceAgentHotels(ctx context.Context, agentID string, codes []string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM agents WHERE id = ? FOR UPDATE`, agentID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteAgentHotelsSQL, agentID); err != nil {
			return err
		}
		return insertLinks(ctx, tx, insertAgentHotelsPrefix, agentID, codes)
	})
}

/********** team members **********/

func (r *Repo) CreateTeamMember(ctx context.Context, m domain.TeamMember) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertTeamMemberSQL,
			m.ID, m.FirstName, m.LastName, m.Email, m.Role, m.Active, m.CreatedAt,
		); err != nil {
			return err
		}
		return insertLinks(ctx, tx, insertMemberHotelsPrefix, m.ID, m.Hotels)
	})
}

func (r *Repo) ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, selectTeamMembersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.TeamMember{}
	for rows.Next() {
		var m domain.TeamMember
		var codes sql.NullString
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Role, &m.Active, &m.CreatedAt, &codes); err != nil {
			return nil, err
		}
		m.Hotels = splitCodes(codes)
		out = append(out, m)
	}
	return out, rows.Err()
}

/********** room-type rules **********/

func (r *Repo) ListRules(ctx context.Context, hotelCode string) ([]domain.RoomTypeRule, error) {
	rows, err := r.db.QueryContext(ctx, selectRulesSQL, hotelCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RoomTypeRule{}
	for rows.Next() {
		var rl domain.RoomTypeRule
		var ruleType string
		if err := rows.Scan(&rl.HotelCode, &rl.RoomTypeID, &rl.DisplayName, &rl.Active, &ruleType, &rl.RuleValue, &rl.MinThreshold); err != nil {
			return nil, err
		}
		rl.RuleType = domain.RuleType(ruleType)
		out = append(out, rl)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertRule(ctx context.Context, rl domain.RoomTypeRule) error {
	_, err := r.db.ExecContext(ctx, upsertRuleSQL,
		rl.HotelCode,
		rl.RoomTypeID,
		rl.DisplayName,
		rl.Active,
		string(rl.RuleType),
		rl.RuleValue,
		rl.MinThreshold,
	)
	return mapErr(err)
}
