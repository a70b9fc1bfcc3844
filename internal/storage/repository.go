package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"saldo/internal/core"
	"saldo/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores groups and expenses in a local SQLite database.
// It implements the ledger ports used by the HTTP layer and the report
// service.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ledger.ExpenseWriter = (*SQLiteRepository)(nil)
	_ ledger.ExpenseLister = (*SQLiteRepository)(nil)
	_ ledger.GroupWriter   = (*SQLiteRepository)(nil)
	_ ledger.GroupLister   = (*SQLiteRepository)(nil)
	_ ledger.RosterReader  = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateGroup implements ledger.GroupWriter. It mints the group id and
// persists members in their given order.
func (r *SQLiteRepository) CreateGroup(ctx context.Context, g core.Group) (core.Group, error) {
	if err := g.Validate(); err != nil {
		return core.Group{}, fmt.Errorf("validate group: %w", err)
	}

	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Group{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)`,
		g.ID, g.Name, g.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Group{}, fmt.Errorf("insert group: %w", err)
	}

	for i, m := range g.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, member_id, name, position) VALUES (?, ?, ?, ?)`,
			g.ID, m.ID, m.Name, i)
		if err != nil {
			return core.Group{}, fmt.Errorf("insert member %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Group{}, fmt.Errorf("commit group: %w", err)
	}

	slog.InfoContext(ctx, "Group saved",
		"id", g.ID,
		"name", g.Name,
		"members", len(g.Members))

	return g, nil
}

// ListGroups implements ledger.GroupLister, newest first.
func (r *SQLiteRepository) ListGroups(ctx context.Context) ([]core.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM groups ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []core.Group{}
	for rows.Next() {
		var g core.Group
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	for i := range groups {
		members, err := r.groupMembers(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (r *SQLiteRepository) groupMembers(ctx context.Context, groupID string) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT member_id, name FROM group_members WHERE group_id = ? ORDER BY position`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query members for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Roster implements ledger.RosterReader: member id -> display name over all
// groups. Built fresh on every call so renames show up immediately.
func (r *SQLiteRepository) Roster(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT member_id, name FROM group_members`)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	roster := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		roster[id] = name
	}
	return roster, rows.Err()
}

// CreateExpense implements ledger.ExpenseWriter. The split is kept as a
// JSON column; core.Split's encoder preserves participant order, which the
// settlement output depends on.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	e.ID = uuid.NewString()

	var split sql.NullString
	if len(e.Split) > 0 {
		b, err := json.Marshal(e.Split)
		if err != nil {
			return core.Expense{}, fmt.Errorf("marshal split: %w", err)
		}
		split = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, date, amount, description, category, kind, paid_by, group_id, split, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Date.UTC().Format(time.RFC3339),
		float64(e.Amount),
		e.Description,
		e.Category,
		string(e.Kind),
		e.PaidBy,
		nullIfEmpty(e.GroupID),
		split,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount", float64(e.Amount),
		"category", e.Category,
		"kind", string(e.Kind))

	return e, nil
}

// ListExpenses implements ledger.ExpenseLister, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, f ledger.ExpenseFilter) ([]core.Expense, error) {
	q := strings.Builder{}
	q.WriteString(`SELECT id, date, amount, description, category, kind, paid_by, group_id, split FROM expenses`)

	var conds []string
	var args []any
	if f.From != nil {
		conds = append(conds, `date >= ?`)
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		conds = append(conds, `date <= ?`)
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	if f.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, f.Category)
	}
	if len(conds) > 0 {
		q.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	q.WriteString(` ORDER BY date DESC, created_at DESC`)

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e       core.Expense
			date    string
			amount  float64
			kind    string
			groupID sql.NullString
			split   sql.NullString
		)
		if err := rows.Scan(&e.ID, &date, &amount, &e.Description, &e.Category, &kind, &e.PaidBy, &groupID, &split); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		e.Amount = core.Amount(amount)
		e.Kind = core.Kind(kind)
		if groupID.Valid {
			e.GroupID = groupID.String
		}
		if split.Valid && split.String != "" {
			if err := json.Unmarshal([]byte(split.String), &e.Split); err != nil {
				return nil, fmt.Errorf("decode split for expense %s: %w", e.ID, err)
			}
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
