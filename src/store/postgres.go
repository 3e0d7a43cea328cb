package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const schema = `create table if not exists dive_scores (
	id uuid primary key,
	name text not null,
	phone text not null,
	depth double precision not null,
	"character" text not null,
	created_at timestamptz not null default now()
);
create index if not exists dive_scores_rank_idx on dive_scores (depth desc, created_at asc);`

// Postgres stores scores in the dive_scores table.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects, pings and makes sure the table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Insert(ctx context.Context, sub Submission) (Score, error) {
	sub, err := Validate(sub)
	if err != nil {
		return Score{}, err
	}
	score := Score{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		Phone:     sub.Phone,
		Depth:     sub.Depth,
		Character: sub.Character,
	}
	err = p.db.QueryRowContext(ctx,
		`insert into dive_scores (id, name, phone, depth, "character") values ($1, $2, $3, $4, $5) returning created_at`,
		score.ID, score.Name, score.Phone, score.Depth, score.Character,
	).Scan(&score.CreatedAt)
	if err != nil {
		return Score{}, fmt.Errorf("insert score: %w", err)
	}
	return score, nil
}

func (p *Postgres) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := p.db.QueryContext(ctx,
		`select name, depth, "character", created_at from dive_scores order by depth desc, created_at asc limit $1`,
		ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Depth, &e.Character, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *Postgres) List(ctx context.Context, page, pageSize int) ([]Score, int64, error) {
	page, pageSize = pageBounds(page, pageSize)

	var total int64
	if err := p.db.QueryRowContext(ctx, `select count(*) from dive_scores`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}
	rows, err := p.db.QueryContext(ctx,
		`select id, name, phone, depth, "character", created_at from dive_scores order by created_at desc limit $1 offset $2`,
		pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	items := []Score{}
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Depth, &s.Character, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := p.db.ExecContext(ctx, `delete from dive_scores where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	return p.db.Close()
}
