package service

import (
	"context"
	"fmt"

	"signal_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS processed_signals (
	id           TEXT PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectIDsSQL = `SELECT id FROM processed_signals ORDER BY processed_at, id`
	insertIDSQL  = `INSERT INTO processed_signals (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`
)

// Postgres история в таблице processed_signals.
type Postgres struct {
	db    db.TxManager
	close func()
}

func NewPostgres(tx db.TxManager, closeFn func()) *Postgres {
	if closeFn == nil {
		closeFn = func() {}
	}
	return &Postgres{db: tx, close: closeFn}
}

// Migrate создаёт таблицу, если её нет.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Conn().Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("pg.Migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) LoadIDs(ctx context.Context) (ids []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.LoadIDs: %w", err)
		}
	}()

	rows, err := p.db.Conn().Query(ctx, selectIDsSQL)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *Postgres) Persist(ctx context.Context, added string, _ []string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Persist: %w", err)
		}
	}()

	return p.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertIDSQL, added)
		return err
	})
}

func (p *Postgres) Close() error {
	p.close()
	return nil
}
