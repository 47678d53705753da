package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the stakeledger store (SQLite).
// Amounts are stored as decimal TEXT since SQLite integers stop at 64 bits.
var Migrations = migrate.NewGroup("stakeledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_stakeledger_state",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS stakeledger_state (
    id                           INTEGER PRIMARY KEY CHECK (id = 1),
    total_staked                 TEXT NOT NULL DEFAULT '0',
    reward_rate                  TEXT NOT NULL DEFAULT '0',
    reward_per_stake_unit_stored TEXT NOT NULL DEFAULT '0',
    last_update_time             INTEGER NOT NULL DEFAULT 0,
    period_finish                INTEGER NOT NULL DEFAULT 0,
    event_sequence               INTEGER NOT NULL DEFAULT 0,
    created_at                   INTEGER NOT NULL DEFAULT 0,
    updated_at                   INTEGER NOT NULL DEFAULT 0
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS stakeledger_state`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_stakeledger_accounts",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS stakeledger_accounts (
    id                         TEXT PRIMARY KEY,
    principal                  TEXT NOT NULL DEFAULT '0',
    reward_per_stake_unit_paid TEXT NOT NULL DEFAULT '0',
    accrued_reward             TEXT NOT NULL DEFAULT '0',
    stake_anchor_time          INTEGER NOT NULL DEFAULT 0,
    created_at                 INTEGER NOT NULL DEFAULT 0,
    updated_at                 INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_stakeledger_accounts_active ON stakeledger_accounts (id) WHERE principal <> '0';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS stakeledger_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_stakeledger_events",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS stakeledger_events (
    id         TEXT PRIMARY KEY,
    sequence   INTEGER NOT NULL,
    type       TEXT NOT NULL,
    account_id TEXT NOT NULL DEFAULT '',
    asset_id   TEXT NOT NULL DEFAULT '',
    amount     TEXT NOT NULL DEFAULT '0',
    timestamp  INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_stakeledger_events_sequence ON stakeledger_events (sequence);
CREATE INDEX IF NOT EXISTS idx_stakeledger_events_account ON stakeledger_events (account_id, sequence);
CREATE INDEX IF NOT EXISTS idx_stakeledger_events_type ON stakeledger_events (type, sequence);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS stakeledger_events`)
				return err
			},
		},
	)
}
