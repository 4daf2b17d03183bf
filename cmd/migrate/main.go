package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Statements run in order inside one transaction; every statement is
// idempotent so re-running the command against an up-to-date database
// is a no-op.
var statements = []string{
	`create extension if not exists pgcrypto;`,

	`create table if not exists users (
		id text primary key default gen_random_uuid()::text,
		google_sub text unique,
		email text not null unique,
		name text not null default '',
		avatar_url text not null default '',
		role text not null default 'contributor',
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create table if not exists organizations (
		id text primary key,
		name text not null,
		connect_account_id text unique,
		connect_account jsonb,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create table if not exists series (
		path text primary key,
		id text not null,
		organization_id text not null references organizations(id),
		name text not null,
		region text not null default '',
		website text not null default '',
		starts_at timestamptz,
		ends_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create table if not exists events (
		path text primary key,
		id text not null,
		series_path text not null references series(path),
		name text not null,
		location text not null default '',
		website text not null default '',
		status text not null default 'Upcoming',
		starts_at timestamptz,
		ends_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create table if not exists races (
		path text primary key,
		id text not null,
		event_path text not null references events(path),
		name text not null,
		category text not null default '',
		gender text not null default '',
		location text not null default '',
		course_details text not null default '',
		laps int not null default 0,
		podiums int not null default 0,
		max_racers int not null default 0,
		status text not null default 'Upcoming',
		starts_at timestamptz,
		ends_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create table if not exists preems (
		path text primary key,
		id text not null,
		race_path text not null references races(path),
		name text not null,
		type text not null default 'Pooled',
		status text not null default 'Open',
		prize_pool_int bigint not null default 0,
		minimum_threshold_int bigint,
		time_limit timestamptz,
		sponsor_user_id text,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create index if not exists preems_race_path_idx on preems (race_path);`,

	`create table if not exists contributions (
		id text primary key,
		preem_path text not null references preems(path),
		amount_int bigint not null,
		currency text not null default 'USD',
		status text not null default 'pending',
		contributor jsonb,
		is_anonymous boolean not null default false,
		message text not null default '',
		payment jsonb,
		properties jsonb not null default '{}',
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	);`,

	`create index if not exists contributions_preem_created_idx on contributions (preem_path, created_at desc);`,
	`create index if not exists contributions_created_idx on contributions (created_at desc);`,
}

func main() {
	var timeoutFlag int
	flag.IntVar(&timeoutFlag, "timeout", 30, "statement timeout in seconds for the whole migration")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(fmt.Errorf("DATABASE_URL is required"))
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutFlag)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		exitWithError(fmt.Errorf("ping database: %w", err))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		exitWithError(fmt.Errorf("begin: %w", err))
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			exitWithError(fmt.Errorf("statement %d: %w", i+1, err))
		}
	}

	if err := tx.Commit(); err != nil {
		exitWithError(fmt.Errorf("commit: %w", err))
	}

	fmt.Printf("applied %d statements\n", len(statements))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
