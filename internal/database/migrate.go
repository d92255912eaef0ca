package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Migrator applies numbered SQL files from a directory and records them in schema_migrations
type Migrator struct {
	db     *sql.DB
	dir    string
	logger *zap.Logger
}

// NewMigrator creates a migrator over dir
func NewMigrator(db *sql.DB, dir string, logger *zap.Logger) *Migrator {
	return &Migrator{db: db, dir: dir, logger: logger}
}

// Up applies every pending migration in file name order and returns how many ran
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	versions, err := m.versions(upSuffix)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, version := range versions {
		done, err := m.isApplied(ctx, version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}
		if err := m.execFile(ctx, version+upSuffix); err != nil {
			return applied, err
		}
		if _, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, SYSTIMESTAMP)`, version); err != nil {
			return applied, fmt.Errorf("could not record migration %s: %w", version, err)
		}
		m.logger.Info("Applied migration", zap.String("version", version))
		applied++
	}
	return applied, nil
}

// Down reverts the most recently applied migration. It returns "" when nothing is applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return "", err
	}
	var latest sql.NullString
	if err := m.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&latest); err != nil {
		return "", fmt.Errorf("could not read schema_migrations: %w", err)
	}
	if !latest.Valid {
		return "", nil
	}
	version := latest.String

	if err := m.execFile(ctx, version+downSuffix); err != nil {
		return "", err
	}
	if _, err := m.db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = :1`, version); err != nil {
		return "", fmt.Errorf("could not remove migration record %s: %w", version, err)
	}
	m.logger.Info("Reverted migration", zap.String("version", version))
	return version, nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var count int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("could not inspect schema: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = m.db.ExecContext(ctx, `CREATE TABLE schema_migrations (version VARCHAR2(255) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) isApplied(ctx context.Context, version string) (bool, error) {
	var count int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = :1`, version).Scan(&count); err != nil {
		return false, fmt.Errorf("could not check migration %s: %w", version, err)
	}
	return count > 0, nil
}

// versions lists migration versions having the given suffix, sorted
func (m *Migrator) versions(suffix string) ([]string, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var out []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), suffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(f.Name(), suffix))
	}
	sort.Strings(out)
	return out, nil
}

func (m *Migrator) execFile(ctx context.Context, name string) error {
	content, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return fmt.Errorf("could not read migration file %s: %w", name, err)
	}
	for _, stmt := range SplitStatements(string(content)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
	}
	return nil
}

// SplitStatements breaks a script on semicolons that end a line. Oracle rejects
// a trailing semicolon and runs one statement per call. Lines starting with
// "--" are dropped.
func SplitStatements(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			cur.WriteString(strings.TrimSuffix(strings.TrimRight(line, " \t\r"), ";"))
			flush()
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()
	return stmts
}
