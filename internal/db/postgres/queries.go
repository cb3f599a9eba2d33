// Package postgres — queries.go: загрузка встроенных миграций и их выполнение.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration — одна SQL-миграция. Версия берётся из префикса имени: 002_xxx.sql → 2.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// loadMigrations читает migrations/*.sql и сортирует по версии.
// Дубликаты версий и имена без числового префикса — ошибка.
func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога миграций: %w", err)
	}

	seen := make(map[int]string)
	var out []Migration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("миграция %s: нет префикса версии", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("миграция %s: некорректная версия %q", name, prefix)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("миграции %s и %s: одинаковая версия %d", prev, name, version)
		}
		seen[version] = name

		raw, err := fs.ReadFile(fsys, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения миграции %s: %w", name, err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(raw)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// ExecMigrationSQL выполняет одну миграцию в транзакции.
// Возвращает false, если версия уже была применена.
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// Откатываем транзакцию, если что-то пошло не так
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка фиксации миграции %d: %w", version, err)
	}
	return true, nil
}
