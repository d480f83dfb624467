package repo

import (
	"fmt"
	"strings"

	"LostFound/internal/model"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// sqlitePragmas: WAL, ожидание блокировки и BEGIN IMMEDIATE, иначе конкурентные
// транзакции с чтением перед записью получают SQLITE_BUSY при апгрейде блокировки.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// DefaultSQLiteDSN используется, если строка подключения не задана.
const DefaultSQLiteDSN = "file:lostfound.db?" + sqlitePragmas

// Models - все модели, которые мигрируются при старте.
func Models() []any {
	return []any{
		&model.User{},
		&model.Item{},
		&model.Claim{},
		&model.Chat{},
		&model.ChatParticipant{},
		&model.Message{},
	}
}

// InitDB открывает БД по DSN и прогоняет миграции.
// postgres:// и postgresql:// (или DSN вида "host=...") идут в Postgres, остальное - в SQLite (modernc).
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	dsn = strings.TrimSpace(dsn)
	if isPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
