package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/domain"
)

var versionedTables = []string{"attendee", "mentor", "guest", "chaperone"}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureVersionIndexes(db)
}

// EnsureVersionIndexes enforces at most one current row per external id
// and per email in every versioned table.
func EnsureVersionIndexes(db *gorm.DB) error {
	for _, table := range versionedTables {
		stmts := []struct{ name, sql string }{
			{
				name: "idx_" + table + "_current_external_id",
				sql: fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_current_external_id
					ON %[1]s(external_id) WHERE NOT outdated`, table),
			},
			{
				name: "idx_" + table + "_current_email",
				sql: fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_current_email
					ON %[1]s(email) WHERE NOT outdated`, table),
			},
			{
				name: "idx_" + table + "_sign_in_current",
				sql: fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_sign_in_current
					ON %[1]s(sign_in_id) WHERE NOT outdated`, table),
			},
		}
		for _, st := range stmts {
			if err := db.Exec(st.sql).Error; err != nil {
				return fmt.Errorf("create %s: %w", st.name, err)
			}
		}
	}
	return nil
}
