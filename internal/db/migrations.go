package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The reporting service owns no tables. It only adds the indexes its
// read queries depend on; every statement is idempotent.
var migrationStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_rentals_org_start ON rentals (org_id, start_date) WHERE is_deleted = FALSE;`,
	`CREATE INDEX IF NOT EXISTS idx_rentals_org_car ON rentals (org_id, car_id) WHERE is_deleted = FALSE;`,
	`CREATE INDEX IF NOT EXISTS idx_rentals_open ON rentals (org_id, expected_end_date) WHERE returned_at IS NULL AND is_deleted = FALSE;`,
	`CREATE INDEX IF NOT EXISTS idx_cars_org_status ON cars (org_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_cars_insurance_expiry ON cars (org_id, insurance_expiry_date) WHERE insurance_expiry_date IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_cars_technical_visit_expiry ON cars (org_id, technical_visit_expiry_date) WHERE technical_visit_expiry_date IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_car_targets_org_period ON car_targets (org_id, start_date, end_date);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_logs_org_created ON maintenance_logs (org_id, created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
