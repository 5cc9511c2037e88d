package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			clearTables(db)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		adminEmail := "admin@src.example"
		treasurerEmail := "treasurer@src.example"

		seedUser(db, adminEmail, "SRC Admin", string(hash))
		seedUser(db, treasurerEmail, "SRC Treasurer", string(hash))

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"budget:read", "Can view the budget ledger"},
			{"budget:create", "Can add budget categories"},
			{"budget:update", "Can edit budget categories"},
			{"budget:delete", "Can delete budget categories"},
			{"messaging:send", "Can prepare broadcast batches"},
			{"settings:update", "Can change portal settings"},
			{"activity:read", "Can view the audit trail"},
		}

		for _, p := range permissions {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
			if err := row.Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		grantPermissions(db, adminEmail, []string{"admin"})
		grantPermissions(db, treasurerEmail, []string{"budget:read", "budget:create", "budget:update", "budget:delete", "activity:read"})

		seedDepartments(db)
		seedSettings(db)
		seedBudget(db, adminEmail)

		fmt.Println("Seeding complete")
	},
}

func clearTables(db *gorm.DB) {
	tables := []string{
		"activity_logs",
		"budget_transactions",
		"budget_categories",
		"budgets",
		"department_contacts",
		"departments",
		"settings",
		"user_permissions",
		"permissions",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedUser(db *gorm.DB, email, name, passwordHash string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row().Scan(&exists); err == nil {
		fmt.Println("user already exists:", email)
		return
	}

	if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", email, name, passwordHash).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}

func grantPermissions(db *gorm.DB, email string, permissionNames []string) {
	var userID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&userID); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", email, err)
	}

	for _, permName := range permissionNames {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
			log.Fatalf("permission not found %s: %v", permName, err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", userID, pid).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES (?, ?, NULL, now())", userID, pid).Error; err != nil {
			log.Fatalf("failed to grant permission %s to %s: %v", permName, email, err)
		}
	}

	fmt.Printf("Granted %v to %s\n", permissionNames, email)
}

func seedDepartments(db *gorm.DB) {
	departments := []struct {
		Name     string
		Desc     string
		Contacts []struct {
			FullName string
			Role     string
			Phone    string
			Email    string
		}
	}{
		{
			Name: "Finance",
			Desc: "Budget oversight and allocations",
			Contacts: []struct {
				FullName string
				Role     string
				Phone    string
				Email    string
			}{
				{"Naledi Mokoena", "Treasurer", "+27821230001", "naledi@src.example"},
				{"Sipho Dlamini", "Deputy Treasurer", "0821230002", "sipho@src.example"},
			},
		},
		{
			Name: "Events",
			Desc: "Campus events and logistics",
			Contacts: []struct {
				FullName string
				Role     string
				Phone    string
				Email    string
			}{
				{"Thandi Nkosi", "Events Officer", "0821230003", "thandi@src.example"},
			},
		},
		{
			Name: "Communications",
			Desc: "Student outreach and publications",
			Contacts: []struct {
				FullName string
				Role     string
				Phone    string
				Email    string
			}{
				{"Lerato Molefe", "Media Officer", "", "lerato@src.example"},
			},
		},
	}

	for _, d := range departments {
		var deptID int64
		if err := db.Raw("SELECT id FROM departments WHERE name = ?", d.Name).Row().Scan(&deptID); err != nil {
			if err := db.Exec("INSERT INTO departments (name, description, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now())", d.Name, d.Desc).Error; err != nil {
				log.Fatalf("failed to insert department %s: %v", d.Name, err)
			}
			if err := db.Raw("SELECT id FROM departments WHERE name = ?", d.Name).Row().Scan(&deptID); err != nil {
				log.Fatalf("department not found after insert %s: %v", d.Name, err)
			}
		}

		for _, c := range d.Contacts {
			var exists int
			if err := db.Raw("SELECT 1 FROM department_contacts WHERE department_id = ? AND full_name = ?", deptID, c.FullName).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO department_contacts (department_id, full_name, role, phone, email, created_at) VALUES (?, ?, ?, ?, ?, now())", deptID, c.FullName, c.Role, c.Phone, c.Email).Error; err != nil {
				log.Fatalf("failed to insert contact %s: %v", c.FullName, err)
			}
		}
	}
	fmt.Println("Seeded departments and contacts")
}

func seedSettings(db *gorm.DB) {
	settings := map[string]string{
		"portal.title":         "SRC Admin Portal",
		"portal.contact_email": "src@campus.example",
		"broadcast.signature":  "SRC Office",
	}

	for key, value := range settings {
		var exists int
		if err := db.Raw("SELECT 1 FROM settings WHERE key = ?", key).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO settings (key, value, updated_by, created_at, updated_at) VALUES (?, ?, 0, now(), now())", key, value).Error; err != nil {
			log.Fatalf("failed to insert setting %s: %v", key, err)
		}
	}
	fmt.Println("Seeded settings")
}

func seedBudget(db *gorm.DB, createdByEmail string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM budgets WHERE status = 'approved'").Row().Scan(&exists); err == nil {
		fmt.Println("approved budget already exists")
		return
	}

	var userID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", createdByEmail).Row().Scan(&userID); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", createdByEmail, err)
	}

	if err := db.Exec("INSERT INTO budgets (fiscal_year, total_amount, allocated_amount, remaining_amount, status, created_by, created_at, updated_at) VALUES (?, 250000.00, 0, 250000.00, 'approved', ?, now(), now())", "2026", userID).Error; err != nil {
		log.Fatalf("failed to insert budget: %v", err)
	}
	fmt.Println("Seeded approved budget")
}
