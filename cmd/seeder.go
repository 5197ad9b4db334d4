package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
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

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM profiles").Error; err != nil {
				log.Fatalf("failed to clear profiles: %v", err)
			}
			if err := db.Exec("DELETE FROM organizations").Error; err != nil {
				log.Fatalf("failed to clear organizations: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		orgName := "Acme Health"
		var orgID string
		row := db.Raw("SELECT id FROM organizations WHERE LOWER(name) = LOWER(?)", orgName).Row()
		if err := row.Scan(&orgID); err != nil {
			orgID = uuid.NewString()
			if err := db.Exec("INSERT INTO organizations (id, name, created_at) VALUES (?, ?, now())", orgID, orgName).Error; err != nil {
				log.Fatalf("failed to insert organization: %v", err)
			}
			fmt.Println("Seeded organization:", orgName)
		} else {
			fmt.Println("organization already exists:", orgName)
		}

		// The admin assignments (role, status, category, permissions) normally
		// happen through back-office tooling after signup; seeding mimics that.
		seedProfile(db, orgID, "seed-admin", "admin@acme.test", "Ada", "Lovelace",
			"ADMIN", 1, "PROVIDER", `["manage_team","invite_members","admin"]`)
		seedProfile(db, orgID, "seed-member", "member@acme.test", "Grace", "Hopper",
			"PENDING", 0, "", "")
	},
}

func seedProfile(db *gorm.DB, orgID, id, email, first, last, role string, status int, category, permissions string) {
	var exists int
	row := db.Raw("SELECT 1 FROM profiles WHERE id = ?", id).Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Println("profile already exists:", email)
		return
	}

	fullName := first + " " + last
	var categoryArg, permissionsArg interface{}
	if category != "" {
		categoryArg = category
	}
	if permissions != "" {
		permissionsArg = permissions
	}

	err := db.Exec(`INSERT INTO profiles
		(id, full_name, first_name, last_name, email, organization_id, role, status, category, permissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, now(), now())`,
		id, fullName, first, last, email, orgID, role, status, categoryArg, permissionsArg).Error
	if err != nil {
		log.Fatalf("failed to insert profile %s: %v", email, err)
	}
	fmt.Println("Seeded profile:", email)
}
