package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/team-management/internal/organization"
	orgPostgres "github.com/frahmantamala/team-management/internal/organization/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestOrganizationPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Organization Postgres Suite")
}

// SQLiteOrganization is a SQLite-compatible model for testing
type SQLiteOrganization struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteOrganization) TableName() string {
	return "organizations"
}

var _ = Describe("Organization PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo organization.Repository
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteOrganization{})
		Expect(err).NotTo(HaveOccurred())

		repo = orgPostgres.NewOrganizationRepository(db)
	})

	Describe("Create", func() {
		It("should create a new organization successfully", func() {
			org := &organization.Organization{
				ID:        "org-1",
				Name:      "Acme",
				CreatedAt: time.Now(),
			}

			err := repo.Create(org)
			Expect(err).NotTo(HaveOccurred())

			result, err := repo.GetByName("Acme")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal("org-1"))
		})

		It("should keep the name casing as stored", func() {
			org := &organization.Organization{
				ID:   "org-1",
				Name: "AcMe Corp",
			}
			err := repo.Create(org)
			Expect(err).NotTo(HaveOccurred())

			result, err := repo.GetByName("acme corp")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Name).To(Equal("AcMe Corp"))
		})
	})

	Describe("GetByName", func() {
		BeforeEach(func() {
			err := repo.Create(&organization.Organization{
				ID:        "org-1",
				Name:      "Acme",
				CreatedAt: time.Now(),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should match case-insensitively", func() {
			for _, name := range []string{"Acme", "acme", "ACME", "aCmE"} {
				result, err := repo.GetByName(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.ID).To(Equal("org-1"))
			}
		})

		It("should return ErrNotFound for an unknown name", func() {
			result, err := repo.GetByName("Globex")
			Expect(err).To(Equal(organization.ErrNotFound))
			Expect(result).To(BeNil())
		})

		It("should not match on partial names", func() {
			result, err := repo.GetByName("Acm")
			Expect(err).To(Equal(organization.ErrNotFound))
			Expect(result).To(BeNil())
		})
	})

	Describe("GetByIDs", func() {
		BeforeEach(func() {
			for _, org := range []*organization.Organization{
				{ID: "org-1", Name: "Acme"},
				{ID: "org-2", Name: "Globex"},
				{ID: "org-3", Name: "Initech"},
			} {
				Expect(repo.Create(org)).NotTo(HaveOccurred())
			}
		})

		It("should return only the requested organizations", func() {
			orgs, err := repo.GetByIDs([]string{"org-1", "org-3"})
			Expect(err).NotTo(HaveOccurred())
			Expect(orgs).To(HaveLen(2))

			names := make([]string, len(orgs))
			for i, org := range orgs {
				names[i] = org.Name
			}
			Expect(names).To(ConsistOf("Acme", "Initech"))
		})

		It("should skip unknown ids", func() {
			orgs, err := repo.GetByIDs([]string{"org-2", "org-missing"})
			Expect(err).NotTo(HaveOccurred())
			Expect(orgs).To(HaveLen(1))
			Expect(orgs[0].ID).To(Equal("org-2"))
		})
	})
})
