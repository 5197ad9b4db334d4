package provisioning_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/team-management/internal/organization"
	"github.com/frahmantamala/team-management/internal/profile"
	"github.com/frahmantamala/team-management/internal/provisioning"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestProvisioningService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Provisioning Service Suite")
}

func strPtr(s string) *string {
	return &s
}

// MockResolver implements provisioning.OrganizationResolver for testing
type MockResolver struct {
	orgs       map[string]*organization.Organization
	calls      int
	created    int
	shouldFail error
}

func NewMockResolver() *MockResolver {
	return &MockResolver{orgs: make(map[string]*organization.Organization)}
}

func (m *MockResolver) ResolveOrCreate(name string) (*organization.Organization, bool, error) {
	m.calls++
	if m.shouldFail != nil {
		return nil, false, m.shouldFail
	}
	if org, exists := m.orgs[name]; exists {
		return org, false, nil
	}
	org := &organization.Organization{ID: "org-" + name, Name: name}
	m.orgs[name] = org
	m.created++
	return org, true, nil
}

// MockProvisioner implements provisioning.ProfileProvisioner for testing
type MockProvisioner struct {
	profiles   map[string]*profile.Profile
	calls      int
	shouldFail error
}

func NewMockProvisioner() *MockProvisioner {
	return &MockProvisioner{profiles: make(map[string]*profile.Profile)}
}

func (m *MockProvisioner) Provision(np profile.NewProfile) (*profile.Profile, error) {
	m.calls++
	if m.shouldFail != nil {
		return nil, m.shouldFail
	}
	if _, exists := m.profiles[np.ID]; exists {
		return nil, profile.ErrAlreadyExists
	}
	orgID := np.OrganizationID
	p := &profile.Profile{
		ID:             np.ID,
		FullName:       profile.FullName(np.FirstName, np.LastName),
		Email:          np.Email,
		OrganizationID: &orgID,
		Role:           profile.RolePending,
	}
	m.profiles[np.ID] = p
	return p, nil
}

var _ = Describe("Provisioning Orchestrator", func() {
	var (
		resolver     *MockResolver
		provisioner  *MockProvisioner
		orchestrator *provisioning.Orchestrator
		ctx          context.Context
	)

	BeforeEach(func() {
		resolver = NewMockResolver()
		provisioner = NewMockProvisioner()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		orchestrator = provisioning.NewOrchestrator(resolver, provisioner, nil, logger)
		ctx = context.Background()
	})

	Describe("Provision", func() {
		It("should resolve the organization then insert the profile", func() {
			result, err := orchestrator.Provision(ctx, provisioning.SignupUser{
				ID:               "u1",
				Email:            "jane@acme.test",
				FirstName:        strPtr("Jane"),
				LastName:         strPtr("Doe"),
				OrganisationName: "Acme",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.OrganizationID).To(Equal("org-Acme"))
			Expect(result.OrganizationCreated).To(BeTrue())
			Expect(result.ProfileID).To(Equal("u1"))

			p := provisioner.profiles["u1"]
			Expect(p.FullName).To(Equal("Jane Doe"))
			Expect(p.Role).To(Equal(profile.RolePending))
		})

		It("should reuse an existing organization for the second signup", func() {
			_, err := orchestrator.Provision(ctx, provisioning.SignupUser{
				ID: "u1", Email: "a@acme.test", OrganisationName: "Acme",
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := orchestrator.Provision(ctx, provisioning.SignupUser{
				ID: "u2", Email: "b@acme.test", OrganisationName: "Acme",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.OrganizationCreated).To(BeFalse())
			Expect(result.OrganizationID).To(Equal("org-Acme"))
			Expect(resolver.created).To(Equal(1))
		})

		Context("when the organisation name is blank", func() {
			It("should fail before touching the resolver or the store", func() {
				result, err := orchestrator.Provision(ctx, provisioning.SignupUser{
					ID: "u1", Email: "a@acme.test", OrganisationName: "   ",
				})
				Expect(err).To(Equal(organization.ErrNameRequired))
				Expect(result).To(BeNil())
				Expect(resolver.calls).To(Equal(0))
				Expect(provisioner.calls).To(Equal(0))
			})
		})

		Context("when organization resolution fails", func() {
			BeforeEach(func() {
				resolver.shouldFail = organization.ErrLookupFailed
			})

			It("should abort without attempting the profile insert", func() {
				result, err := orchestrator.Provision(ctx, provisioning.SignupUser{
					ID: "u1", Email: "a@acme.test", OrganisationName: "Acme",
				})
				Expect(err).To(Equal(organization.ErrLookupFailed))
				Expect(result).To(BeNil())
				Expect(provisioner.calls).To(Equal(0))
			})
		})

		Context("when the profile insert fails after a new organization was created", func() {
			BeforeEach(func() {
				provisioner.shouldFail = profile.ErrCreateFailed
			})

			It("should surface the error and leave the organization in place", func() {
				result, err := orchestrator.Provision(ctx, provisioning.SignupUser{
					ID: "u1", Email: "a@acme.test", OrganisationName: "Acme",
				})
				Expect(err).To(Equal(profile.ErrCreateFailed))
				Expect(result).To(BeNil())

				// no compensating delete: the empty organization persists
				Expect(resolver.orgs).To(HaveKey("Acme"))

				// a retry after the store recovers reuses the same organization
				provisioner.shouldFail = nil
				retried, err := orchestrator.Provision(ctx, provisioning.SignupUser{
					ID: "u1", Email: "a@acme.test", OrganisationName: "Acme",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(retried.OrganizationCreated).To(BeFalse())
				Expect(retried.OrganizationID).To(Equal("org-Acme"))
			})
		})

		Context("when the profile already exists", func() {
			BeforeEach(func() {
				_, err := orchestrator.Provision(ctx, provisioning.SignupUser{
					ID: "u1", Email: "a@acme.test", OrganisationName: "Acme",
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the duplicate error from the second call", func() {
				result, err := orchestrator.Provision(ctx, provisioning.SignupUser{
					ID: "u1", Email: "a@acme.test", OrganisationName: "Acme",
				})
				Expect(err).To(Equal(profile.ErrAlreadyExists))
				Expect(result).To(BeNil())
			})
		})

		It("should pass the entered name through to the resolver untrimmed", func() {
			// trimming is the resolver's single responsibility; the
			// orchestrator only rejects fully blank input
			_, err := orchestrator.Provision(ctx, provisioning.SignupUser{
				ID: "u1", Email: "a@acme.test", OrganisationName: "  Acme  ",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resolver.orgs).To(HaveKey("  Acme  "))
		})
	})
})
