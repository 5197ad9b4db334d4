package provisioning_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/team-management/internal/organization"
	"github.com/frahmantamala/team-management/internal/profile"
	"github.com/frahmantamala/team-management/internal/provisioning"
	"github.com/frahmantamala/team-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockOrchestrator implements provisioning.ProvisionerAPI for testing
type mockOrchestrator struct {
	result    *provisioning.Result
	err       error
	lastInput *provisioning.SignupUser
}

func (m *mockOrchestrator) Provision(ctx context.Context, u provisioning.SignupUser) (*provisioning.Result, error) {
	m.lastInput = &u
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

var _ = Describe("Signup Webhook Handler", func() {
	var (
		orchestrator *mockOrchestrator
		handler      *provisioning.WebhookHandler
		recorder     *httptest.ResponseRecorder
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	postWebhook := func(body string) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup-webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		recorder = httptest.NewRecorder()
		handler.HandleSignupWebhook(recorder, req)
	}

	errorMessage := func() string {
		var resp map[string]string
		Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
		return resp["error"]
	}

	BeforeEach(func() {
		orchestrator = &mockOrchestrator{
			result: &provisioning.Result{
				OrganizationID:      "org-1",
				OrganizationCreated: true,
				ProfileID:           "u1",
			},
		}
		handler = provisioning.NewWebhookHandler(transport.NewBaseHandler(testLogger), orchestrator, testLogger)
	})

	Describe("payload validation", func() {
		It("should reject a malformed body", func() {
			postWebhook(`{not json`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage()).To(Equal("No user data provided"))
		})

		It("should reject a body without a record", func() {
			postWebhook(`{}`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage()).To(Equal("No user data provided"))
		})

		It("should reject a record without organisation_name", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"first_name":"A"}}}`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage()).To(Equal("Missing organisation_name"))
		})

		It("should reject a blank organisation_name distinctly from a missing one", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"organisation_name":"   "}}}`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorMessage()).To(Equal("Organisation name cannot be empty"))
		})
	})

	Describe("successful provisioning", func() {
		It("should respond with the organization id", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"first_name":"A","last_name":"B","organisation_name":"Acme"}}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			var resp provisioning.SignupWebhookResponse
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())
			Expect(resp.Message).To(Equal("signup provisioned"))
			Expect(resp.OrganizationID).To(Equal("org-1"))
		})

		It("should pass the record fields through to the workflow", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"first_name":"A","last_name":"B","organisation_name":"Acme"}}}`)
			Expect(orchestrator.lastInput).NotTo(BeNil())
			Expect(orchestrator.lastInput.ID).To(Equal("u1"))
			Expect(orchestrator.lastInput.Email).To(Equal("a@b.com"))
			Expect(*orchestrator.lastInput.FirstName).To(Equal("A"))
			Expect(*orchestrator.lastInput.LastName).To(Equal("B"))
			Expect(orchestrator.lastInput.OrganisationName).To(Equal("Acme"))
		})
	})

	Describe("error mapping", func() {
		validBody := `{"record":{"id":"u1","email":"a@b.com","user_metadata":{"organisation_name":"Acme"}}}`

		It("should map a lookup failure to 500", func() {
			orchestrator.err = organization.ErrLookupFailed
			postWebhook(validBody)
			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorMessage()).To(Equal("Organization lookup failed"))
		})

		It("should map a creation failure to 500", func() {
			orchestrator.err = organization.ErrCreateFailed
			postWebhook(validBody)
			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorMessage()).To(Equal("Organization creation failed"))
		})

		It("should map a duplicate profile to 409", func() {
			orchestrator.err = profile.ErrAlreadyExists
			postWebhook(validBody)
			Expect(recorder.Code).To(Equal(http.StatusConflict))
			Expect(errorMessage()).To(Equal("Profile already exists"))
		})

		It("should map a profile insert failure to 500", func() {
			orchestrator.err = profile.ErrCreateFailed
			postWebhook(validBody)
			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorMessage()).To(Equal("Profile creation failed"))
		})

		It("should map any other error to a generic 500", func() {
			orchestrator.err = context.DeadlineExceeded
			postWebhook(validBody)
			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorMessage()).To(Equal("Internal server error"))
		})
	})

	Describe("end-to-end against an empty store", func() {
		var (
			orgRepo     *MockResolverRepo
			profileRepo *memoryProfileRepo
		)

		BeforeEach(func() {
			orgRepo = &MockResolverRepo{orgs: make(map[string]*organization.Organization)}
			profileRepo = &memoryProfileRepo{profiles: make(map[string]*profile.Profile)}

			orgService := organization.NewService(orgRepo, testLogger)
			profileService := profile.NewService(profileRepo, orgService, testLogger)
			workflow := provisioning.NewOrchestrator(orgService, profileService, nil, testLogger)
			handler = provisioning.NewWebhookHandler(transport.NewBaseHandler(testLogger), workflow, testLogger)
		})

		It("should create one organization with the trimmed name and one PENDING profile", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"first_name":"A","last_name":"B","organisation_name":"  Acme  "}}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			Expect(orgRepo.orgs).To(HaveLen(1))
			org := orgRepo.orgs["acme"]
			Expect(org).NotTo(BeNil())
			Expect(org.Name).To(Equal("Acme"))

			var resp provisioning.SignupWebhookResponse
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.OrganizationID).To(Equal(org.ID))

			p := profileRepo.profiles["u1"]
			Expect(p).NotTo(BeNil())
			Expect(p.Role).To(Equal("PENDING"))
			Expect(p.FullName).To(Equal("A B"))
		})

		It("should attach a second signup with a case-variant name to the same organization", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"organisation_name":"Acme"}}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			postWebhook(`{"record":{"id":"u2","email":"c@d.com","user_metadata":{"organisation_name":"ACME"}}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			Expect(orgRepo.orgs).To(HaveLen(1))
			Expect(*profileRepo.profiles["u1"].OrganizationID).To(Equal(*profileRepo.profiles["u2"].OrganizationID))
		})

		It("should return 409 when the same user is provisioned twice", func() {
			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"organisation_name":"Acme"}}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			postWebhook(`{"record":{"id":"u1","email":"a@b.com","user_metadata":{"organisation_name":"Acme"}}}`)
			Expect(recorder.Code).To(Equal(http.StatusConflict))
			Expect(errorMessage()).To(Equal("Profile already exists"))
		})
	})
})

// MockResolverRepo is an in-memory organization.Repository keyed by the
// lowercased name, mirroring the case-insensitive lookup.
type MockResolverRepo struct {
	orgs map[string]*organization.Organization
}

func (m *MockResolverRepo) GetByName(name string) (*organization.Organization, error) {
	org, exists := m.orgs[strings.ToLower(name)]
	if !exists {
		return nil, organization.ErrNotFound
	}
	return org, nil
}

func (m *MockResolverRepo) Create(org *organization.Organization) error {
	m.orgs[strings.ToLower(org.Name)] = org
	return nil
}

func (m *MockResolverRepo) GetByIDs(ids []string) ([]*organization.Organization, error) {
	var result []*organization.Organization
	for _, org := range m.orgs {
		for _, id := range ids {
			if org.ID == id {
				result = append(result, org)
			}
		}
	}
	return result, nil
}

// memoryProfileRepo is an in-memory profile.Repository with conditional
// insert semantics.
type memoryProfileRepo struct {
	profiles map[string]*profile.Profile
}

func (m *memoryProfileRepo) CreateIfAbsent(p *profile.Profile) (bool, error) {
	if _, exists := m.profiles[p.ID]; exists {
		return false, nil
	}
	stored := *p
	m.profiles[p.ID] = &stored
	return true, nil
}

func (m *memoryProfileRepo) GetByID(id string) (*profile.Profile, error) {
	p, exists := m.profiles[id]
	if !exists {
		return nil, profile.ErrNotFound
	}
	return p, nil
}

func (m *memoryProfileRepo) GetByOrganization(orgID string) ([]*profile.Profile, error) {
	var result []*profile.Profile
	for _, p := range m.profiles {
		if p.OrganizationID != nil && *p.OrganizationID == orgID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *memoryProfileRepo) GetOutsideOrganization(orgID string) ([]*profile.Profile, error) {
	var result []*profile.Profile
	for _, p := range m.profiles {
		if p.OrganizationID != nil && *p.OrganizationID != orgID {
			result = append(result, p)
		}
	}
	return result, nil
}
