package profile_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/team-management/internal"
	"github.com/frahmantamala/team-management/internal/profile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockService implements profile.ServiceAPI for handler tests
type mockService struct {
	profiles map[string]*profile.Profile
	members  []*profile.Profile
	stats    profile.TeamStats
	external []*profile.ExternalMember
	extStats profile.ExternalStats
	err      error
}

func (m *mockService) GetByID(id string) (*profile.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, exists := m.profiles[id]
	if !exists {
		return nil, profile.ErrNotFound
	}
	return p, nil
}

func (m *mockService) TeamMembers(orgID string) ([]*profile.Profile, profile.TeamStats, error) {
	if m.err != nil {
		return nil, profile.TeamStats{}, m.err
	}
	return m.members, m.stats, nil
}

func (m *mockService) ExternalMembers(orgID string) ([]*profile.ExternalMember, profile.ExternalStats, error) {
	if m.err != nil {
		return nil, profile.ExternalStats{}, m.err
	}
	return m.external, m.extStats, nil
}

var _ = Describe("Profile Handler", func() {
	var (
		service  *mockService
		handler  *profile.Handler
		recorder *httptest.ResponseRecorder
	)

	get := func(path, userID string, h http.HandlerFunc) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if userID != "" {
			req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		}
		recorder = httptest.NewRecorder()
		h(recorder, req)
	}

	BeforeEach(func() {
		orgID := "org-1"
		service = &mockService{
			profiles: map[string]*profile.Profile{
				"u1": {
					ID:             "u1",
					FullName:       "Jane Doe",
					Email:          "jane@acme.test",
					OrganizationID: &orgID,
					Role:           profile.RolePending,
				},
			},
		}
		handler = profile.NewHandler(service)
	})

	Describe("GetOwnProfile", func() {
		It("should return the caller's profile", func() {
			get("/api/v1/profiles/me", "u1", handler.GetOwnProfile)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			var p profile.Profile
			Expect(json.Unmarshal(recorder.Body.Bytes(), &p)).To(Succeed())
			Expect(p.ID).To(Equal("u1"))
			Expect(p.FullName).To(Equal("Jane Doe"))
		})

		It("should return 401 without an authenticated user", func() {
			get("/api/v1/profiles/me", "", handler.GetOwnProfile)
			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 404 for an unprovisioned user", func() {
			get("/api/v1/profiles/me", "missing", handler.GetOwnProfile)
			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GetTeamMembers", func() {
		BeforeEach(func() {
			service.members = []*profile.Profile{service.profiles["u1"]}
			service.stats = profile.TeamStats{Total: 1, Inactive: 1, PendingRole: 1, DistinctRoles: 1}
		})

		It("should return members and stats", func() {
			get("/api/v1/profiles/team", "u1", handler.GetTeamMembers)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			var resp profile.TeamResponse
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Members).To(HaveLen(1))
			Expect(resp.Stats.Total).To(Equal(1))
		})

		It("should return 404 when the caller has no profile", func() {
			get("/api/v1/profiles/team", "missing", handler.GetTeamMembers)
			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 404 when the caller's profile has no organization", func() {
			service.profiles["u2"] = &profile.Profile{ID: "u2", Email: "o@o.test"}
			get("/api/v1/profiles/team", "u2", handler.GetTeamMembers)
			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GetExternalMembers", func() {
		BeforeEach(func() {
			otherOrg := "org-2"
			service.external = []*profile.ExternalMember{
				{
					Profile:          &profile.Profile{ID: "u9", OrganizationID: &otherOrg},
					OrganizationName: "Globex",
				},
			}
			service.extStats = profile.ExternalStats{Total: 1, DistinctOrganizations: 1}
		})

		It("should return external members with organization names", func() {
			get("/api/v1/profiles/external", "u1", handler.GetExternalMembers)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			var resp profile.ExternalResponse
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Members).To(HaveLen(1))
			Expect(resp.Members[0].OrganizationName).To(Equal("Globex"))
			Expect(resp.Stats.DistinctOrganizations).To(Equal(1))
		})

		It("should return 401 without an authenticated user", func() {
			get("/api/v1/profiles/external", "", handler.GetExternalMembers)
			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
