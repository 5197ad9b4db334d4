package profile

// TeamResponse is the transport shape for the team members view.
type TeamResponse struct {
	Members []*Profile `json:"members"`
	Stats   TeamStats  `json:"stats"`
}

// ExternalResponse is the transport shape for the external members view.
type ExternalResponse struct {
	Members []*ExternalMember `json:"members"`
	Stats   ExternalStats     `json:"stats"`
}
