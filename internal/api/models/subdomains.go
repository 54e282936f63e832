package models

import "time"

// Subdomain is a claimed subdomain as the editor sees it.
type Subdomain struct {
	ID        string    `json:"id"`
	Subdomain string    `json:"subdomainName"`
	OwnerID   string    `json:"ownerId"`
	WebsiteID string    `json:"websiteId"`
	Status    string    `json:"status" enums:"pending,active,failed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublishRequest asks to publish a website under a subdomain. IP defaults
// to the hosting server.
type PublishRequest struct {
	WebsiteID string `json:"websiteId" example:"7b0f3c2e-site"`
	Subdomain string `json:"subdomain" example:"acme"`
	IP        string `json:"ip,omitempty" example:"203.0.113.5"`
}

// PublishResponse is returned after a successful publish.
type PublishResponse struct {
	Success   bool      `json:"success"`
	Subdomain Subdomain `json:"subdomain"`
	Hostname  string    `json:"hostname" example:"acme.aqall.dev"`
	IP        string    `json:"ip"`
	Action    string    `json:"action" example:"created"`
}

// SubdomainListResponse lists the caller's subdomains, newest first.
type SubdomainListResponse struct {
	Success    bool        `json:"success"`
	Subdomains []Subdomain `json:"subdomains"`
}

// VerifyResponse reports whether public DNS serves the expected address.
type VerifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	Expected   string   `json:"expected"`
	Addresses  []string `json:"addresses"`
	Propagated bool     `json:"propagated"`
	Resolver   string   `json:"resolver"`
}

// SiteResponse maps an active subdomain to the website it serves.
type SiteResponse struct {
	Success   bool   `json:"success"`
	Subdomain string `json:"subdomain"`
	Hostname  string `json:"hostname"`
	WebsiteID string `json:"websiteId"`
}
