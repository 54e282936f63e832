package models

// DNSRecord is one record of the managed zone.
type DNSRecord struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Data string `json:"data"`
	TTL  int    `json:"ttl"`
}

// DNSRecordsResponse lists the zone.
type DNSRecordsResponse struct {
	Success bool        `json:"success"`
	Records []DNSRecord `json:"records"`
}

// DNSCheckResponse tells whether an A record exists for a label.
type DNSCheckResponse struct {
	Success bool `json:"success"`
	Exists  bool `json:"exists"`
}

// CreateDNSRequest points a label at an address.
type CreateDNSRequest struct {
	Subdomain string `json:"subdomain" example:"acme"`
	IP        string `json:"ip" example:"203.0.113.5"`
}

// CreateDNSResponse echoes the published hostname and address.
type CreateDNSResponse struct {
	Success   bool   `json:"success"`
	Subdomain string `json:"subdomain" example:"acme.aqall.dev"`
	IP        string `json:"ip" example:"203.0.113.5"`
	Action    string `json:"action,omitempty" example:"created"`
}
