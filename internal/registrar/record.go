package registrar

import "context"

// RecordTypeA is the only record type this service writes.
const RecordTypeA = "A"

// DefaultTTL is written on every A record.
const DefaultTTL = 3600

// Record is a DNS record as the registrar reports it. Name is the label
// relative to the zone ("@" for the apex).
type Record struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Data string `json:"data"`
	TTL  int    `json:"ttl"`
}

// Action tells whether an upsert created or replaced a record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// UpsertResult describes a completed UpsertARecord call.
type UpsertResult struct {
	Action Action
	Record Record
}

// Provider is one registrar backend. Implementations perform exactly one
// remote operation per call; retries, throttling and configuration checks
// live in Client.
type Provider interface {
	Name() string
	List(ctx context.Context) ([]Record, error)
	// Create adds rec to the zone.
	Create(ctx context.Context, rec Record) error
	// Replace overwrites every record of rec.Type named rec.Name with rec.
	Replace(ctx context.Context, rec Record) error
	// Delete removes every record of recordType named name.
	Delete(ctx context.Context, recordType, name string) error
}

// FindA returns the first A record named name. Matching is exact and
// case-sensitive because registrars store labels verbatim.
func FindA(records []Record, name string) (Record, bool) {
	for _, r := range records {
		if r.Type == RecordTypeA && r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}
