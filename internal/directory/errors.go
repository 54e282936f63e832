package directory

import "fmt"

// NameTakenError means another owner holds a pending or active claim on the name.
type NameTakenError struct {
	Subdomain string
}

func (e *NameTakenError) Error() string {
	return fmt.Sprintf("subdomain %q is already taken", e.Subdomain)
}

// NotFoundError means no record exists for the subdomain or id.
type NotFoundError struct {
	Subdomain string
	ID        string
}

func (e *NotFoundError) Error() string {
	if e.Subdomain == "" {
		return fmt.Sprintf("subdomain record %s not found", e.ID)
	}
	return fmt.Sprintf("subdomain %q not found", e.Subdomain)
}

// NotOwnerError means the caller does not own the subdomain.
type NotOwnerError struct {
	Subdomain string
	OwnerID   string
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("subdomain %q is not owned by %s", e.Subdomain, e.OwnerID)
}

// InvalidNameError rejects a name that cannot be published as a subdomain.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid subdomain %q: %s", e.Name, e.Reason)
}
