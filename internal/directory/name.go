package directory

import (
	"strings"

	"github.com/miekg/dns"
)

// DefaultReserved are labels that are never handed out.
var DefaultReserved = []string{"www", "api", "mail", "admin"}

// NormalizeName trims and lowercases name and checks that it is a single
// DNS label made of a-z, 0-9 and inner hyphens.
func NormalizeName(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", &InvalidNameError{Name: name, Reason: "name is empty"}
	}
	if _, ok := dns.IsDomainName(n); !ok || dns.CountLabel(n) != 1 || strings.HasSuffix(n, ".") {
		return "", &InvalidNameError{Name: name, Reason: "must be a single DNS label"}
	}
	if len(n) > 63 {
		return "", &InvalidNameError{Name: name, Reason: "longer than 63 characters"}
	}
	for _, c := range n {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return "", &InvalidNameError{Name: name, Reason: "only letters, digits and hyphens are allowed"}
		}
	}
	if n[0] == '-' || n[len(n)-1] == '-' {
		return "", &InvalidNameError{Name: name, Reason: "cannot start or end with a hyphen"}
	}
	return n, nil
}
