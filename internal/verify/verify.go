// Package verify checks whether a published hostname already resolves to
// the expected address on public DNS.
package verify

import (
	"context"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/miekg/dns"
)

// DefaultResolver is used when no resolver is configured.
const DefaultResolver = "8.8.8.8:53"

// Result is the outcome of one propagation check.
type Result struct {
	Hostname   string   `json:"hostname"`
	Expected   string   `json:"expected"`
	Addresses  []string `json:"addresses"`
	Propagated bool     `json:"propagated"`
	Resolver   string   `json:"resolver"`
	Rcode      string   `json:"rcode"`
}

// Checker queries one recursive resolver.
type Checker struct {
	resolver string
	client   *dns.Client
}

// NewChecker creates a Checker for resolver ("host:port"). Zero values use
// DefaultResolver and a 3s timeout.
func NewChecker(resolver string, timeout time.Duration) *Checker {
	if resolver == "" {
		resolver = DefaultResolver
	}
	if _, _, err := net.SplitHostPort(resolver); err != nil {
		resolver = net.JoinHostPort(resolver, "53")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{
		resolver: resolver,
		client:   &dns.Client{Net: "udp", Timeout: timeout},
	}
}

func (c *Checker) Resolver() string { return c.resolver }

// Check asks the resolver for the A records of hostname. A name that does
// not exist yet is not an error; Propagated is false.
func (c *Checker) Check(ctx context.Context, hostname, expectedIP string) (Result, error) {
	res := Result{Hostname: hostname, Expected: expectedIP, Resolver: c.resolver, Addresses: []string{}}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(hostname), dns.TypeA)
	m.RecursionDesired = true

	r, _, err := c.client.ExchangeContext(ctx, m, c.resolver)
	if err != nil {
		return res, fmt.Errorf("query %s via %s: %w", hostname, c.resolver, err)
	}
	// Retry over TCP when the answer did not fit.
	if r.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: c.client.Timeout}
		if r, _, err = tcp.ExchangeContext(ctx, m, c.resolver); err != nil {
			return res, fmt.Errorf("query %s via %s over tcp: %w", hostname, c.resolver, err)
		}
	}

	res.Rcode = dns.RcodeToString[r.Rcode]
	switch r.Rcode {
	case dns.RcodeSuccess, dns.RcodeNameError:
	default:
		return res, fmt.Errorf("query %s via %s: %s", hostname, c.resolver, res.Rcode)
	}

	for _, rr := range r.Answer {
		if a, ok := rr.(*dns.A); ok {
			res.Addresses = append(res.Addresses, a.A.String())
		}
	}
	res.Propagated = expectedIP != "" && slices.Contains(res.Addresses, expectedIP)
	return res, nil
}
