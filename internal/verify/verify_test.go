package verify_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqall/publisher/internal/verify"
)

// startResolver serves zone (FQDN -> IPs) on a local UDP port.
func startResolver(t *testing.T, zone map[string][]string, rcode int) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		if rcode != dns.RcodeSuccess {
			m.Rcode = rcode
			_ = w.WriteMsg(m)
			return
		}
		q := req.Question[0]
		ips, ok := zone[q.Name]
		if !ok {
			m.Rcode = dns.RcodeNameError
		}
		for _, ip := range ips {
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 3600},
				A:   net.ParseIP(ip),
			})
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: mux, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("dns server did not start")
	}
	return pc.LocalAddr().String()
}

func TestCheck_Propagated(t *testing.T) {
	addr := startResolver(t, map[string][]string{
		"acme.aqall.dev.": {"203.0.113.5"},
	}, dns.RcodeSuccess)
	c := verify.NewChecker(addr, time.Second)

	res, err := c.Check(context.Background(), "acme.aqall.dev", "203.0.113.5")
	require.NoError(t, err)

	assert.True(t, res.Propagated)
	assert.Equal(t, []string{"203.0.113.5"}, res.Addresses)
	assert.Equal(t, "NOERROR", res.Rcode)
	assert.Equal(t, addr, res.Resolver)
}

func TestCheck_StaleAddress(t *testing.T) {
	addr := startResolver(t, map[string][]string{
		"acme.aqall.dev.": {"198.51.100.7"},
	}, dns.RcodeSuccess)
	c := verify.NewChecker(addr, time.Second)

	res, err := c.Check(context.Background(), "acme.aqall.dev", "203.0.113.5")
	require.NoError(t, err)
	assert.False(t, res.Propagated)
	assert.Equal(t, []string{"198.51.100.7"}, res.Addresses)
}

func TestCheck_NameDoesNotExistYet(t *testing.T) {
	addr := startResolver(t, map[string][]string{}, dns.RcodeSuccess)
	c := verify.NewChecker(addr, time.Second)

	res, err := c.Check(context.Background(), "acme.aqall.dev", "203.0.113.5")
	require.NoError(t, err)
	assert.False(t, res.Propagated)
	assert.Empty(t, res.Addresses)
	assert.Equal(t, "NXDOMAIN", res.Rcode)
}

func TestCheck_ServerFailure(t *testing.T) {
	addr := startResolver(t, nil, dns.RcodeServerFailure)
	c := verify.NewChecker(addr, time.Second)

	_, err := c.Check(context.Background(), "acme.aqall.dev", "203.0.113.5")
	assert.ErrorContains(t, err, "SERVFAIL")
}

func TestNewChecker_Defaults(t *testing.T) {
	assert.Equal(t, verify.DefaultResolver, verify.NewChecker("", 0).Resolver())
	assert.Equal(t, "1.1.1.1:53", verify.NewChecker("1.1.1.1", 0).Resolver())
	assert.Equal(t, "127.0.0.1:5353", verify.NewChecker("127.0.0.1:5353", 0).Resolver())
}
