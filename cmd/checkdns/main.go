package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aqall/publisher/internal/verify"
)

func main() {
	var (
		server   = flag.String("server", verify.DefaultResolver, "DNS server HOST:PORT")
		name     = flag.String("name", "", "Hostname to check, e.g. acme.aqall.dev")
		expected = flag.String("expect", "", "Expected IPv4 address")
		timeout  = flag.Duration("timeout", 3*time.Second, "Timeout")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates propagation)")
	)
	flag.Parse()

	if strings.TrimSpace(*name) == "" {
		fmt.Fprintf(os.Stderr, "Usage: checkdns -name acme.aqall.dev [-expect 203.0.113.5] [-server 1.1.1.1:53]\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := verify.NewChecker(*server, *timeout).Check(ctx, *name, *expected)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "checkdns error: %v\n", err)
		}
		os.Exit(1)
	}

	if !*quiet {
		fmt.Printf("resolver=%s rcode=%s answers=%d\n", res.Resolver, res.Rcode, len(res.Addresses))
		for _, a := range res.Addresses {
			fmt.Printf("%s IN A %s\n", res.Hostname, a)
		}
		if *expected != "" {
			fmt.Printf("propagated=%t\n", res.Propagated)
		}
	}
	if *expected != "" && !res.Propagated {
		os.Exit(1)
	}
}
