package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/logging"
	"github.com/aqall/publisher/internal/registrar"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file (or set PUBLISHER_CONFIG)")
		onlyA      = flag.Bool("a", false, "Only print A records")
		timeout    = flag.Duration("timeout", 30*time.Second, "Overall timeout")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.FromConfig(cfg.Logging, "print-records"))
	client := registrar.New(cfg.Registrar, registrar.WithLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	recs, err := client.ListRecordsStrict(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list records: %v\n", err)
		if registrar.IsConfigurationError(err) {
			fmt.Fprintln(os.Stderr, "set GODADDY_API_KEY, GODADDY_API_SECRET and GODADDY_DOMAIN (or the registrar section of the config file)")
		}
		os.Exit(1)
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Data < b.Data
	})

	fmt.Printf("ZONE: %s\n", client.Zone())
	fmt.Printf("PROVIDER: %s\n", client.Provider())
	fmt.Println("RECORDS:")
	for _, rr := range recs {
		if *onlyA && rr.Type != registrar.RecordTypeA {
			continue
		}
		fmt.Printf("  %s %d IN %s %s\n", rr.Name, rr.TTL, rr.Type, rr.Data)
	}
}
