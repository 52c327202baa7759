// internal/models/models.go
// Package models reports which model identifiers each configured endpoint
// can serve, querying every endpoint concurrently.
package models

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fatih/color"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/providerfactory"
)

// Listing is one endpoint's reachable model set.
type Listing struct {
	Endpoint string
	Models   []string
	Err      error
}

// List queries every configured endpoint for its served models. Endpoints
// that fail report their error in the listing instead of aborting the
// sweep.
func List(ctx context.Context, cfg *appconfig.Config) []Listing {
	listings := make([]Listing, len(cfg.Endpoints))

	var wg sync.WaitGroup
	for i, endpoint := range cfg.Endpoints {
		wg.Add(1)
		go func(i int, endpoint appconfig.Endpoint) {
			defer wg.Done()
			listings[i] = fetch(ctx, cfg, endpoint)
		}(i, endpoint)
	}
	wg.Wait()

	sort.Slice(listings, func(i, j int) bool { return listings[i].Endpoint < listings[j].Endpoint })
	return listings
}

func fetch(ctx context.Context, cfg *appconfig.Config, endpoint appconfig.Endpoint) Listing {
	listing := Listing{Endpoint: endpoint.Name}

	client, err := providerfactory.NewChatClient(cfg, endpoint)
	if err != nil {
		listing.Err = err
		return listing
	}
	defer client.Close()

	models, err := client.Models(ctx)
	if err != nil {
		// Fall back to the statically configured list so offline configs
		// still show something useful.
		if len(endpoint.Models) > 0 {
			listing.Models = endpoint.Models
			return listing
		}
		listing.Err = err
		return listing
	}
	listing.Models = models
	return listing
}

// Print renders listings with the endpoint name highlighted.
func Print(listings []Listing) {
	nameColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	errColor := color.New(color.FgRed).SprintFunc()

	for _, l := range listings {
		fmt.Printf("\n%s\n", nameColor(l.Endpoint))
		if l.Err != nil {
			fmt.Printf("  %s\n", errColor(fmt.Sprintf("error: %v", l.Err)))
			continue
		}
		if len(l.Models) == 0 {
			fmt.Println("  (no models reported)")
			continue
		}
		for _, m := range l.Models {
			fmt.Printf("  %s\n", m)
		}
	}
}
