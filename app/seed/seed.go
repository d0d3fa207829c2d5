// Package seed loads initial applications from a YAML file
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/jobtrack/app/service/request"
	"github.com/umputun/jobtrack/app/store"
)

// Creator makes new applications, implemented by service.Service
type Creator interface {
	Create(ctx context.Context, req request.Create) (store.Application, error)
}

// Load decodes a YAML list of applications. Keys match the JSON API, unknown keys are rejected.
//
//	# seed.yml
//	- company: Acme
//	  role_title: Backend Engineer
//	  status: Interview
//	  next_action_date: 2024-05-01
func Load(r io.Reader) ([]request.Create, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var res []request.Create
	if err := dec.Decode(&res); err != nil {
		if errors.Is(err, io.EOF) {
			return []request.Create{}, nil
		}
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	return res, nil
}

// LoadFile is Load for the file at path
func LoadFile(path string) ([]request.Create, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from cli option
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Apply creates all items through svc and returns the number created.
// Stops on the first failed item, already created ones are kept.
func Apply(ctx context.Context, svc Creator, items []request.Create) (int, error) {
	for i, item := range items {
		app, err := svc.Create(ctx, item)
		if err != nil {
			return i, fmt.Errorf("seed item %d (%s): %w", i+1, item.Company, err)
		}
		log.Printf("[DEBUG] seeded application %d, %s at %s", app.ID, app.RoleTitle, app.Company)
	}
	return len(items), nil
}
