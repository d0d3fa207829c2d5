// Package service implements the application record service: validation and coercion of
// incoming payloads, patch merge rules and mapping of records to the store.
package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobtrack/app/service/request"
	"github.com/umputun/jobtrack/app/store"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store defines persistence operations used by the service
type Store interface {
	List(ctx context.Context, f store.Filter) ([]store.Application, error)
	Get(ctx context.Context, id int64) (store.Application, error)
	Create(ctx context.Context, app store.Application) (store.Application, error)
	Update(ctx context.Context, id int64, fn func(app *store.Application) error) (store.Application, error)
	Delete(ctx context.Context, id int64) error
	Due(ctx context.Context, day store.Date) ([]store.Application, error)
}

// Service manages application records. Each call is a single unit of work on the store.
type Service struct {
	store Store
}

// New makes Service for the given store
func New(st Store) *Service {
	return &Service{store: st}
}

// List returns applications matching the filter, newest first
func (s *Service) List(ctx context.Context, f store.Filter) ([]store.Application, error) {
	res, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return res, nil
}

// Get returns the application with given id
func (s *Service) Get(ctx context.Context, id int64) (store.Application, error) {
	res, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Application{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return store.Application{}, fmt.Errorf("get application %d: %w", id, err)
	}
	return res, nil
}

// Create validates the request and persists a new application
func (s *Service) Create(ctx context.Context, req request.Create) (store.Application, error) {
	app, err := newApplication(req)
	if err != nil {
		return store.Application{}, err
	}

	res, err := s.store.Create(ctx, app)
	if err != nil {
		return store.Application{}, fmt.Errorf("create application: %w", err)
	}
	log.Printf("[INFO] application %d created, %s at %s", res.ID, res.RoleTitle, res.Company)
	return res, nil
}

// Update applies the patch to the application with given id and returns the updated record.
// The patch is validated before the store is touched.
func (s *Service) Update(ctx context.Context, id int64, p request.Patch) (store.Application, error) {
	setters, err := compilePatch(p)
	if err != nil {
		return store.Application{}, err
	}

	res, err := s.store.Update(ctx, id, func(app *store.Application) error {
		for _, set := range setters {
			set(app)
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return store.Application{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return store.Application{}, fmt.Errorf("update application %d: %w", id, err)
	}
	log.Printf("[INFO] application %d updated, %d field(s)", id, len(setters))
	return res, nil
}

// Delete removes the application with given id
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	log.Printf("[INFO] application %d deleted", id)
	return nil
}

// Due returns open applications with next action date on or before day
func (s *Service) Due(ctx context.Context, day store.Date) ([]store.Application, error) {
	res, err := s.store.Due(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("due applications: %w", err)
	}
	return res, nil
}

// newApplication maps create request to a record, applying defaults and date coercion
func newApplication(req request.Create) (store.Application, error) {
	company, err := required("company", req.Company)
	if err != nil {
		return store.Application{}, err
	}
	role, err := required("role_title", req.RoleTitle)
	if err != nil {
		return store.Application{}, err
	}

	app := store.Application{
		Company:      company,
		RoleTitle:    role,
		City:         req.City,
		JobLink:      req.JobLink,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Notes:        req.Notes,
	}

	if app.WorkMode, err = parseWorkMode("work_mode", req.WorkMode); err != nil {
		return store.Application{}, err
	}
	if app.Status, err = parseStatus("status", req.Status); err != nil {
		return store.Application{}, err
	}
	if app.DateApplied, err = parseDate("date_applied", req.DateApplied); err != nil {
		return store.Application{}, err
	}
	if app.LastFollowUp, err = parseDate("last_follow_up", req.LastFollowUp); err != nil {
		return store.Application{}, err
	}
	if app.NextActionDate, err = parseDate("next_action_date", req.NextActionDate); err != nil {
		return store.Application{}, err
	}
	return app, nil
}
