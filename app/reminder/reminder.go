// Package reminder sends a digest of applications with follow-ups due, on cron schedule.
package reminder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"
	"github.com/robfig/cron/v3"

	"github.com/umputun/jobtrack/app/store"
)

// DefaultSchedule runs the check every day at 9:00
const DefaultSchedule = "0 9 * * *"

// Store provides applications with next action due, implemented by service.Service
type Store interface {
	Due(ctx context.Context, day store.Date) ([]store.Application, error)
}

// Reminder checks for due follow-ups and delivers the digest to all destinations
type Reminder struct {
	Store        Store
	Notifiers    []notify.Notifier // picked by destination schema, i.e. "https://" goes to webhook
	Destinations []string
	Schedule     string           // standard 5-fields cron spec, DefaultSchedule if empty
	Now          func() time.Time // time.Now if nil
}

var digestTmpl = template.Must(template.New("digest").Parse(
	`{{len .Items}} follow-up{{if gt (len .Items) 1}}s{{end}} due on {{.Day}}
{{range .Items}}- #{{.ID}} {{.Company}}, {{.RoleTitle}} [{{.Status}}], next action {{.Next}}{{if .Overdue}} (overdue){{end}}{{with .Contact}}, contact {{.}}{{end}}
{{end}}`))

type digestItem struct {
	ID                 int64
	Company, RoleTitle string
	Status             string
	Next               string
	Overdue            bool
	Contact            string
}

// Run schedules Check and blocks until ctx is canceled, running check is waited for
func (r *Reminder) Run(ctx context.Context) error {
	spec := r.Schedule
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	if len(r.Destinations) == 0 {
		return errors.New("no reminder destinations")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		n, err := r.Check(ctx)
		if err != nil {
			log.Printf("[WARN] reminder failed, %v", err)
			return
		}
		log.Printf("[DEBUG] reminder check completed, %d due", n)
	}); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	log.Printf("[INFO] reminder scheduled %q, destinations: %d", spec, len(r.Destinations))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Printf("[INFO] reminder stopped")
	return nil
}

// Check sends digest of due applications to every destination and returns the number of due applications.
// Nothing is sent if no application is due. Delivery errors are collected for all destinations.
func (r *Reminder) Check(ctx context.Context) (int, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	day := store.DateOf(now())

	apps, err := r.Store.Due(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to get due applications: %w", err)
	}
	if len(apps) == 0 {
		return 0, nil
	}

	text, err := makeDigest(day, apps)
	if err != nil {
		return len(apps), err
	}

	var errs []error
	for _, dest := range r.Destinations {
		if err := notify.Send(ctx, r.Notifiers, dest, text); err != nil {
			errs = append(errs, fmt.Errorf("failed to send reminder to %s: %w", redact(dest), err))
		}
	}
	return len(apps), errors.Join(errs...)
}

func makeDigest(day store.Date, apps []store.Application) (string, error) {
	items := make([]digestItem, 0, len(apps))
	for _, a := range apps {
		it := digestItem{ID: a.ID, Company: a.Company, RoleTitle: a.RoleTitle, Status: a.Status.String()}
		if a.NextActionDate != nil {
			it.Next = a.NextActionDate.String()
			it.Overdue = a.NextActionDate.Before(day)
		}
		switch {
		case a.ContactName != nil && a.ContactEmail != nil && *a.ContactEmail != "":
			it.Contact = fmt.Sprintf("%s <%s>", *a.ContactName, *a.ContactEmail)
		case a.ContactName != nil:
			it.Contact = *a.ContactName
		case a.ContactEmail != nil:
			it.Contact = *a.ContactEmail
		}
		items = append(items, it)
	}

	buf := bytes.Buffer{}
	data := struct {
		Day   string
		Items []digestItem
	}{Day: day.String(), Items: items}
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to make digest: %w", err)
	}
	return buf.String(), nil
}

// redact drops query part of destination, it may carry tokens
func redact(dest string) string {
	res, _, _ := strings.Cut(dest, "?")
	return res
}
