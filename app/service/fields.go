package service

import (
	"strings"

	"github.com/umputun/jobtrack/app/service/request"
	"github.com/umputun/jobtrack/app/store"
	"github.com/umputun/jobtrack/app/store/enums"
)

// mergeMode defines what an explicit null in a patch does to the stored value
type mergeMode int

const (
	skipNull  mergeMode = iota // null is a no-op, stored value retained
	clearNull                  // null or empty string clears stored value
)

// setter applies a validated patch field to the record
type setter func(app *store.Application)

// patchRule is a row of the merge table. apply validates the incoming value and
// returns the setter, v is nil when the field has to be cleared.
type patchRule struct {
	name  string
	mode  mergeMode
	field func(p *request.Patch) request.Field[string]
	apply func(name string, v *string) (setter, error)
}

// patchRules lists every patchable field. Date fields clear on null, everything else ignores null.
var patchRules = []patchRule{
	{"company", skipNull, func(p *request.Patch) request.Field[string] { return p.Company },
		requiredText(func(a *store.Application, v string) { a.Company = v })},
	{"role_title", skipNull, func(p *request.Patch) request.Field[string] { return p.RoleTitle },
		requiredText(func(a *store.Application, v string) { a.RoleTitle = v })},
	{"city", skipNull, func(p *request.Patch) request.Field[string] { return p.City },
		optionalText(func(a *store.Application, v *string) { a.City = v })},
	{"work_mode", skipNull, func(p *request.Patch) request.Field[string] { return p.WorkMode }, applyWorkMode},
	{"status", skipNull, func(p *request.Patch) request.Field[string] { return p.Status }, applyStatus},
	{"date_applied", clearNull, func(p *request.Patch) request.Field[string] { return p.DateApplied },
		optionalDate(func(a *store.Application, v *store.Date) { a.DateApplied = v })},
	{"last_follow_up", clearNull, func(p *request.Patch) request.Field[string] { return p.LastFollowUp },
		optionalDate(func(a *store.Application, v *store.Date) { a.LastFollowUp = v })},
	{"next_action_date", clearNull, func(p *request.Patch) request.Field[string] { return p.NextActionDate },
		optionalDate(func(a *store.Application, v *store.Date) { a.NextActionDate = v })},
	{"job_link", skipNull, func(p *request.Patch) request.Field[string] { return p.JobLink },
		optionalText(func(a *store.Application, v *string) { a.JobLink = v })},
	{"contact_name", skipNull, func(p *request.Patch) request.Field[string] { return p.ContactName },
		optionalText(func(a *store.Application, v *string) { a.ContactName = v })},
	{"contact_email", skipNull, func(p *request.Patch) request.Field[string] { return p.ContactEmail },
		optionalText(func(a *store.Application, v *string) { a.ContactEmail = v })},
	{"notes", skipNull, func(p *request.Patch) request.Field[string] { return p.Notes },
		optionalText(func(a *store.Application, v *string) { a.Notes = v })},
}

// compilePatch validates all present fields of the patch and returns setters for them.
// Nothing is returned on the first invalid field.
func compilePatch(p request.Patch) ([]setter, error) {
	res := make([]setter, 0, len(patchRules))
	for _, r := range patchRules {
		f := r.field(&p)
		if !f.Set {
			continue
		}

		var v *string
		switch {
		case !f.HasValue() && r.mode == skipNull:
			continue
		case !f.HasValue(), r.mode == clearNull && f.Value == "":
			v = nil
		default:
			val := f.Value
			v = &val
		}

		set, err := r.apply(r.name, v)
		if err != nil {
			return nil, err
		}
		res = append(res, set)
	}
	return res, nil
}

func requiredText(assign func(a *store.Application, v string)) func(string, *string) (setter, error) {
	return func(name string, v *string) (setter, error) {
		val, err := required(name, *v)
		if err != nil {
			return nil, err
		}
		return func(a *store.Application) { assign(a, val) }, nil
	}
}

func optionalText(assign func(a *store.Application, v *string)) func(string, *string) (setter, error) {
	return func(_ string, v *string) (setter, error) {
		return func(a *store.Application) { assign(a, v) }, nil
	}
}

func optionalDate(assign func(a *store.Application, v *store.Date)) func(string, *string) (setter, error) {
	return func(name string, v *string) (setter, error) {
		d, err := parseDate(name, v)
		if err != nil {
			return nil, err
		}
		return func(a *store.Application) { assign(a, d) }, nil
	}
}

func applyWorkMode(name string, v *string) (setter, error) {
	m, err := parseWorkMode(name, v)
	if err != nil {
		return nil, err
	}
	return func(a *store.Application) { a.WorkMode = m }, nil
}

func applyStatus(name string, v *string) (setter, error) {
	s, err := parseStatus(name, v)
	if err != nil {
		return nil, err
	}
	return func(a *store.Application) { a.Status = s }, nil
}

func required(name, v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", validationErr(name, "field is required")
	}
	return v, nil
}

// parseDate converts ISO date string to Date, nil and empty string mean no date
func parseDate(name string, v *string) (*store.Date, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := store.ParseDate(*v)
	if err != nil {
		return nil, validationErr(name, "%q is not a valid YYYY-MM-DD date", *v)
	}
	return &d, nil
}

// parseWorkMode converts string to WorkMode, nil means default
func parseWorkMode(name string, v *string) (enums.WorkMode, error) {
	if v == nil {
		return enums.WorkModeHybrid, nil
	}
	m, err := enums.ParseWorkMode(*v)
	if err != nil {
		return enums.WorkMode{}, validationErr(name, "%q is not one of %v", *v, enums.WorkModeValues)
	}
	return m, nil
}

// parseStatus converts string to Status, nil means default
func parseStatus(name string, v *string) (enums.Status, error) {
	if v == nil {
		return enums.StatusApplied, nil
	}
	s, err := enums.ParseStatus(*v)
	if err != nil {
		return enums.Status{}, validationErr(name, "%q is not one of %v", *v, enums.StatusValues)
	}
	return s, nil
}
