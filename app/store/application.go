package store

import (
	"github.com/umputun/jobtrack/app/store/enums"
)

// Application is a single job application record. Optional fields are nil when unset.
type Application struct {
	ID             int64          `db:"id" json:"id"`
	Company        string         `db:"company" json:"company" jsonschema:"required,minLength=1"`
	RoleTitle      string         `db:"role_title" json:"role_title" jsonschema:"required,minLength=1"`
	City           *string        `db:"city" json:"city"`
	WorkMode       enums.WorkMode `db:"work_mode" json:"work_mode"`
	Status         enums.Status   `db:"status" json:"status"`
	DateApplied    *Date          `db:"date_applied" json:"date_applied"`
	LastFollowUp   *Date          `db:"last_follow_up" json:"last_follow_up"`
	NextActionDate *Date          `db:"next_action_date" json:"next_action_date"`
	JobLink        *string        `db:"job_link" json:"job_link"`
	ContactName    *string        `db:"contact_name" json:"contact_name"`
	ContactEmail   *string        `db:"contact_email" json:"contact_email"`
	Notes          *string        `db:"notes" json:"notes"`
}

// Filter defines List predicates, empty fields are ignored.
// Status and City are exact matches, Query is a case-insensitive substring
// matched against company, role title and city.
type Filter struct {
	Query  string
	Status string
	City   string
}
