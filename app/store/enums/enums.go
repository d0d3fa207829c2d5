// Package enums provides closed enumerations of the application record.
//
// The types are generated by go-pkgz/enum from the unexported integer types below.
// For each type the generator creates an exported struct type (e.g. Status) with
// String, Parse, Scan/Value and MarshalText/UnmarshalText, plus exported values
// (e.g. StatusApplied) and the list of all values (e.g. StatusValues).
// Names are case-sensitive and match the constant names without the type prefix.
//
// Usage:
//
//	status := enums.StatusInterview
//	fmt.Println(status.String()) // "Interview"
//
//	parsed, err := enums.ParseStatus("Offer")
//	if err != nil {
//	    // handle invalid input
//	}
//
// To regenerate the enum types after modifications:
//
//	go generate ./app/store/enums
package enums

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:generate go run github.com/go-pkgz/enum@latest -type workMode
//go:generate go run github.com/go-pkgz/enum@latest -type status

// workMode is where the job is performed, generator input for WorkMode
type workMode int

const (
	workModeRemote workMode = iota
	workModeHybrid
	workModeOnsite
)

// status is the stage of an application in the hiring pipeline, generator input for Status
type status int

const (
	statusApplied status = iota
	statusScreen
	statusInterview
	statusOffer
	statusRejected
)

// Closed reports whether the application reached a final outcome
func (e Status) Closed() bool { return e == StatusOffer || e == StatusRejected }

// JSONSchema describes WorkMode as a string enum
func (WorkMode) JSONSchema() *jsonschema.Schema { return stringEnumSchema(WorkModeValues) }

// JSONSchema describes Status as a string enum
func (Status) JSONSchema() *jsonschema.Schema { return stringEnumSchema(StatusValues) }

func stringEnumSchema[T fmt.Stringer](values []T) *jsonschema.Schema {
	res := &jsonschema.Schema{Type: "string", Enum: make([]any, 0, len(values))}
	for _, v := range values {
		res.Enum = append(res.Enum, v.String())
	}
	return res
}
