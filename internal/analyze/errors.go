package analyze

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for type graph operations.
var (
	// ErrDuplicateType is returned when a TypeID is registered twice.
	ErrDuplicateType = errors.New("duplicate type")

	// ErrTypeNotFound is returned when a type reference cannot be resolved.
	ErrTypeNotFound = errors.New("type not found")

	// ErrAmbiguousType is returned when a short type reference matches more than one type.
	ErrAmbiguousType = errors.New("ambiguous type reference")

	// ErrInheritanceCycle is returned when a base chain loops back onto itself.
	ErrInheritanceCycle = errors.New("inheritance cycle")

	// ErrInvalidBase is returned when a base type is not a struct.
	ErrInvalidBase = errors.New("invalid base type")

	// ErrInvalidTypeExpr is returned for malformed textual type expressions.
	ErrInvalidTypeExpr = errors.New("invalid type expression")
)

//go:generate go tool stringer -type=GenericErrorKind -linecomment

// GenericErrorKind classifies why a generic type could not be closed: the
// wrong number of arguments, a violated parameter constraint, a type that is
// already closed, or one without type parameters.
type GenericErrorKind int

const (
	GenericArity            GenericErrorKind = iota // arity
	GenericConstraint                               // constraint
	GenericAlreadySpecified                         // already_specified
	GenericNotGeneric                               // not_generic
)

// GenericArgumentError reports a failed attempt to close a generic type.
type GenericArgumentError struct {
	Kind       GenericErrorKind
	Definition *TypeInfo
	Supplied   int       // number of arguments supplied
	Expected   int       // arity of Definition
	Param      *TypeInfo // violated parameter (constraint errors)
	Arg        *TypeInfo // offending argument (constraint errors)
	Constraint string    // violated constraint, e.g. "reference type" or "assignable to shop.Entity"
}

func (e *GenericArgumentError) Error() string {
	switch e.Kind {
	case GenericArity:
		return fmt.Sprintf("generic type %s expects %d type argument(s), %d supplied",
			e.Definition, e.Expected, e.Supplied)
	case GenericConstraint:
		return fmt.Sprintf("type argument %s for parameter %s of %s violates constraint %q",
			e.Arg, e.Param, e.Definition, e.Constraint)
	case GenericAlreadySpecified:
		return fmt.Sprintf("type %s already has its type arguments specified", e.Definition)
	case GenericNotGeneric:
		return fmt.Sprintf("type %s is not a generic type definition", e.Definition)
	default:
		return "invalid generic arguments"
	}
}

// ResolveError reports a type reference that could not be resolved.
type ResolveError struct {
	Ref        string
	Candidates []string // populated for ambiguous references
	Err        error
}

func (e *ResolveError) Error() string {
	if len(e.Candidates) > 0 {
		return fmt.Sprintf("%v: %q matches %s", e.Err, e.Ref, strings.Join(e.Candidates, ", "))
	}

	return fmt.Sprintf("%v: %q", e.Err, e.Ref)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
