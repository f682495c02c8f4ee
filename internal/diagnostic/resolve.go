package diagnostic

import (
	"errors"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/match"
)

// AddResolveError reports a type reference that could not be resolved.
// Unknown names get suggestions drawn from known.
func (d *Diagnostics) AddResolveError(err error, subject, location string, known []string) {
	var (
		rerr *analyze.ResolveError
		gerr *analyze.GenericArgumentError
	)

	switch {
	case errors.As(err, &rerr) && errors.Is(err, analyze.ErrAmbiguousType):
		d.AddError(CodeAmbiguousType, err.Error(), subject, location, rerr.Candidates...)
	case errors.As(err, &rerr) && errors.Is(err, analyze.ErrTypeNotFound):
		d.AddError(CodeUnknownType, err.Error(), subject, location,
			match.Suggest(rerr.Ref, known, match.DefaultLimit)...)
	case errors.As(err, &gerr):
		d.AddError(CodeInvalidGeneric, err.Error(), subject, location)
	default:
		d.AddError(CodeMalformed, err.Error(), subject, location)
	}
}
