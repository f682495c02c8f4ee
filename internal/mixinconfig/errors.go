package mixinconfig

import (
	"errors"
	"fmt"
	"strings"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
)

// Sentinel errors wrapped by ConfigurationError.
var (
	// ErrDuplicateMixin is returned when a target receives the same mixin
	// twice with differing metadata.
	ErrDuplicateMixin = errors.New("conflicting duplicate mixin")

	// ErrGenericArity is returned when the number of mixin type arguments
	// does not match the mixin's generic parameters.
	ErrGenericArity = errors.New("generic argument count mismatch")

	// ErrGenericConstraint is returned when a mixin type argument violates a
	// generic constraint.
	ErrGenericConstraint = errors.New("generic constraint violated")

	// ErrArgumentsAlreadySpecified is returned when type arguments are given
	// for a mixin that is already closed.
	ErrArgumentsAlreadySpecified = errors.New("generic arguments already specified")

	// ErrNotGeneric is returned when type arguments are given for a mixin
	// that has no generic parameters.
	ErrNotGeneric = errors.New("mixin is not generic")

	// ErrCompleteInterfaceAmbiguous is returned when two targets claim the
	// same complete interface.
	ErrCompleteInterfaceAmbiguous = errors.New("complete interface has more than one owner")

	// ErrCompleteInterfaceOwner is returned when a complete interface names a
	// missing or invalid owner, or is not an interface.
	ErrCompleteInterfaceOwner = errors.New("invalid complete interface owner")

	// ErrSelfSuppression is returned when a mixin suppresses itself.
	ErrSelfSuppression = errors.New("mixin suppresses itself")

	// ErrMixinAlreadyConfigured is returned when the fluent API adds the
	// same mixin to a class twice.
	ErrMixinAlreadyConfigured = errors.New("mixin already configured for class")

	// ErrInvalidIntent is returned when an intent lacks its target or mixin,
	// or the target cannot receive mixins.
	ErrInvalidIntent = errors.New("invalid mixin intent")
)

// ConfigurationError is the single error type raised while a configuration
// is built. It names the target, the mixin and the rule that failed.
type ConfigurationError struct {
	Target *analyze.TypeInfo
	Mixin  *analyze.TypeInfo
	Origin declare.Origin
	Err    error  // one of the sentinels above
	Detail string // rule specific explanation
	Cause  error  // underlying error, if any
}

func (e *ConfigurationError) Error() string {
	if errors.Is(e.Err, ErrDuplicateMixin) {
		return fmt.Sprintf("Two instances of mixin %s are configured for target type %s.", e.Mixin, e.Target)
	}

	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}

	var subject []string
	if e.Target != nil {
		subject = append(subject, "target "+e.Target.String())
	}

	if e.Mixin != nil {
		subject = append(subject, "mixin "+e.Mixin.String())
	}

	if !e.Origin.IsZero() {
		subject = append(subject, "declared by "+e.Origin.String())
	}

	if len(subject) > 0 {
		b.WriteString(" (" + strings.Join(subject, ", ") + ")")
	}

	return b.String()
}

// Unwrap returns the sentinel and the underlying cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

func newConfigError(sentinel error, in declare.Intent, detail string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Target: in.Target,
		Mixin:  in.Mixin,
		Origin: in.Origin,
		Err:    sentinel,
		Detail: detail,
		Cause:  cause,
	}
}

// genericError maps a failed instantiation to a ConfigurationError.
func genericError(in declare.Intent, err error) *ConfigurationError {
	var gerr *analyze.GenericArgumentError
	if !errors.As(err, &gerr) {
		return newConfigError(ErrGenericConstraint, in, err.Error(), err)
	}

	switch gerr.Kind {
	case analyze.GenericArity:
		return newConfigError(ErrGenericArity, in,
			fmt.Sprintf("%d type argument(s) supplied, %d expected", gerr.Supplied, gerr.Expected), err)
	case analyze.GenericAlreadySpecified:
		return newConfigError(ErrArgumentsAlreadySpecified, in, "", err)
	case analyze.GenericNotGeneric:
		return newConfigError(ErrNotGeneric, in, "", err)
	default:
		return newConfigError(ErrGenericConstraint, in,
			fmt.Sprintf("argument %s for parameter %s must satisfy %q", gerr.Arg, gerr.Param, gerr.Constraint), err)
	}
}
