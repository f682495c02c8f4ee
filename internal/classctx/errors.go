package classctx

import "errors"

var (
	// ErrDuplicateMixinType is returned when a ClassContext is given two
	// mixins of the same type.
	ErrDuplicateMixinType = errors.New("mixin type appears twice in class context")

	// ErrDependencyCycle is returned when explicit mixin dependencies loop.
	ErrDependencyCycle = errors.New("mixin dependency cycle")

	// ErrCompleteInterfaceClaimed is returned when two class contexts claim
	// the same complete interface.
	ErrCompleteInterfaceClaimed = errors.New("complete interface claimed by more than one class context")
)

// ErrDuplicateClassContext is returned when a Collection is given two
// contexts for the same type.
var ErrDuplicateClassContext = errors.New("class context appears twice in collection")
