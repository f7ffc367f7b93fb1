package recovery

import "fmt"

// StrictStrategy fails on the first structural violation.
type StrictStrategy struct{}

func NewStrictStrategy() *StrictStrategy {
	return &StrictStrategy{}
}

func (s *StrictStrategy) OnError(ctx Context, err error, location Location) Action {
	return ActionFail
}

// LenientStrategy collects errors and keeps going where the parser can:
// a structure that fails to parse is skipped, the rest of the library
// stays usable.
type LenientStrategy struct {
	Errors []error
}

func NewLenientStrategy() *LenientStrategy {
	return &LenientStrategy{}
}

func (s *LenientStrategy) OnError(ctx Context, err error, location Location) Action {
	where := location.Component
	if location.Structure != "" {
		where = fmt.Sprintf("%s[%s]", where, location.Structure)
	}
	s.Errors = append(s.Errors, fmt.Errorf("%s offset %d: %w", where, location.ByteOffset, err))
	return ActionSkip
}
