package recovery

// Strategy decides how the parser reacts to a malformed stream.
type Strategy interface {
	OnError(ctx Context, err error, location Location) Action
}

// Location pinpoints where in the stream an error was detected.
type Location struct {
	ByteOffset int64
	Structure  string
	Component  string
}

type Action int

const (
	ActionFail Action = iota
	ActionSkip
	ActionWarn
)

type Context interface{ Done() <-chan struct{} }
