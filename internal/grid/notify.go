package grid

// Level classifies a Notice.
type Level int

const (
	Success Level = iota
	Failure
)

// Notice is a user-visible outcome of an operation.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices as operations complete.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
