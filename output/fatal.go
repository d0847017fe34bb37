package output

import (
	"fmt"
	"os"
	"sync"
)

// Aborter terminates the surrounding parallel job group. Register one when
// running under a multi-process launcher so a local failure does not leave
// sibling processes blocked on a collective operation.
type Aborter interface {
	Abort(code int)
}

// FailHandler receives the diagnostic message for a fatal error. The
// default handler never returns.
type FailHandler func(msg string)

var (
	aborterMu  sync.Mutex
	jobAborter Aborter
)

// for tests
var exit = os.Exit

// SetAborter registers the job-wide abort hook used by the default fail
// handler. Passing nil clears it.
func SetAborter(a Aborter) {
	aborterMu.Lock()
	jobAborter = a
	aborterMu.Unlock()
}

func currentAborter() Aborter {
	aborterMu.Lock()
	defer aborterMu.Unlock()
	return jobAborter
}

// Fatal writes msg to the diagnostic stream, aborts the parallel job group
// when an Aborter is registered, and terminates the process with a
// non-zero status. It is the default fail handler.
func Fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	if a := currentAborter(); a != nil {
		a.Abort(1)
	}
	exit(1)
}

// fatal routes a failure through the file's fail handler with a message
// naming the operation and its target.
func (f *File) fatal(op, target string, err error) {
	f.fail(fmt.Sprintf("snapio: %s %q: %v", op, target, err))
}
