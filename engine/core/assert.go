package core

import "fmt"

// Assert reports a contract violation when cond is false. Builds tagged
// with `debug` panic, other builds log the message and carry on so the caller
// can return its error.
func Assert(cond bool, msg string, args ...interface{}) {
	if cond {
		return
	}
	AssertFail(msg, args...)
}

func AssertFail(msg string, args ...interface{}) {
	text := fmt.Sprintf(msg, args...)
	LogError("assertion failed: %s", text)
	if assertionsFatal {
		panic(text)
	}
}
