//go:build linux

package taskqueue

import "golang.org/x/sys/unix"

const haveThreadID = true

func currentThreadID() int {
	return unix.Gettid()
}
