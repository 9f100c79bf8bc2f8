//go:build !linux && !windows

package taskqueue

const haveThreadID = false

func currentThreadID() int {
	return 0
}
