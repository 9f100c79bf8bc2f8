//go:build windows

package taskqueue

import "golang.org/x/sys/windows"

const haveThreadID = true

func currentThreadID() int {
	return int(windows.GetCurrentThreadId())
}
