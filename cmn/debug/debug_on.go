//go:build debug

package debug

import "fmt"

func Assert(cond bool, args ...any) {
	if !cond {
		panic(fmt.Sprint(args...))
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
