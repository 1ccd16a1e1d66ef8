package helpers

import (
	"runtime/debug"
	"strings"
)

type stackFrame struct {
	function string
	location string
}

// Returns the current stack as "pkg.Function (dir/file.go:line)" lines. When
// called while recovering from a panic, the stack starts at the function
// that panicked instead of at the recovery code.
func PrettyPrintedStack() string {
	frames := parseStack(string(debug.Stack()))
	for i := len(frames) - 1; i >= 0; i-- {
		if strings.HasPrefix(frames[i].function, "panic(") {
			frames = frames[i+1:]
			break
		}
	}

	var lines []string
	for _, frame := range frames {
		if strings.HasPrefix(frame.function, "runtime.") ||
			strings.HasPrefix(frame.function, "runtime/debug.") ||
			strings.HasPrefix(frame.function, "created by ") ||
			strings.HasSuffix(frame.function, "helpers.PrettyPrintedStack()") {
			continue
		}
		lines = append(lines, shortFunctionName(frame.function)+" ("+shortLocation(frame.location)+")")
	}
	return strings.Join(lines, "\n")
}

// The format is one unindented function line followed by one indented
// location line per frame, after a "goroutine N [running]:" header
func parseStack(text string) (frames []stackFrame) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "goroutine ") && strings.HasSuffix(line, ":"):
		case strings.HasPrefix(line, "\t"):
			if len(frames) > 0 {
				frames[len(frames)-1].location = line[1:]
			}
		default:
			frames = append(frames, stackFrame{function: line})
		}
	}
	return
}

func shortFunctionName(function string) string {
	if strings.HasSuffix(function, ")") {
		if paren := strings.LastIndexByte(function, '('); paren != -1 {
			function = function[:paren]
		}
	}
	if slash := strings.LastIndexByte(function, '/'); slash != -1 {
		function = function[slash+1:]
	}
	return function
}

func shortLocation(location string) string {
	if offset := strings.LastIndex(location, " +0x"); offset != -1 {
		location = location[:offset]
	}
	if slash := strings.LastIndexByte(location, '/'); slash != -1 {
		if dir := strings.LastIndexByte(location[:slash], '/'); dir != -1 {
			location = location[dir+1:]
		}
	}
	return location
}
