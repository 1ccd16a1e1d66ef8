package helpers

import (
	"strings"
	"testing"

	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/test"
)

func TestQuoteForJS(t *testing.T) {
	expect := func(text string, quoteChar byte, expected string) {
		t.Helper()
		test.AssertEqual(t, string(QuoteForJS(text, quoteChar)), expected)
	}
	expect("", '"', `""`)
	expect("abc", '"', `"abc"`)
	expect(`a"b'c`, '"', `"a\"b'c"`)
	expect(`a"b'c`, '\'', `'a"b\'c'`)
	expect("a\nb\tc\\", '"', `"a\nb\tc\\"`)
	expect("\x00\x1f\x7f", '"', `"\x00\x1F\x7F"`)
	expect("\u2028\u2029", '"', `"\u2028\u2029"`)
	expect("é🍕", '"', `"é🍕"`)
	expect("\xff", '"', `"\u00FF"`)
}

func TestJoiner(t *testing.T) {
	j := Joiner{}
	j.AddString("a")
	j.AddBytes([]byte("bc"))
	j.AddString("")
	j.AddString("d")
	test.AssertEqual(t, string(j.Done()), "abcd")
}

func TestTypoDetector(t *testing.T) {
	detector := MakeTypoDetector([]string{"target", "strictNullChecks"})

	corrected, ok := detector.MaybeCorrectTypo("taget")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "target")

	corrected, ok = detector.MaybeCorrectTypo("strictNulChecks")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "strictNullChecks")

	_, ok = detector.MaybeCorrectTypo("outDir")
	test.AssertEqual(t, ok, false)

	// A correctly spelled name is not a typo
	_, ok = detector.MaybeCorrectTypo("target")
	test.AssertEqual(t, ok, false)

	for _, typo := range []string{"Target", "TARGET", "targett", "targte", "tarqet"} {
		corrected, ok = detector.MaybeCorrectTypo(typo)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, corrected, "target")
	}

	corrected, ok = detector.MaybeCorrectTypo("StrictNullCheck")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, corrected, "strictNullChecks")
}

func TestTimer(t *testing.T) {
	var nilTimer *Timer
	nilTimer.Begin("ignored")
	nilTimer.End("ignored")

	timer := &Timer{}
	timer.Begin("outer")
	timer.Begin("inner")
	timer.End("inner")
	timer.End("outer")

	log := logger.NewDeferLog()
	timer.Log(log)
	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, len(msgs[0].Notes), 2)
	test.AssertEqual(t, strings.HasPrefix(msgs[0].Notes[0], "outer: "), true)
	test.AssertEqual(t, strings.HasPrefix(msgs[0].Notes[1], "  inner: "), true)
}

func TestPrettyPrintedStack(t *testing.T) {
	stack := PrettyPrintedStack()
	test.AssertEqual(t, strings.HasPrefix(stack, "helpers.TestPrettyPrintedStack (helpers/helpers_test.go:"), true)
	test.AssertEqual(t, strings.Contains(stack, "debug.Stack"), false)
}

//go:noinline
func panicWithText() {
	panic("text")
}

func TestPrettyPrintedStackWhileRecovering(t *testing.T) {
	var stack string
	func() {
		defer func() {
			recover()
			stack = PrettyPrintedStack()
		}()
		panicWithText()
	}()
	test.AssertEqual(t, strings.HasPrefix(stack, "helpers.panicWithText (helpers/helpers_test.go:"), true)
	test.AssertEqual(t, strings.Contains(stack, "helpers.TestPrettyPrintedStackWhileRecovering"), true)
}

func TestShortStackNames(t *testing.T) {
	test.AssertEqual(t, shortFunctionName("github.com/evanw/tslower/internal/ts_transform.(*transformer).visitClass(0xc000010000, 0x0)"), "ts_transform.(*transformer).visitClass")
	test.AssertEqual(t, shortFunctionName("main.main()"), "main.main")
	test.AssertEqual(t, shortLocation("/root/module/internal/helpers/stack.go:17 +0x5e"), "helpers/stack.go:17")
	test.AssertEqual(t, shortLocation("stack.go:17"), "stack.go:17")
}
