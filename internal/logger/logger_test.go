package logger_test

import (
	"testing"

	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/test"
)

func TestMsgIDs(t *testing.T) {
	for id := logger.MsgID_None; id <= logger.MsgID_END; id++ {
		str := logger.MsgIDToString(id)
		if str == "" {
			continue
		}

		overrides := make(map[logger.MsgID]logger.LogLevel)
		logger.StringToMsgIDs(str, logger.LevelError, overrides)
		if len(overrides) == 0 {
			t.Fatalf("Failed to find message id(s) for the string %q", str)
		}

		for k, v := range overrides {
			test.AssertEqual(t, logger.MsgIDToString(k), str)
			test.AssertEqual(t, v, logger.LevelError)
		}
	}
}

func TestDeferLogSortsByLocation(t *testing.T) {
	source := logger.Source{PrettyPath: "file.ts", Contents: "let a\nlet b\n"}
	log := logger.NewDeferLog()
	log.AddError(&source, logger.Range{Loc: logger.Loc{Start: 6}, Len: 3}, "second")
	log.AddError(&source, logger.Range{Loc: logger.Loc{Start: 0}, Len: 3}, "first")
	log.AddID(logger.MsgID_Infer_FallbackToAny, logger.Debug, nil, logger.NoRange, "no location")

	test.AssertEqual(t, log.HasErrors(), true)
	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 3)
	test.AssertEqual(t, msgs[0].Text, "no location")
	test.AssertEqual(t, msgs[1].Text, "first")
	test.AssertEqual(t, msgs[1].Location.Line, 1)
	test.AssertEqual(t, msgs[2].Text, "second")
	test.AssertEqual(t, msgs[2].Location.Line, 2)
	test.AssertEqual(t, msgs[2].Location.LineText, "let b")
}

func TestMsgString(t *testing.T) {
	source := logger.Source{PrettyPath: "file.ts", Contents: "enum E { A = x }"}
	msg := logger.Msg{
		Kind:     logger.Error,
		Text:     "Internal error",
		Location: logger.LocationOrNil(&source, logger.Range{Loc: logger.Loc{Start: 9}, Len: 5}),
		Notes:    []string{"stack"},
	}
	text := msg.String(logger.OutputOptions{IncludeSource: true}, logger.TerminalInfo{})
	test.AssertEqualWithDiff(t, text, `file.ts:1:9: error: Internal error
enum E { A = x }
         ~~~~~
  stack
`)

	msg.Location = nil
	text = msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
	test.AssertEqual(t, text, "error: Internal error\n  stack\n")
}

func TestSynthesizedRangeHasNoLocation(t *testing.T) {
	source := logger.Source{PrettyPath: "file.ts", Contents: "x"}
	if logger.LocationOrNil(&source, logger.NoRange) != nil {
		t.Fatal("Expected no location for a synthesized range")
	}
}
