package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/evanw/tslower/internal/logger"
)

// Timer records named phases of work. A nil *Timer ignores every call so
// callers don't need to check whether timing was requested.
type Timer struct {
	data []timerData
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name: name,
			time: time.Now(),
		})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name:  name,
			time:  time.Now(),
			isEnd: true,
		})
	}
}

// Log reports the recorded phases as a single message with one note per
// phase, indented by nesting depth
func (t *Timer) Log(log logger.Log) {
	if t == nil {
		return
	}

	type pair struct {
		timerData
		index int
	}

	var notes []string
	var stack []pair
	indent := 0

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(notes)})
			notes = append(notes, "")
			indent++
		} else {
			indent--
			last := len(stack) - 1
			top := stack[last]
			stack = stack[:last]
			if item.name != top.name {
				panic(fmt.Sprintf("Internal error: timer phase %q ended while %q was active", item.name, top.name))
			}
			notes[top.index] = fmt.Sprintf("%s%s: %dms",
				strings.Repeat("  ", indent),
				top.name,
				item.time.Sub(top.time).Milliseconds())
		}
	}

	log.AddMsg(logger.Msg{
		Kind:  logger.Info,
		Text:  "Timing information",
		Notes: notes,
	})
}
