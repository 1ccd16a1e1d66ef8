package runtime

import (
	"strings"
	"testing"

	"github.com/evanw/tslower/internal/test"
)

func TestSortHelpers(t *testing.T) {
	sorted := SortHelpers([]*Helper{Param, Decorate, Param, Metadata})
	test.AssertEqual(t, len(sorted), 3)
	test.AssertEqual(t, sorted[0], Decorate)
	test.AssertEqual(t, sorted[1], Metadata)
	test.AssertEqual(t, sorted[2], Param)
}

func TestHelpersDeclareTheirName(t *testing.T) {
	for _, helper := range []*Helper{Decorate, Metadata, Param} {
		if !strings.HasPrefix(helper.Text, "var "+helper.Name+" = ") {
			t.Fatalf("Helper %s does not declare itself", helper.Name)
		}
	}
}
