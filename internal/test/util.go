package test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		t.Fatal("\n" + Diff(stringB, stringA))
	}
}

// Slices and maps are not comparable with "!=" so they go through testify
func AssertDeepEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	require.Equal(t, expected, observed)
}
