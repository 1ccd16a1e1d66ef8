package test

import "github.com/pmezard/go-difflib/difflib"

// Returns a unified diff from "expected" to "observed", or an empty string
// if they are the same
func Diff(expected string, observed string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(observed),
		FromFile: "expected",
		ToFile:   "observed",
		Context:  3,
	})
	if err != nil {
		panic(err)
	}
	return diff
}
