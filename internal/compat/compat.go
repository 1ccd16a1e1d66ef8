package compat

import (
	"strings"
)

// Targets are ordered so that earlier releases compare less than later ones
type LanguageTarget int8

const (
	ES3 LanguageTarget = iota
	ES5
	ES2015
	ES2016
	ES2017
	ES2018
	ES2019
	ES2020
	ES2021
	ES2022
	ESNext
)

var targetNames = []string{
	ES3:    "es3",
	ES5:    "es5",
	ES2015: "es2015",
	ES2016: "es2016",
	ES2017: "es2017",
	ES2018: "es2018",
	ES2019: "es2019",
	ES2020: "es2020",
	ES2021: "es2021",
	ES2022: "es2022",
	ESNext: "esnext",
}

func (target LanguageTarget) String() string {
	if target >= 0 && int(target) < len(targetNames) {
		return targetNames[target]
	}
	return "unknown"
}

// Accepts the names used by "tsconfig.json" (case-insensitive, and "es6" is
// an alias for "es2015")
func ParseTarget(text string) (LanguageTarget, bool) {
	text = strings.ToLower(text)
	if text == "es6" {
		return ES2015, true
	}
	for target, name := range targetNames {
		if name == text {
			return LanguageTarget(target), true
		}
	}
	return 0, false
}

type JSFeature uint16

const (
	Arrow JSFeature = 1 << iota
	LetConst
	Class
	Symbol
	TemplateLiteral
	ExponentOperator
	AsyncAwait
	ObjectRestSpread
	BigInt
	ClassField
	ClassStaticBlocks
)

func (features JSFeature) Has(feature JSFeature) bool {
	return (features & feature) != 0
}

// The first target where each feature is available
var jsTable = map[JSFeature]LanguageTarget{
	Arrow:             ES2015,
	LetConst:          ES2015,
	Class:             ES2015,
	Symbol:            ES2015,
	TemplateLiteral:   ES2015,
	ExponentOperator:  ES2016,
	AsyncAwait:        ES2017,
	ObjectRestSpread:  ES2018,
	BigInt:            ES2020,
	ClassField:        ES2022,
	ClassStaticBlocks: ES2022,
}

// Return all features that are not available in the given target
func UnsupportedJSFeatures(target LanguageTarget) (unsupported JSFeature) {
	for feature, introduced := range jsTable {
		if target < introduced {
			unsupported |= feature
		}
	}
	return
}
