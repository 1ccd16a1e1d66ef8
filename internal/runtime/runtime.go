package runtime

import (
	"sort"
)

// A helper is a small function that lowered code calls at run time. Each one
// is emitted at most once at the top of the file that needs it.
type Helper struct {
	Name string

	// Helpers are emitted in ascending priority order
	Priority int

	Text string
}

var Decorate = &Helper{
	Name:     "__decorate",
	Priority: 2,
	Text: `var __decorate = (this && this.__decorate) || function (decorators, target, key, desc) {
    var c = arguments.length, r = c < 3 ? target : desc === null ? desc = Object.getOwnPropertyDescriptor(target, key) : desc, d;
    if (typeof Reflect === "object" && typeof Reflect.decorate === "function") r = Reflect.decorate(decorators, target, key, desc);
    else for (var i = decorators.length - 1; i >= 0; i--) if (d = decorators[i]) r = (c < 3 ? d(r) : c > 3 ? d(target, key, r) : d(target, key)) || r;
    return c > 3 && r && Object.defineProperty(target, key, r), r;
};`,
}

var Metadata = &Helper{
	Name:     "__metadata",
	Priority: 3,
	Text: `var __metadata = (this && this.__metadata) || function (k, v) {
    if (typeof Reflect === "object" && typeof Reflect.metadata === "function") return Reflect.metadata(k, v);
};`,
}

var Param = &Helper{
	Name:     "__param",
	Priority: 4,
	Text: `var __param = (this && this.__param) || function (paramIndex, decorator) {
    return function (target, key) { decorator(target, key, paramIndex); }
};`,
}

// Returns the helpers in emit order without duplicates
func SortHelpers(helpers []*Helper) []*Helper {
	seen := make(map[*Helper]bool)
	var result []*Helper
	for _, helper := range helpers {
		if !seen[helper] {
			seen[helper] = true
			result = append(result, helper)
		}
	}
	sort.SliceStable(result, func(i int, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result
}
