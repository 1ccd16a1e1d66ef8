package ts_types

import (
	"sort"
	"strings"
)

// UnionType holds two or more distinct constituents in canonical order.
// Always build unions with NewUnionType so that this invariant holds.
type UnionType struct {
	Types []Type
}

func (u *UnionType) typeNode() {}

func (u *UnionType) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
		if o, ok := t.(*ObjectType); ok && o.Name == "" && o.isPureFunction() {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	return strings.Join(parts, " | ")
}

// Constituents are kept in canonical order so equality is positional
func (u *UnionType) Equals(other Type) bool {
	o, ok := other.(*UnionType)
	if !ok || len(u.Types) != len(o.Types) {
		return false
	}
	for i, t := range u.Types {
		if !t.Equals(o.Types[i]) {
			return false
		}
	}
	return true
}

func (u *UnionType) Contains(t Type) bool {
	for _, member := range u.Types {
		if member.Equals(t) {
			return true
		}
	}
	return false
}

// NewUnionType flattens nested unions and removes duplicates. "any" and
// "unknown" absorb everything else and "never" disappears. A union of
// "true" and "false" is written as "boolean".
func NewUnionType(types ...Type) Type {
	members := make([]Type, 0, len(types))
	hasAny, hasUnknown := false, false

	var collect func(t Type)
	collect = func(t Type) {
		switch t {
		case nil, Never:
			return
		case Any:
			hasAny = true
			return
		case Unknown:
			hasUnknown = true
			return
		}
		if union, ok := t.(*UnionType); ok {
			for _, member := range union.Types {
				collect(member)
			}
			return
		}
		for _, existing := range members {
			if existing.Equals(t) {
				return
			}
		}
		members = append(members, t)
	}
	for _, t := range types {
		collect(t)
	}

	switch {
	case hasAny:
		return Any
	case hasUnknown:
		return Unknown
	}

	members = collapseBooleans(members)
	switch len(members) {
	case 0:
		return Never
	case 1:
		return members[0]
	}
	sortTypes(members)
	return &UnionType{Types: members}
}

// NewUnionTypeWithSubtypeReduction also drops every constituent that is a
// strict subtype of another constituent, so "1 | number" becomes "number".
func NewUnionTypeWithSubtypeReduction(types ...Type) Type {
	union, ok := NewUnionType(types...).(*UnionType)
	if !ok {
		return NewUnionType(types...)
	}

	var kept []Type
	for i, source := range union.Types {
		isSubtype := false
		for j, target := range union.Types {
			if i == j || !IsAssignable(source, target) {
				continue
			}

			// Mutually assignable constituents keep the first one
			if IsAssignable(target, source) && i < j {
				continue
			}
			isSubtype = true
			break
		}
		if !isSubtype {
			kept = append(kept, source)
		}
	}
	return NewUnionType(kept...)
}

func collapseBooleans(members []Type) []Type {
	hasTrue, hasFalse := false, false
	for _, t := range members {
		switch t {
		case True:
			hasTrue = true
		case False:
			hasFalse = true
		}
	}
	if !hasTrue || !hasFalse {
		return members
	}
	result := members[:0]
	added := false
	for _, t := range members {
		if t == True || t == False || t == Boolean {
			if !added {
				result = append(result, Boolean)
				added = true
			}
			continue
		}
		result = append(result, t)
	}
	return result
}

func typeRank(t Type) int {
	switch v := t.(type) {
	case *Primitive:
		return v.rank
	case *LiteralType:
		switch v.Value.(type) {
		case string:
			return 10
		case float64:
			return 11
		case BigIntValue:
			return 12
		}
		return 13
	case *EnumType:
		return 20
	case *TypeParameter:
		return 25
	}
	return 30
}

func sortTypes(types []Type) {
	sort.SliceStable(types, func(i int, j int) bool {
		ri, rj := typeRank(types[i]), typeRank(types[j])
		if ri != rj {
			return ri < rj
		}
		return types[i].String() < types[j].String()
	})
}

// Returns the constituents of a union, or the type itself otherwise
func UnionMembers(t Type) []Type {
	if u, ok := t.(*UnionType); ok {
		return u.Types
	}
	return []Type{t}
}
