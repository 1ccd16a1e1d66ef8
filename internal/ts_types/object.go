package ts_types

import (
	"sort"
	"strings"
)

type Param struct {
	Name       string
	Type       Type
	IsOptional bool

	// A rest parameter has an array type
	IsRest bool
}

type Signature struct {
	TypeParameters []*TypeParameter
	Params         []*Param
	Return         Type
}

func (sig *Signature) String() string {
	sb := strings.Builder{}
	if len(sig.TypeParameters) > 0 {
		sb.WriteByte('<')
		for i, tp := range sig.TypeParameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tp.Name)
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	for i, param := range sig.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if param.IsRest {
			sb.WriteString("...")
		}
		sb.WriteString(param.Name)
		if param.IsOptional {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		sb.WriteString(param.Type.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (sig *Signature) Equals(other *Signature) bool {
	if len(sig.Params) != len(other.Params) || len(sig.TypeParameters) != len(other.TypeParameters) {
		return false
	}
	for i, param := range sig.Params {
		o := other.Params[i]
		if param.IsOptional != o.IsOptional || param.IsRest != o.IsRest || !param.Type.Equals(o.Type) {
			return false
		}
	}
	return sig.Return.Equals(other.Return)
}

// Returns the number of arguments a call must pass
func (sig *Signature) MinArgumentCount() int {
	count := 0
	for i, param := range sig.Params {
		if !param.IsOptional && !param.IsRest {
			count = i + 1
		}
	}
	return count
}

func (sig *Signature) HasRestParameter() bool {
	return len(sig.Params) > 0 && sig.Params[len(sig.Params)-1].IsRest
}

// Returns the type a call argument at "index" is checked against, or nil
// if the signature does not accept that many arguments
func (sig *Signature) ParamTypeAt(index int) Type {
	if index < len(sig.Params) {
		if param := sig.Params[index]; !param.IsRest {
			return param.Type
		}
	}
	if sig.HasRestParameter() {
		rest := sig.Params[len(sig.Params)-1].Type
		if elem := ElementTypeOfArray(rest); elem != nil {
			return elem
		}
		return Any
	}
	return nil
}

type Property struct {
	Name       string
	Type       Type
	IsOptional bool
}

// A structural object type. Named object types (classes and interfaces)
// compare by identity and anonymous object types compare structurally.
type ObjectType struct {
	Name string

	// Sorted by name
	Properties []*Property

	CallSignatures      []*Signature
	ConstructSignatures []*Signature

	StringIndex Type
	NumberIndex Type

	// Set on the members of a generic instantiation such as "Array<number>"
	instantiationOf *GenericType
}

func (o *ObjectType) typeNode() {}

func NewObjectType(properties ...*Property) *ObjectType {
	o := &ObjectType{Properties: properties}
	o.SortProperties()
	return o
}

func NewFunctionType(sig *Signature) *ObjectType {
	return &ObjectType{CallSignatures: []*Signature{sig}}
}

func (o *ObjectType) SortProperties() {
	sort.SliceStable(o.Properties, func(i int, j int) bool {
		return o.Properties[i].Name < o.Properties[j].Name
	})
}

func (o *ObjectType) Property(name string) *Property {
	for _, p := range o.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// A "pure function" is an object type with exactly one call signature and
// nothing else. These print as arrow function types.
func (o *ObjectType) isPureFunction() bool {
	return len(o.Properties) == 0 && len(o.CallSignatures) == 1 && len(o.ConstructSignatures) == 0 &&
		o.StringIndex == nil && o.NumberIndex == nil
}

func (o *ObjectType) String() string {
	if o.Name != "" {
		return o.Name
	}
	if o.isPureFunction() {
		sig := o.CallSignatures[0]
		return sig.String() + " => " + sig.Return.String()
	}

	var parts []string
	for _, sig := range o.CallSignatures {
		parts = append(parts, sig.String()+": "+sig.Return.String())
	}
	for _, sig := range o.ConstructSignatures {
		parts = append(parts, "new "+sig.String()+": "+sig.Return.String())
	}
	if o.StringIndex != nil {
		parts = append(parts, "[x: string]: "+o.StringIndex.String())
	}
	if o.NumberIndex != nil {
		parts = append(parts, "[x: number]: "+o.NumberIndex.String())
	}
	for _, p := range o.Properties {
		optional := ""
		if p.IsOptional {
			optional = "?"
		}
		parts = append(parts, propertyNameText(p.Name)+optional+": "+p.Type.String())
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, "; ") + "; }"
}

func propertyNameText(name string) string {
	for i, c := range name {
		if !(c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9')) {
			return "\"" + name + "\""
		}
	}
	if name == "" {
		return "\"\""
	}
	return name
}

func (o *ObjectType) Equals(other Type) bool {
	otherObject, ok := other.(*ObjectType)
	if !ok {
		return false
	}
	if o == otherObject {
		return true
	}
	if o.Name != "" || otherObject.Name != "" {
		return false
	}
	if len(o.Properties) != len(otherObject.Properties) ||
		len(o.CallSignatures) != len(otherObject.CallSignatures) ||
		len(o.ConstructSignatures) != len(otherObject.ConstructSignatures) ||
		!equalOrBothNil(o.StringIndex, otherObject.StringIndex) ||
		!equalOrBothNil(o.NumberIndex, otherObject.NumberIndex) {
		return false
	}
	for i, p := range o.Properties {
		q := otherObject.Properties[i]
		if p.Name != q.Name || p.IsOptional != q.IsOptional || !p.Type.Equals(q.Type) {
			return false
		}
	}
	for i, sig := range o.CallSignatures {
		if !sig.Equals(otherObject.CallSignatures[i]) {
			return false
		}
	}
	for i, sig := range o.ConstructSignatures {
		if !sig.Equals(otherObject.ConstructSignatures[i]) {
			return false
		}
	}
	return true
}

func equalOrBothNil(a Type, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
