package ts_types

import (
	"strings"
	"sync"
)

// A generic interface such as "Array<T>". The body refers to the type
// parameters directly.
type GenericType struct {
	Name           string
	TypeParameters []*TypeParameter
	Body           *ObjectType

	// Resolved members for each distinct list of type arguments. Sharing
	// them lets the relation recognize a recursive reference such as the
	// return type of "Array<T>.concat" as the pair it is already comparing.
	instantiationsMutex sync.Mutex
	instantiations      map[string]*ObjectType
}

// An instantiation of a generic type such as "Array<number>"
type TypeReference struct {
	Target        *GenericType
	TypeArguments []Type

	// Cached result of substitution
	resolved *ObjectType
}

func (r *TypeReference) typeNode() {}

func NewTypeReference(target *GenericType, args ...Type) *TypeReference {
	return &TypeReference{Target: target, TypeArguments: args}
}

func (r *TypeReference) String() string {
	if r.Target == ArrayGeneric && len(r.TypeArguments) == 1 {
		elem := r.TypeArguments[0].String()
		switch t := r.TypeArguments[0].(type) {
		case *UnionType:
			elem = "(" + elem + ")"
		case *ObjectType:
			if t.Name == "" && t.isPureFunction() {
				elem = "(" + elem + ")"
			}
		}
		return elem + "[]"
	}
	args := make([]string, len(r.TypeArguments))
	for i, arg := range r.TypeArguments {
		args[i] = arg.String()
	}
	return r.Target.Name + "<" + strings.Join(args, ", ") + ">"
}

func (r *TypeReference) Equals(other Type) bool {
	o, ok := other.(*TypeReference)
	if !ok || r.Target != o.Target || len(r.TypeArguments) != len(o.TypeArguments) {
		return false
	}
	for i, arg := range r.TypeArguments {
		if !arg.Equals(o.TypeArguments[i]) {
			return false
		}
	}
	return true
}

// Returns the members of this instantiation
func (r *TypeReference) Resolve() *ObjectType {
	if r.resolved != nil {
		return r.resolved
	}
	g := r.Target
	key, ok := typeArgumentsKey(r.TypeArguments)
	if !ok {
		r.resolved = r.instantiate()
		return r.resolved
	}

	g.instantiationsMutex.Lock()
	resolved, found := g.instantiations[key]
	if !found {
		resolved = r.instantiate()
		if g.instantiations == nil {
			g.instantiations = make(map[string]*ObjectType)
		}
		g.instantiations[key] = resolved
	}
	g.instantiationsMutex.Unlock()
	r.resolved = resolved
	return resolved
}

func (r *TypeReference) instantiate() *ObjectType {
	g := r.Target
	mapping := make(map[*TypeParameter]Type, len(g.TypeParameters))
	for i, tp := range g.TypeParameters {
		if i < len(r.TypeArguments) {
			mapping[tp] = r.TypeArguments[i]
		} else {
			mapping[tp] = Any
		}
	}
	resolved := instantiateObject(g.Body, mapping)
	resolved.Name = r.String()
	resolved.instantiationOf = g
	return resolved
}

// Only arguments built from primitives, literals and the builtin generics
// have a key. Types that compare by identity would keep the shared table
// growing for as long as the generic lives.
func typeArgumentsKey(args []Type) (string, bool) {
	sb := strings.Builder{}
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		if !writeTypeKey(&sb, arg) {
			return "", false
		}
	}
	return sb.String(), true
}

func writeTypeKey(sb *strings.Builder, t Type) bool {
	switch v := t.(type) {
	case *Primitive:
		sb.WriteString(v.Name)
		return true

	case *LiteralType:
		sb.WriteString(v.String())
		return true

	case *UnionType:
		sb.WriteByte('(')
		for i, member := range v.Types {
			if i > 0 {
				sb.WriteByte('|')
			}
			if !writeTypeKey(sb, member) {
				return false
			}
		}
		sb.WriteByte(')')
		return true

	case *TypeReference:
		if v.Target != ArrayGeneric && v.Target != PromiseGeneric {
			return false
		}
		key, ok := typeArgumentsKey(v.TypeArguments)
		if !ok {
			return false
		}
		sb.WriteString(v.Target.Name)
		sb.WriteByte('<')
		sb.WriteString(key)
		sb.WriteByte('>')
		return true
	}
	return false
}

// Instantiate replaces type parameters with the types they map to
func Instantiate(t Type, mapping map[*TypeParameter]Type) Type {
	switch v := t.(type) {
	case *TypeParameter:
		if replacement, ok := mapping[v]; ok {
			return replacement
		}
		return v

	case *UnionType:
		types := make([]Type, len(v.Types))
		for i, member := range v.Types {
			types[i] = Instantiate(member, mapping)
		}
		return NewUnionType(types...)

	case *TypeReference:
		args := make([]Type, len(v.TypeArguments))
		for i, arg := range v.TypeArguments {
			args[i] = Instantiate(arg, mapping)
		}
		return NewTypeReference(v.Target, args...)

	case *ObjectType:
		if v.Name != "" {
			return v
		}
		return instantiateObject(v, mapping)
	}
	return t
}

func instantiateObject(o *ObjectType, mapping map[*TypeParameter]Type) *ObjectType {
	result := &ObjectType{}
	for _, p := range o.Properties {
		result.Properties = append(result.Properties, &Property{
			Name:       p.Name,
			Type:       Instantiate(p.Type, mapping),
			IsOptional: p.IsOptional,
		})
	}
	for _, sig := range o.CallSignatures {
		result.CallSignatures = append(result.CallSignatures, InstantiateSignature(sig, mapping))
	}
	for _, sig := range o.ConstructSignatures {
		result.ConstructSignatures = append(result.ConstructSignatures, InstantiateSignature(sig, mapping))
	}
	if o.StringIndex != nil {
		result.StringIndex = Instantiate(o.StringIndex, mapping)
	}
	if o.NumberIndex != nil {
		result.NumberIndex = Instantiate(o.NumberIndex, mapping)
	}
	return result
}

// The signature's own type parameters are left alone
func InstantiateSignature(sig *Signature, mapping map[*TypeParameter]Type) *Signature {
	result := &Signature{TypeParameters: sig.TypeParameters, Return: Instantiate(sig.Return, mapping)}
	for _, param := range sig.Params {
		result.Params = append(result.Params, &Param{
			Name:       param.Name,
			Type:       Instantiate(param.Type, mapping),
			IsOptional: param.IsOptional,
			IsRest:     param.IsRest,
		})
	}
	return result
}
