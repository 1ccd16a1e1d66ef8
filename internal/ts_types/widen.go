package ts_types

// GetBaseTypeOfLiteral converts a literal type to its primitive base type.
// Enum types keep their identity and unions are mapped member by member.
func GetBaseTypeOfLiteral(t Type) Type {
	switch v := t.(type) {
	case *LiteralType:
		switch v.Value.(type) {
		case string:
			return String
		case float64:
			return Number
		case bool:
			return Boolean
		case BigIntValue:
			return BigInt
		}
	case *UnionType:
		types := make([]Type, len(v.Types))
		for i, member := range v.Types {
			types[i] = GetBaseTypeOfLiteral(member)
		}
		return NewUnionType(types...)
	}
	return t
}

// GetWidenedType is the type given to a binding whose type was inferred.
// Literals are generalized, including inside object members and type
// arguments. Null checking is strict so "null" and "undefined" are kept.
func GetWidenedType(t Type) Type {
	switch v := t.(type) {
	case *LiteralType:
		return GetBaseTypeOfLiteral(v)
	case *UnionType:
		types := make([]Type, len(v.Types))
		for i, member := range v.Types {
			types[i] = GetWidenedType(member)
		}
		return NewUnionType(types...)
	case *ObjectType:
		if v.Name != "" {
			return v
		}
		return widenObject(v)
	case *TypeReference:
		args := make([]Type, len(v.TypeArguments))
		for i, arg := range v.TypeArguments {
			args[i] = GetWidenedType(arg)
		}
		return NewTypeReference(v.Target, args...)
	}
	return t
}

// Object literal members are widened too, so "{ a: 1 }" becomes
// "{ a: number; }"
func widenObject(o *ObjectType) *ObjectType {
	result := &ObjectType{
		CallSignatures:      o.CallSignatures,
		ConstructSignatures: o.ConstructSignatures,
		StringIndex:         o.StringIndex,
		NumberIndex:         o.NumberIndex,
	}
	for _, p := range o.Properties {
		result.Properties = append(result.Properties, &Property{
			Name:       p.Name,
			Type:       GetWidenedType(p.Type),
			IsOptional: p.IsOptional,
		})
	}
	return result
}
