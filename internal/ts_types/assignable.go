package ts_types

// Both sides are apparent types. Instantiations of generics are shared
// (see "Resolve") so pointer identity finds recursive references.
type typePair struct {
	source *ObjectType
	target *ObjectType
}

// Generic instantiations nested this deep on the target side are assumed to
// be related, like TypeScript does for deeply nested types
const maxNestedInstantiations = 3

type relation struct {
	// Pairs currently being compared are assumed to be related, which keeps
	// recursive types from looping forever
	inProgress map[typePair]bool

	// Only failures are remembered. A success may have relied on a pair
	// that was assumed to be related at the time.
	unrelated map[typePair]bool

	targetStack []*ObjectType
}

// IsAssignable reports whether a value of type "source" can be assigned to
// a location of type "target". Object types are compared structurally and
// "null" and "undefined" are only assignable to themselves, "void", "any"
// and "unknown".
func IsAssignable(source Type, target Type) bool {
	r := relation{
		inProgress: make(map[typePair]bool),
		unrelated:  make(map[typePair]bool),
	}
	return r.isAssignable(source, target)
}

func (r *relation) isAssignable(source Type, target Type) bool {
	if source == nil || target == nil {
		return false
	}
	if source == target || source.Equals(target) {
		return true
	}

	switch target {
	case Any, Unknown:
		return true
	case Void:
		return source == Undefined
	}
	switch source {
	case Any, Never:
		return true
	case Unknown, Void, Null, Undefined:
		return false
	}

	// Unions on the source side must relate every member. Checking them
	// first means "string | number" is not assignable to "string".
	if u, ok := source.(*UnionType); ok {
		for _, member := range u.Types {
			if !r.isAssignable(member, target) {
				return false
			}
		}
		return true
	}
	if u, ok := target.(*UnionType); ok {
		for _, member := range u.Types {
			if r.isAssignable(source, member) {
				return true
			}
		}
		return false
	}

	switch t := target.(type) {
	case *Primitive:
		if t == NonPrimitive {
			switch source.(type) {
			case *ObjectType, *TypeReference:
				return true
			}
			return false
		}
		switch s := source.(type) {
		case *LiteralType:
			return GetBaseTypeOfLiteral(s) == t
		case *EnumType:
			if s.IsStringEnum {
				return t == String
			}
			return t == Number
		case *TypeParameter:
			return s.Constraint != nil && r.isAssignable(s.Constraint, t)
		}
		return false

	case *LiteralType, *EnumType:
		if s, ok := source.(*TypeParameter); ok {
			return s.Constraint != nil && r.isAssignable(s.Constraint, t)
		}
		return false

	case *TypeParameter:
		return false

	case *TypeReference:
		if s, ok := source.(*TypeReference); ok && s.Target == t.Target {
			for i, arg := range s.TypeArguments {
				if i >= len(t.TypeArguments) || !r.isAssignable(arg, t.TypeArguments[i]) {
					return false
				}
			}
			return true
		}
		return r.isStructurallyAssignable(source, t.Resolve())

	case *ObjectType:
		return r.isStructurallyAssignable(source, t)
	}
	return false
}

func (r *relation) isStructurallyAssignable(source Type, target *ObjectType) bool {
	if s, ok := source.(*TypeParameter); ok {
		if s.Constraint == nil {
			return false
		}
		source = s.Constraint
	}
	apparent := ApparentType(source)
	if apparent == nil {
		return false
	}

	pair := typePair{apparent, target}
	if r.inProgress[pair] || r.isDeeplyNested(target) {
		return true
	}
	if r.unrelated[pair] {
		return false
	}

	r.inProgress[pair] = true
	r.targetStack = append(r.targetStack, target)
	related := r.structuredTypeRelatedTo(apparent, target)
	r.targetStack = r.targetStack[:len(r.targetStack)-1]
	delete(r.inProgress, pair)

	if !related {
		r.unrelated[pair] = true
	}
	return related
}

func (r *relation) isDeeplyNested(target *ObjectType) bool {
	if target.instantiationOf == nil {
		return false
	}
	count := 0
	for _, t := range r.targetStack {
		if t.instantiationOf == target.instantiationOf {
			count++
			if count >= maxNestedInstantiations {
				return true
			}
		}
	}
	return false
}

func (r *relation) structuredTypeRelatedTo(apparent *ObjectType, target *ObjectType) bool {
	for _, p := range target.Properties {
		sourceProp := apparent.Property(p.Name)
		if sourceProp == nil {
			if p.IsOptional {
				continue
			}
			return false
		}
		if !r.isAssignable(sourceProp.Type, p.Type) {
			return false
		}
	}
	if !r.signaturesRelated(apparent.CallSignatures, target.CallSignatures) ||
		!r.signaturesRelated(apparent.ConstructSignatures, target.ConstructSignatures) {
		return false
	}
	if target.StringIndex != nil && !r.indexRelated(apparent, apparent.StringIndex, target.StringIndex) {
		return false
	}
	if target.NumberIndex != nil {
		sourceIndex := apparent.NumberIndex
		if sourceIndex == nil {
			sourceIndex = apparent.StringIndex
		}
		if !r.indexRelated(apparent, sourceIndex, target.NumberIndex) {
			return false
		}
	}
	return true
}

// An object literal type without an index signature is still assignable to
// one when all of its properties are
func (r *relation) indexRelated(source *ObjectType, sourceIndex Type, targetIndex Type) bool {
	if sourceIndex != nil {
		return r.isAssignable(sourceIndex, targetIndex)
	}
	if source.Name != "" {
		return false
	}
	for _, p := range source.Properties {
		if !r.isAssignable(p.Type, targetIndex) {
			return false
		}
	}
	return true
}

// Every target signature must be matched by some source signature
func (r *relation) signaturesRelated(sources []*Signature, targets []*Signature) bool {
	for _, t := range targets {
		found := false
		for _, s := range sources {
			if r.signatureAssignable(eraseTypeParameters(s), eraseTypeParameters(t)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Parameters are compared bivariantly like methods are
func (r *relation) signatureAssignable(source *Signature, target *Signature) bool {
	targetCount := len(target.Params)
	if !target.HasRestParameter() && source.MinArgumentCount() > targetCount {
		return false
	}

	count := len(target.Params)
	if len(source.Params) > count {
		count = len(source.Params)
	}
	for i := 0; i < count; i++ {
		sourceType := source.ParamTypeAt(i)
		targetType := target.ParamTypeAt(i)
		if sourceType == nil || targetType == nil {
			continue
		}
		if !r.isAssignable(targetType, sourceType) && !r.isAssignable(sourceType, targetType) {
			return false
		}
	}

	if target.Return == Void {
		return true
	}
	return r.isAssignable(source.Return, target.Return)
}

func eraseTypeParameters(sig *Signature) *Signature {
	if len(sig.TypeParameters) == 0 {
		return sig
	}
	mapping := make(map[*TypeParameter]Type, len(sig.TypeParameters))
	for _, tp := range sig.TypeParameters {
		mapping[tp] = Any
	}
	erased := InstantiateSignature(sig, mapping)
	erased.TypeParameters = nil
	return erased
}
