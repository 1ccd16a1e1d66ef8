package ts_types

////////////////////////////////////////////////////////////////////////////////
// Signature shorthands used to describe the builtin library types

func fn(ret Type, params ...*Param) *ObjectType {
	return NewFunctionType(&Signature{Params: params, Return: ret})
}

func method(name string, ret Type, params ...*Param) *Property {
	return &Property{Name: name, Type: fn(ret, params...)}
}

func genericMethod(name string, typeParams []*TypeParameter, ret Type, params ...*Param) *Property {
	return &Property{Name: name, Type: NewFunctionType(&Signature{TypeParameters: typeParams, Params: params, Return: ret})}
}

func param(name string, t Type) *Param {
	return &Param{Name: name, Type: t}
}

func optional(name string, t Type) *Param {
	return &Param{Name: name, Type: t, IsOptional: true}
}

func rest(name string, t Type) *Param {
	return &Param{Name: name, Type: t, IsRest: true}
}

// Unions built during package initialization skip NewUnionType, which
// sorts by printed text
func orUndefined(t Type) Type {
	return &UnionType{Types: []Type{t, Undefined}}
}

////////////////////////////////////////////////////////////////////////////////
// Builtin library types

var (
	ArrayGeneric   = &GenericType{Name: "Array"}
	PromiseGeneric = &GenericType{Name: "Promise"}

	StringApparent  = newStringApparent()
	NumberApparent  = newNumberApparent()
	BooleanApparent = NewObjectType(method("valueOf", Boolean))
	BigIntApparent  = NewObjectType(method("toString", String, optional("radix", Number)), method("valueOf", BigInt))
)

func init() {
	initArrayGeneric(ArrayGeneric)
	initPromiseGeneric(PromiseGeneric)
}

func newStringApparent() *ObjectType {
	o := NewObjectType(
		&Property{Name: "length", Type: Number},
		method("charAt", String, param("pos", Number)),
		method("charCodeAt", Number, param("index", Number)),
		method("concat", String, rest("strings", NewTypeReference(ArrayGeneric, String))),
		method("indexOf", Number, param("searchString", String), optional("position", Number)),
		method("slice", String, optional("start", Number), optional("end", Number)),
		method("substring", String, param("start", Number), optional("end", Number)),
		method("toLowerCase", String),
		method("toUpperCase", String),
		method("trim", String),
		method("split", NewTypeReference(ArrayGeneric, String), param("separator", String), optional("limit", Number)),
		method("replace", String, param("searchValue", String), param("replaceValue", String)),
		method("includes", Boolean, param("searchString", String), optional("position", Number)),
		method("startsWith", Boolean, param("searchString", String), optional("position", Number)),
		method("endsWith", Boolean, param("searchString", String), optional("endPosition", Number)),
		method("toString", String),
		method("valueOf", String),
	)
	o.NumberIndex = String
	o.Name = "String"
	return o
}

func newNumberApparent() *ObjectType {
	o := NewObjectType(
		method("toFixed", String, optional("fractionDigits", Number)),
		method("toString", String, optional("radix", Number)),
		method("toPrecision", String, optional("precision", Number)),
		method("toExponential", String, optional("fractionDigits", Number)),
		method("valueOf", Number),
	)
	o.Name = "Number"
	return o
}

func initArrayGeneric(g *GenericType) {
	t := &TypeParameter{Name: "T"}
	u := &TypeParameter{Name: "U"}
	self := NewTypeReference(g, t)
	callback := func(ret Type) *ObjectType {
		return fn(ret, param("value", t), param("index", Number), param("array", self))
	}

	g.TypeParameters = []*TypeParameter{t}
	g.Body = NewObjectType(
		&Property{Name: "length", Type: Number},
		method("push", Number, rest("items", self)),
		method("pop", orUndefined(t)),
		method("shift", orUndefined(t)),
		method("unshift", Number, rest("items", self)),
		method("concat", self, rest("items", self)),
		method("join", String, optional("separator", String)),
		method("toString", String),
		method("slice", self, optional("start", Number), optional("end", Number)),
		method("indexOf", Number, param("searchElement", t), optional("fromIndex", Number)),
		method("includes", Boolean, param("searchElement", t), optional("fromIndex", Number)),
		method("forEach", Void, param("callbackfn", callback(Void))),
		method("filter", self, param("predicate", callback(Unknown))),
		method("find", orUndefined(t), param("predicate", callback(Unknown))),
		method("some", Boolean, param("predicate", callback(Unknown))),
		method("every", Boolean, param("predicate", callback(Unknown))),
		method("reverse", self),
		method("sort", self, optional("compareFn", fn(Number, param("a", t), param("b", t)))),
		method("splice", self, param("start", Number), optional("deleteCount", Number), rest("items", self)),
		genericMethod("map", []*TypeParameter{u}, NewTypeReference(g, u), param("callbackfn", callback(u))),
	)
	g.Body.NumberIndex = t
}

func initPromiseGeneric(g *GenericType) {
	t := &TypeParameter{Name: "T"}
	u := &TypeParameter{Name: "U"}
	reason := fn(u, param("reason", Any))

	g.TypeParameters = []*TypeParameter{t}
	g.Body = NewObjectType(
		genericMethod("then", []*TypeParameter{u}, NewTypeReference(g, u),
			optional("onfulfilled", fn(u, param("value", t))), optional("onrejected", reason)),
		genericMethod("catch", []*TypeParameter{u}, NewTypeReference(g, &UnionType{Types: []Type{t, u}}),
			optional("onrejected", reason)),
		method("finally", NewTypeReference(g, t), optional("onfinally", fn(Void))),
	)
}

func CreateArrayType(elem Type) *TypeReference {
	return NewTypeReference(ArrayGeneric, elem)
}

func CreatePromiseType(value Type) *TypeReference {
	return NewTypeReference(PromiseGeneric, value)
}

func IsArrayType(t Type) bool {
	r, ok := t.(*TypeReference)
	return ok && r.Target == ArrayGeneric
}

// Returns the element type of an array type, or nil
func ElementTypeOfArray(t Type) Type {
	if r, ok := t.(*TypeReference); ok && r.Target == ArrayGeneric && len(r.TypeArguments) == 1 {
		return r.TypeArguments[0]
	}
	return nil
}

// Returns the object type whose members are visible on a value of this type,
// or nil if the type has no members
func ApparentType(t Type) *ObjectType {
	switch v := t.(type) {
	case *ObjectType:
		return v
	case *TypeReference:
		return v.Resolve()
	case *Primitive:
		switch v {
		case String:
			return StringApparent
		case Number:
			return NumberApparent
		case Boolean:
			return BooleanApparent
		case BigInt:
			return BigIntApparent
		}
	case *LiteralType:
		return ApparentType(GetBaseTypeOfLiteral(v))
	case *EnumType:
		if v.IsStringEnum {
			return StringApparent
		}
		return NumberApparent
	case *TypeParameter:
		if v.Constraint != nil {
			return ApparentType(v.Constraint)
		}
	}
	return nil
}

// Returns the type of a named property, or nil if there is none
func PropertyOfType(t Type, name string) Type {
	if o := ApparentType(t); o != nil {
		if p := o.Property(name); p != nil {
			return p.Type
		}
	}
	return nil
}

func CallSignaturesOfType(t Type) []*Signature {
	if o := ApparentType(t); o != nil {
		return o.CallSignatures
	}
	return nil
}

func ConstructSignaturesOfType(t Type) []*Signature {
	if o := ApparentType(t); o != nil {
		return o.ConstructSignatures
	}
	return nil
}

// The builtin types that a set of used properties is matched against when
// inferring a named type from usage. The generic ones are instantiated with
// "any".
func UsageBuiltins() []Type {
	return []Type{String, Number, CreateArrayType(Any), CreatePromiseType(Any)}
}
