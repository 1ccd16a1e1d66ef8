package ts_types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionConstruction(t *testing.T) {
	assert.Equal(t, Never, NewUnionType())
	assert.Equal(t, Number, NewUnionType(Number, Number, Never))
	assert.Equal(t, Any, NewUnionType(String, Any, Number))
	assert.Equal(t, "string | number", NewUnionType(Number, String).String())
	assert.Equal(t, "string | number | undefined", NewUnionType(Undefined, NewUnionType(Number, String)).String())
	assert.Equal(t, Boolean, NewUnionType(True, False))
	assert.Equal(t, "number | boolean", NewUnionType(True, Number, False).String())

	assert.True(t, NewUnionType(String, Number).Equals(NewUnionType(Number, String)))
	assert.False(t, NewUnionType(String, Number).Equals(NewUnionType(Number, Boolean)))
}

func TestSubtypeReduction(t *testing.T) {
	assert.Equal(t, Number, NewUnionTypeWithSubtypeReduction(NewNumberLiteral(1), Number))
	assert.Equal(t, "string | number", NewUnionTypeWithSubtypeReduction(NewStringLiteral("a"), String, Number).String())

	narrow := NewObjectType(&Property{Name: "a", Type: Number})
	wide := NewObjectType(&Property{Name: "a", Type: Number}, &Property{Name: "b", Type: String})
	assert.Equal(t, narrow, NewUnionTypeWithSubtypeReduction(wide, narrow))

	// Null checking is strict
	assert.Equal(t, "number | null", NewUnionTypeWithSubtypeReduction(Null, Number).String())
}

func TestWidening(t *testing.T) {
	assert.Equal(t, Number, GetWidenedType(NewNumberLiteral(3)))
	assert.Equal(t, String, GetBaseTypeOfLiteral(NewStringLiteral("x")))
	assert.Equal(t, "string | number", GetWidenedType(NewUnionType(NewNumberLiteral(1), NewStringLiteral("x"))).String())

	obj := NewObjectType(&Property{Name: "a", Type: NewNumberLiteral(1)})
	assert.Equal(t, "{ a: number; }", GetWidenedType(obj).String())
	assert.Equal(t, "number[]", GetWidenedType(CreateArrayType(NewNumberLiteral(1))).String())
}

func TestTypeToString(t *testing.T) {
	foo := fn(Void)
	obj := NewObjectType(&Property{Name: "foo", Type: foo}, &Property{Name: "bar", Type: Void})
	assert.Equal(t, "{ bar: void; foo: () => void; }", obj.String())

	call := fn(Void, param("arg0", Number), optional("arg1", String))
	assert.Equal(t, "(arg0: number, arg1?: string) => void", call.String())
	assert.Equal(t, "((arg0: number, arg1?: string) => void)[]", CreateArrayType(call).String())
	assert.Equal(t, "(string | number)[]", CreateArrayType(NewUnionType(String, Number)).String())
	assert.Equal(t, "Promise<any>", CreatePromiseType(Any).String())
	assert.Equal(t, "{}", NewObjectType().String())
	assert.Equal(t, "{ \"a-b\": number; }", NewObjectType(&Property{Name: "a-b", Type: Number}).String())
	assert.Equal(t, "\"x\"", NewStringLiteral("x").String())
}

func TestAssignability(t *testing.T) {
	assert.True(t, IsAssignable(NewNumberLiteral(1), Number))
	assert.False(t, IsAssignable(Number, NewNumberLiteral(1)))
	assert.True(t, IsAssignable(Number, NewUnionType(String, Number)))
	assert.False(t, IsAssignable(NewUnionType(String, Number), String))
	assert.True(t, IsAssignable(Undefined, Void))
	assert.False(t, IsAssignable(Null, Number))
	assert.True(t, IsAssignable(Any, Number))
	assert.True(t, IsAssignable(Number, Unknown))
	assert.True(t, IsAssignable(&EnumType{Name: "E"}, Number))
	assert.False(t, IsAssignable(&EnumType{Name: "E"}, String))

	// Primitives have apparent members
	lengthOnly := NewObjectType(&Property{Name: "length", Type: Number})
	assert.True(t, IsAssignable(String, lengthOnly))
	assert.True(t, IsAssignable(CreateArrayType(String), lengthOnly))
	assert.False(t, IsAssignable(Number, lengthOnly))

	// A function returning "void" accepts any return type
	pushType := PropertyOfType(CreateArrayType(Any), "push")
	require.NotNil(t, pushType)
	assert.True(t, IsAssignable(pushType, fn(Void, param("arg0", Number))))
	assert.False(t, IsAssignable(pushType, fn(String, param("arg0", Number))))

	// Callers may pass fewer arguments than parameters but not more required ones
	assert.True(t, IsAssignable(fn(Void, param("a", Number)), fn(Void, param("a", Number), param("b", Number))))
	assert.False(t, IsAssignable(fn(Void, param("a", Number), param("b", Number)), fn(Void, param("a", Number))))
}

func TestRecursiveAssignability(t *testing.T) {
	a := &ObjectType{Name: "A"}
	a.Properties = []*Property{{Name: "self", Type: a}}
	b := &ObjectType{Name: "B"}
	b.Properties = []*Property{{Name: "self", Type: b}}
	assert.True(t, IsAssignable(a, b))
}

func finishesWithin(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("Did not finish within %v", timeout)
	}
}

// "Array<T>.concat" returns "Array<T>", so comparing against the builtins
// keeps reaching the instantiation that is already being compared
func TestRecursiveBuiltinAssignability(t *testing.T) {
	finishesWithin(t, 10*time.Second, func() {
		assert.False(t, IsAssignable(String, CreateArrayType(Any)))
		assert.False(t, IsAssignable(String, CreatePromiseType(Any)))
		assert.False(t, IsAssignable(CreateArrayType(String), CreatePromiseType(Any)))
		assert.True(t, IsAssignable(CreateArrayType(NewStringLiteral("a")), CreateArrayType(String)))
		assert.Equal(t, "string | any[]", NewUnionTypeWithSubtypeReduction(String, CreateArrayType(Any)).String())

		// Object type arguments get a new instantiation for every reference
		object := NewObjectType(&Property{Name: "a", Type: Number})
		assert.False(t, IsAssignable(String, CreateArrayType(object)))
		assert.True(t, IsAssignable(CreateArrayType(object), NewObjectType(&Property{Name: "length", Type: Number})))
	})
}

func TestInstantiationsAreShared(t *testing.T) {
	assert.Same(t, CreateArrayType(Number).Resolve(), CreateArrayType(Number).Resolve())
	assert.NotSame(t, CreateArrayType(Number).Resolve(), CreateArrayType(String).Resolve())
	assert.Same(t, CreateArrayType(NewUnionType(String, Number)).Resolve(), CreateArrayType(NewUnionType(Number, String)).Resolve())

	// Type parameters with the same name are still different types
	t1 := &TypeParameter{Name: "T"}
	t2 := &TypeParameter{Name: "T"}
	assert.NotSame(t, CreateArrayType(t1).Resolve(), CreateArrayType(t2).Resolve())
}

func TestBuiltins(t *testing.T) {
	arrayOfNumber := CreateArrayType(Number)
	assert.Equal(t, Number, ElementTypeOfArray(arrayOfNumber))
	assert.Nil(t, ElementTypeOfArray(Number))
	assert.True(t, IsArrayType(arrayOfNumber))

	pop := PropertyOfType(arrayOfNumber, "pop")
	require.NotNil(t, pop)
	assert.Equal(t, "() => number | undefined", pop.String())
	assert.Equal(t, Number, PropertyOfType(String, "length"))
	assert.Equal(t, Number, PropertyOfType(NewStringLiteral("x"), "length"))
	assert.Nil(t, PropertyOfType(Number, "length"))
	assert.Len(t, CallSignaturesOfType(PropertyOfType(Number, "toFixed")), 1)

	mapMethod := ArrayGeneric.Body.Property("map")
	require.NotNil(t, mapMethod)
	assert.Len(t, CallSignaturesOfType(mapMethod.Type)[0].TypeParameters, 1)
	assert.Len(t, UsageBuiltins(), 4)
}

func TestInstantiate(t *testing.T) {
	tp := &TypeParameter{Name: "T"}
	sig := &Signature{Params: []*Param{param("x", tp)}, Return: CreateArrayType(tp)}
	result := InstantiateSignature(sig, map[*TypeParameter]Type{tp: String})
	assert.Equal(t, "(x: string)", result.String())
	assert.Equal(t, "string[]", result.Return.String())
	assert.Equal(t, "(x: T)", sig.String())
}
