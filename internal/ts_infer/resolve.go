package ts_infer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/ts_types"
)

// Resolve turns the evidence about a binding into a single type
func (in *Inferrer) Resolve(usage *Usage) ts_types.Type {
	return CombineTypes(in.inferTypes(usage))
}

// Returns every type the evidence suggests in no particular order.
// "CombineTypes" decides between them.
func (in *Inferrer) inferTypes(usage *Usage) []ts_types.Type {
	var types []ts_types.Type
	if usage.IsNumber {
		types = append(types, ts_types.Number)
	}
	if usage.IsString {
		types = append(types, ts_types.String)
	}
	if usage.IsNumberOrString {
		types = append(types, stringOrNumber())
	}
	if usage.NumberIndex != nil {
		types = append(types, ts_types.CreateArrayType(in.Resolve(usage.NumberIndex)))
	}
	if usage.hasStructure() {
		types = append(types, in.structuralType(usage))
	}

	candidates := make([]ts_types.Type, len(usage.CandidateTypes))
	for i, t := range usage.CandidateTypes {
		candidates[i] = ts_types.GetBaseTypeOfLiteral(t)
	}
	if len(usage.Calls) > 0 {
		// Something that is both called and compared against other values
		callable := append([]ts_types.Type{in.structuralType(usage)}, candidates...)
		types = append(types, ts_types.NewUnionTypeWithSubtypeReduction(callable...))
	} else {
		types = append(types, candidates...)
	}

	return append(types, in.namedTypesFromProperties(usage)...)
}

func stringOrNumber() ts_types.Type {
	return ts_types.NewUnionType(ts_types.String, ts_types.Number)
}

// An anonymous object type with one member per used property, plus call,
// construct and index signatures for the ways the value was used
func (in *Inferrer) structuralType(usage *Usage) *ts_types.ObjectType {
	result := &ts_types.ObjectType{}
	for _, name := range sortedPropertyNames(usage) {
		result.Properties = append(result.Properties, &ts_types.Property{
			Name: name,
			Type: in.Resolve(usage.Properties[name]),
		})
	}
	if len(usage.Calls) > 0 {
		result.CallSignatures = []*ts_types.Signature{in.signatureFromCalls(usage.Calls)}
	}
	if len(usage.Constructs) > 0 {
		result.ConstructSignatures = []*ts_types.Signature{in.signatureFromCalls(usage.Constructs)}
	}
	if usage.StringIndex != nil {
		result.StringIndex = in.Resolve(usage.StringIndex)
	}
	return result
}

// One signature that accepts every observed call. Parameters that some
// call did not pass are optional.
func (in *Inferrer) signatureFromCalls(calls []CallUsage) *ts_types.Signature {
	length := 0
	for _, call := range calls {
		if len(call.ArgumentTypes) > length {
			length = len(call.ArgumentTypes)
		}
	}

	sig := &ts_types.Signature{}
	for i := 0; i < length; i++ {
		types := make([]ts_types.Type, 0, len(calls))
		isOptional := false
		for _, call := range calls {
			if i < len(call.ArgumentTypes) {
				types = append(types, call.ArgumentTypes[i])
			} else {
				types = append(types, ts_types.Undefined)
				isOptional = true
			}
		}
		sig.Params = append(sig.Params, &ts_types.Param{
			Name:       fmt.Sprintf("arg%d", i),
			Type:       CombineTypes(types),
			IsOptional: isOptional,
		})
	}

	returns := make([]*Usage, len(calls))
	for i, call := range calls {
		returns[i] = call.Return
	}
	sig.Return = in.Resolve(MergeUsages(returns...))
	return sig
}

func (in *Inferrer) functionFromCalls(calls []CallUsage) *ts_types.ObjectType {
	return ts_types.NewFunctionType(in.signatureFromCalls(calls))
}

////////////////////////////////////////////////////////////////////////////////
// Builtin types

// If the used properties are all members of one or two of the builtin types
// then those types are candidates too. More matches than that means the
// evidence doesn't say anything useful.
func (in *Inferrer) namedTypesFromProperties(usage *Usage) []ts_types.Type {
	if len(usage.Properties) == 0 {
		return nil
	}

	var matches []ts_types.Type
	for _, builtin := range ts_types.UsageBuiltins() {
		if in.allPropertiesAreAssignableToUsage(builtin, usage) {
			matches = append(matches, builtin)
		}
	}

	if len(matches) == 0 || len(matches) >= 3 {
		if len(matches) >= 3 {
			names := make([]string, len(matches))
			for i, t := range matches {
				names[i] = t.String()
			}
			in.debug(logger.MsgID_Infer_AmbiguousBuiltin, fmt.Sprintf(
				"Ignored builtin types matching the used properties: %s", strings.Join(names, ", ")))
		}
		return nil
	}

	for i, t := range matches {
		matches[i] = in.instantiationFromUsage(t, usage)
	}
	return matches
}

func (in *Inferrer) allPropertiesAreAssignableToUsage(t ts_types.Type, usage *Usage) bool {
	for _, name := range sortedPropertyNames(usage) {
		propUsage := usage.Properties[name]
		source := ts_types.PropertyOfType(t, name)
		if source == nil {
			return false
		}
		if len(propUsage.Calls) > 0 {
			if len(ts_types.CallSignaturesOfType(source)) == 0 || !ts_types.IsAssignable(source, in.functionFromCalls(propUsage.Calls)) {
				return false
			}
		} else if !ts_types.IsAssignable(source, in.Resolve(propUsage)) {
			return false
		}
	}
	return true
}

// Fills in the type argument of a generic builtin such as "Array<T>" from
// how its members were used. Only generics with one type parameter are
// handled.
func (in *Inferrer) instantiationFromUsage(t ts_types.Type, usage *Usage) ts_types.Type {
	ref, ok := t.(*ts_types.TypeReference)
	if !ok || len(ref.Target.TypeParameters) != 1 {
		return t
	}
	typeParameter := ref.Target.TypeParameters[0]

	var types []ts_types.Type
	for _, name := range sortedPropertyNames(usage) {
		genericProperty := ref.Target.Body.Property(name)
		if genericProperty == nil {
			panic(fmt.Sprintf("Internal error: %s has no property %q", ref.Target.Name, name))
		}
		types = append(types, inferTypeParameters(genericProperty.Type, in.Resolve(usage.Properties[name]), typeParameter)...)
	}
	return ts_types.NewTypeReference(ref.Target, CombineTypes(types))
}

// Returns what "typeParameter" would have to be for "genericType" to match
// "usageType". Anything more complex than a single overload on each side
// contributes nothing.
func inferTypeParameters(genericType ts_types.Type, usageType ts_types.Type, typeParameter *ts_types.TypeParameter) []ts_types.Type {
	if genericType == ts_types.Type(typeParameter) {
		return []ts_types.Type{usageType}
	}

	switch g := genericType.(type) {
	case *ts_types.UnionType:
		var types []ts_types.Type
		for _, member := range g.Types {
			types = append(types, inferTypeParameters(member, usageType, typeParameter)...)
		}
		return types

	case *ts_types.TypeReference:
		if u, ok := usageType.(*ts_types.TypeReference); ok {
			var types []ts_types.Type
			for i, arg := range g.TypeArguments {
				if i < len(u.TypeArguments) {
					types = append(types, inferTypeParameters(arg, u.TypeArguments[i], typeParameter)...)
				}
			}
			return types
		}
	}

	genericSigs := ts_types.CallSignaturesOfType(genericType)
	usageSigs := ts_types.CallSignaturesOfType(usageType)
	if len(genericSigs) == 1 && len(usageSigs) == 1 {
		return inferFromSignatures(genericSigs[0], usageSigs[0], typeParameter)
	}
	return nil
}

func inferFromSignatures(genericSig *ts_types.Signature, usageSig *ts_types.Signature, typeParameter *ts_types.TypeParameter) []ts_types.Type {
	var types []ts_types.Type
	for i, genericParam := range genericSig.Params {
		if i >= len(usageSig.Params) {
			break
		}
		genericType := genericParam.Type
		if genericParam.IsRest {
			if elem := ts_types.ElementTypeOfArray(genericType); elem != nil {
				genericType = elem
			}
		}
		types = append(types, inferTypeParameters(genericType, usageSig.Params[i].Type, typeParameter)...)
	}
	return append(types, inferTypeParameters(genericSig.Return, usageSig.Return, typeParameter)...)
}

////////////////////////////////////////////////////////////////////////////////
// Combination

type priority struct {
	high func(ts_types.Type) bool
	low  func(ts_types.Type) bool
}

// Each tier lets the types it considers strong evidence discard the types
// it considers weak evidence
var priorities = []priority{
	{
		high: func(t ts_types.Type) bool { return t == ts_types.String || t == ts_types.Number },
		low:  func(t ts_types.Type) bool { return t.Equals(stringOrNumber()) },
	},
	{
		high: func(t ts_types.Type) bool { return !ts_types.IsAnyOrVoid(t) },
		low:  ts_types.IsAnyOrVoid,
	},
	{
		high: func(t ts_types.Type) bool {
			return !ts_types.IsNullable(t) && !ts_types.IsAnyOrVoid(t) && !ts_types.IsAnonymous(t)
		},
		low: ts_types.IsAnonymous,
	},
}

// CombineTypes picks the single type that best explains a list of
// candidates. It never fails: no candidates means "any".
func CombineTypes(inferences []ts_types.Type) ts_types.Type {
	if len(inferences) == 0 {
		return ts_types.Any
	}

	var good []ts_types.Type
	var anons []*ts_types.ObjectType
	for _, t := range removeLowPriorityInferences(inferences) {
		if ts_types.IsAnonymous(t) {
			anons = append(anons, t.(*ts_types.ObjectType))
		} else {
			good = append(good, ts_types.GetBaseTypeOfLiteral(t))
		}
	}
	if len(anons) > 0 {
		good = append(good, combineAnonymousTypes(anons))
	}

	result := ts_types.GetWidenedType(ts_types.NewUnionTypeWithSubtypeReduction(good...))
	if result == ts_types.Never {
		return ts_types.Any
	}
	return result
}

func removeLowPriorityInferences(inferences []ts_types.Type) []ts_types.Type {
	var toRemove []func(ts_types.Type) bool
	for _, t := range inferences {
		for _, p := range priorities {
			if p.high(t) {
				if p.low(t) {
					panic(fmt.Sprintf("Internal error: %s has both high and low priority", t))
				}
				toRemove = append(toRemove, p.low)
			}
		}
	}

	var result []ts_types.Type
	for _, t := range inferences {
		removed := false
		for _, low := range toRemove {
			if low(t) {
				removed = true
				break
			}
		}
		if !removed {
			result = append(result, t)
		}
	}
	return result
}

// Merges several anonymous object types into one. A property missing from
// some of them becomes optional.
func combineAnonymousTypes(anons []*ts_types.ObjectType) *ts_types.ObjectType {
	if len(anons) == 1 {
		return anons[0]
	}

	var calls, constructs []*ts_types.Signature
	var stringIndices, numberIndices []ts_types.Type
	props := make(map[string][]ts_types.Type)
	for _, anon := range anons {
		for _, p := range anon.Properties {
			props[p.Name] = append(props[p.Name], p.Type)
		}
		calls = append(calls, anon.CallSignatures...)
		constructs = append(constructs, anon.ConstructSignatures...)
		if anon.StringIndex != nil {
			stringIndices = append(stringIndices, anon.StringIndex)
		}
		if anon.NumberIndex != nil {
			numberIndices = append(numberIndices, anon.NumberIndex)
		}
	}

	result := &ts_types.ObjectType{
		CallSignatures:      uniqueSignatures(calls),
		ConstructSignatures: uniqueSignatures(constructs),
	}
	for name, types := range props {
		result.Properties = append(result.Properties, &ts_types.Property{
			Name:       name,
			Type:       ts_types.NewUnionType(types...),
			IsOptional: len(types) < len(anons),
		})
	}
	result.SortProperties()
	if len(stringIndices) > 0 {
		result.StringIndex = ts_types.NewUnionType(stringIndices...)
	}
	if len(numberIndices) > 0 {
		result.NumberIndex = ts_types.NewUnionType(numberIndices...)
	}
	return result
}

// Signatures are kept in a canonical order so that merging doesn't depend
// on the order the evidence was found in
func uniqueSignatures(sigs []*ts_types.Signature) []*ts_types.Signature {
	if len(sigs) == 0 {
		return nil
	}
	sort.SliceStable(sigs, func(i int, j int) bool {
		return signatureText(sigs[i]) < signatureText(sigs[j])
	})
	result := sigs[:1]
	for _, sig := range sigs[1:] {
		if !sig.Equals(result[len(result)-1]) {
			result = append(result, sig)
		}
	}
	return result
}

func signatureText(sig *ts_types.Signature) string {
	return sig.String() + ": " + sig.Return.String()
}
