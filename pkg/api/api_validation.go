package api

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evanw/tslower/internal/compat"
	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/ts_ast"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelDebug:
		return logger.LevelDebug
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateLogOverrides(input map[string]LogLevel) map[logger.MsgID]logger.LogLevel {
	output := make(map[logger.MsgID]logger.LogLevel)
	for k, v := range input {
		logger.StringToMsgIDs(k, validateLogLevel(v), output)
	}
	return output
}

func validateTarget(value Target) (compat.LanguageTarget, bool) {
	switch value {
	case DefaultTarget:
		return 0, false
	case ES3:
		return compat.ES3, true
	case ES5:
		return compat.ES5, true
	case ES2015:
		return compat.ES2015, true
	case ES2016:
		return compat.ES2016, true
	case ES2017:
		return compat.ES2017, true
	case ES2018:
		return compat.ES2018, true
	case ES2019:
		return compat.ES2019, true
	case ES2020:
		return compat.ES2020, true
	case ES2021:
		return compat.ES2021, true
	case ES2022:
		return compat.ES2022, true
	case ESNext:
		return compat.ESNext, true
	default:
		panic("Invalid target")
	}
}

func validateModule(value ModuleKind) (config.ModuleKind, bool) {
	switch value {
	case ModuleDefault:
		return 0, false
	case ModuleNone:
		return config.ModuleNone, true
	case ModuleCommonJS:
		return config.ModuleCommonJS, true
	case ModuleAMD:
		return config.ModuleAMD, true
	case ModuleUMD:
		return config.ModuleUMD, true
	case ModuleSystem:
		return config.ModuleSystem, true
	case ModuleES2015:
		return config.ModuleES2015, true
	case ModuleES2020:
		return config.ModuleES2020, true
	case ModuleESNext:
		return config.ModuleESNext, true
	default:
		panic("Invalid module kind")
	}
}

func validateImportsNotUsedAsValues(value ImportsNotUsedAsValues) (config.ImportsNotUsedAsValues, bool) {
	switch value {
	case ImportsNotUsedDefault:
		return 0, false
	case ImportsNotUsedRemove:
		return config.ImportsNotUsedRemove, true
	case ImportsNotUsedPreserve:
		return config.ImportsNotUsedPreserve, true
	case ImportsNotUsedError:
		return config.ImportsNotUsedError, true
	default:
		panic("Invalid value for \"importsNotUsedAsValues\"")
	}
}

// The "tsconfig.json" contents are applied first. Explicit fields can only
// turn boolean options on since their zero value means "not specified".
func validateOptions(log logger.Log, options TransformOptions) (config.Options, error) {
	result := config.DefaultOptions()
	if options.TsconfigRaw != "" {
		source := logger.Source{PrettyPath: "<tsconfig.json>", Contents: options.TsconfigRaw}
		parsed, err := config.ParseOptionsYAML(log, &source)
		if err != nil {
			return config.Options{}, err
		}
		result = parsed
	}

	if target, ok := validateTarget(options.Target); ok {
		result.Target = target
		if options.TsconfigRaw == "" {
			result.UseDefineForClassFields = target >= compat.ES2022
		}
	}
	if module, ok := validateModule(options.Module); ok {
		result.Module = module
	}
	if kind, ok := validateImportsNotUsedAsValues(options.ImportsNotUsedAsValues); ok {
		result.ImportsNotUsedAsValues = kind
	}

	result.EmitDecoratorMetadata = result.EmitDecoratorMetadata || options.EmitDecoratorMetadata
	result.PreserveConstEnums = result.PreserveConstEnums || options.PreserveConstEnums
	result.IsolatedModules = result.IsolatedModules || options.IsolatedModules
	result.StrictNullChecks = result.StrictNullChecks || options.StrictNullChecks
	result.AlwaysStrict = result.AlwaysStrict || options.AlwaysStrict
	result.RemoveComments = result.RemoveComments || options.RemoveComments
	result.NoEmitHelpers = result.NoEmitHelpers || options.NoEmitHelpers
	result.UseDefineForClassFields = result.UseDefineForClassFields || options.UseDefineForClassFields

	if result.EmitDecoratorMetadata && !result.ExperimentalDecorators {
		log.AddID(logger.MsgID_Options_UnknownOption, logger.Warning, nil, logger.NoRange,
			"Ignoring \"emitDecoratorMetadata\" because \"experimentalDecorators\" is disabled")
		result.EmitDecoratorMetadata = false
	}

	result.Finish()
	return result, nil
}

func validateFile(log logger.Log, file File) bool {
	if file.Factory == nil {
		log.AddError(nil, logger.NoRange, "Must provide the factory that created the tree")
		return false
	}
	if file.Root == nil {
		log.AddError(nil, logger.NoRange, "Must provide a tree to transform")
		return false
	}
	if _, ok := file.Root.Data.(*ts_ast.SourceFile); !ok {
		log.AddError(nil, logger.NoRange, fmt.Sprintf("Expected a source file but got %T", file.Root.Data))
		return false
	}
	return true
}

func validateInferTarget(log logger.Log, options InferOptions) bool {
	if options.Target == nil {
		log.AddError(nil, logger.NoRange, "Must provide a target to infer types for")
		return false
	}

	switch options.Kind {
	case InferVariable:
		if _, ok := options.Target.Data.(*ts_ast.EIdentifier); !ok {
			log.AddError(nil, logger.NoRange, fmt.Sprintf("Expected a binding name but got %T", options.Target.Data))
			return false
		}

	case InferParameters, InferThis:
		if ts_ast.FnOf(options.Target) == nil {
			log.AddError(nil, logger.NoRange, fmt.Sprintf("Expected a function but got %T", options.Target.Data))
			return false
		}

	default:
		panic("Invalid inference kind")
	}
	return true
}

// Lists the message ids accepted by "LogOverride", for error messages
func validLogOverrideNames() string {
	var names []string
	for id := logger.MsgID_None + 1; id < logger.MsgID_END; id++ {
		names = append(names, logger.MsgIDToString(id))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func checkLogOverrides(log logger.Log, input map[string]LogLevel) {
	for k := range input {
		if len(validateLogOverrides(map[string]LogLevel{k: LogLevelInfo})) == 0 {
			log.AddID(logger.MsgID_Options_UnknownOption, logger.Warning, nil, logger.NoRange,
				fmt.Sprintf("Unknown log override %q (valid ids are %s)", k, validLogOverrideNames()))
		}
	}
}
