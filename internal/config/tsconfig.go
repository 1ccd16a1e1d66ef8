package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/evanw/tslower/internal/compat"
	"github.com/evanw/tslower/internal/helpers"
	"github.com/evanw/tslower/internal/logger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Reads the "compilerOptions" section of a "tsconfig.json" file. JSON is a
// subset of YAML so both formats are accepted. Unknown options are reported
// as warnings and otherwise ignored.
func LoadOptionsFile(log logger.Log, path string) (Options, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "failed to read %q", path)
	}
	source := logger.Source{PrettyPath: path, Contents: string(contents)}
	return ParseOptionsYAML(log, &source)
}

type optionFlags struct {
	strict                  *bool
	strictNullChecks        *bool
	alwaysStrict            *bool
	useDefineForClassFields *bool
	module                  *ModuleKind
}

var moduleKinds = map[string]ModuleKind{
	"none":     ModuleNone,
	"commonjs": ModuleCommonJS,
	"amd":      ModuleAMD,
	"umd":      ModuleUMD,
	"system":   ModuleSystem,
	"es6":      ModuleES2015,
	"es2015":   ModuleES2015,
	"es2020":   ModuleES2020,
	"es2022":   ModuleESNext,
	"esnext":   ModuleESNext,
}

var importsNotUsedAsValues = map[string]ImportsNotUsedAsValues{
	"remove":   ImportsNotUsedRemove,
	"preserve": ImportsNotUsedPreserve,
	"error":    ImportsNotUsedError,
}

var optionTypos = helpers.MakeTypoDetector([]string{
	"alwaysStrict",
	"emitDecoratorMetadata",
	"experimentalDecorators",
	"importsNotUsedAsValues",
	"isolatedModules",
	"module",
	"noEmitHelpers",
	"preserveConstEnums",
	"removeComments",
	"strict",
	"strictNullChecks",
	"target",
	"useDefineForClassFields",
})

func ParseOptionsYAML(log logger.Log, source *logger.Source) (Options, error) {
	var document struct {
		CompilerOptions yaml.Node `yaml:"compilerOptions"`
	}
	if err := yaml.Unmarshal([]byte(source.Contents), &document); err != nil {
		return Options{}, errors.Wrapf(err, "failed to parse %q", source.PrettyPath)
	}

	options := DefaultOptions()
	var flags optionFlags
	compilerOptions := &document.CompilerOptions

	if compilerOptions.Kind != 0 && compilerOptions.Kind != yaml.MappingNode {
		return Options{}, errors.Errorf("%s: \"compilerOptions\" must be an object", source.PrettyPath)
	}

	for i := 0; i+1 < len(compilerOptions.Content); i += 2 {
		key := compilerOptions.Content[i]
		value := compilerOptions.Content[i+1]
		r := rangeOfNode(source, key)

		var err error
		switch strings.ToLower(key.Value) {
		case "target":
			var text string
			if err = value.Decode(&text); err == nil {
				target, ok := compat.ParseTarget(text)
				if !ok {
					log.AddID(logger.MsgID_Options_InvalidTarget, logger.Error, source, rangeOfNode(source, value),
						fmt.Sprintf("Invalid target %q", text))
					return Options{}, errors.Errorf("%s: invalid target %q", source.PrettyPath, text)
				}
				options.Target = target
			}

		case "module":
			var text string
			if err = value.Decode(&text); err == nil {
				if kind, ok := moduleKinds[strings.ToLower(text)]; ok {
					flags.module = &kind
				} else {
					log.AddID(logger.MsgID_Options_UnknownOption, logger.Warning, source, rangeOfNode(source, value),
						fmt.Sprintf("Unsupported module kind %q", text))
				}
			}

		case "importsnotusedasvalues":
			var text string
			if err = value.Decode(&text); err == nil {
				if kind, ok := importsNotUsedAsValues[strings.ToLower(text)]; ok {
					options.ImportsNotUsedAsValues = kind
				} else {
					log.AddID(logger.MsgID_Options_UnknownOption, logger.Warning, source, rangeOfNode(source, value),
						fmt.Sprintf("Unsupported value %q for \"importsNotUsedAsValues\"", text))
				}
			}

		case "experimentaldecorators":
			err = value.Decode(&options.ExperimentalDecorators)
		case "emitdecoratormetadata":
			err = value.Decode(&options.EmitDecoratorMetadata)
		case "preserveconstenums":
			err = value.Decode(&options.PreserveConstEnums)
		case "isolatedmodules":
			err = value.Decode(&options.IsolatedModules)
		case "removecomments":
			err = value.Decode(&options.RemoveComments)
		case "noemithelpers":
			err = value.Decode(&options.NoEmitHelpers)
		case "strict":
			flags.strict, err = decodeBool(value)
		case "strictnullchecks":
			flags.strictNullChecks, err = decodeBool(value)
		case "alwaysstrict":
			flags.alwaysStrict, err = decodeBool(value)
		case "usedefineforclassfields":
			flags.useDefineForClassFields, err = decodeBool(value)

		default:
			if corrected, ok := optionTypos.MaybeCorrectTypo(key.Value); ok {
				log.AddID(logger.MsgID_Options_UnknownOption, logger.Warning, source, r,
					fmt.Sprintf("Unknown compiler option %q (did you mean %q?)", key.Value, corrected))
			} else {
				log.AddID(logger.MsgID_Options_UnknownOption, logger.Debug, source, r,
					fmt.Sprintf("Ignoring unsupported compiler option %q", key.Value))
			}
		}

		if err != nil {
			return Options{}, errors.Wrapf(err, "%s: invalid value for %q", source.PrettyPath, key.Value)
		}
	}

	// Apply the defaults that depend on other options
	strict := flags.strict != nil && *flags.strict
	options.StrictNullChecks = pickBool(flags.strictNullChecks, strict)
	options.AlwaysStrict = pickBool(flags.alwaysStrict, strict)
	options.UseDefineForClassFields = pickBool(flags.useDefineForClassFields, options.Target >= compat.ES2022)
	if flags.module != nil {
		options.Module = *flags.module
	} else if options.Target >= compat.ES2015 {
		options.Module = ModuleES2015
	} else {
		options.Module = ModuleCommonJS
	}

	options.Finish()
	return options, nil
}

func decodeBool(node *yaml.Node) (*bool, error) {
	var value bool
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return &value, nil
}

func pickBool(value *bool, defaultValue bool) bool {
	if value != nil {
		return *value
	}
	return defaultValue
}

// YAML nodes only know their line and column (both 1-based)
func rangeOfNode(source *logger.Source, node *yaml.Node) logger.Range {
	if node.Line <= 0 {
		return logger.NoRange
	}
	offset := 0
	for line := 1; line < node.Line; line++ {
		next := strings.IndexByte(source.Contents[offset:], '\n')
		if next == -1 {
			return logger.NoRange
		}
		offset += next + 1
	}
	offset += node.Column - 1
	length := len(node.Value)
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		length += 2
	}
	if offset+length > len(source.Contents) {
		return logger.NoRange
	}
	return logger.Range{Loc: logger.Loc{Start: int32(offset)}, Len: int32(length)}
}
