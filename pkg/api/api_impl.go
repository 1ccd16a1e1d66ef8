package api

import (
	"context"
	"fmt"

	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/helpers"
	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
	"github.com/evanw/tslower/internal/ts_infer"
	"github.com/evanw/tslower/internal/ts_printer"
	"github.com/evanw/tslower/internal/ts_transform"
	"github.com/evanw/tslower/internal/ts_types"
	"github.com/pkg/errors"
)

func newLog(color StderrColor, errorLimit int, logLevel LogLevel, overrides map[string]LogLevel) logger.Log {
	if logLevel == LogLevelSilent {
		return logger.NewDeferLog()
	}
	return logger.NewStderrLog(logger.OutputOptions{
		IncludeSource: true,
		ErrorLimit:    errorLimit,
		Color:         validateColor(color),
		LogLevel:      validateLogLevel(logLevel),
		Overrides:     validateLogOverrides(overrides),
	})
}

func convertLocationToPublic(loc *logger.MsgLocation) *Location {
	if loc == nil {
		return nil
	}
	return &Location{
		File:     loc.File,
		Line:     loc.Line,
		Column:   loc.Column,
		Length:   loc.Length,
		LineText: loc.LineText,
	}
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			filtered = append(filtered, Message{
				ID:       logger.MsgIDToString(msg.ID),
				Text:     msg.Text,
				Location: convertLocationToPublic(msg.Location),
				Notes:    msg.Notes,
			})
		}
	}
	return filtered
}

func sourceForFile(file File) *logger.Source {
	path := file.Path
	if path == "" {
		path = "<stdin>"
	}
	return &logger.Source{PrettyPath: path, Contents: file.Contents}
}

// Runs "fn" and turns a panic into an *InternalError. The panic is also
// logged as an error with the stack trace as a note.
func catchInternalError(log logger.Log, source *logger.Source, action string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := helpers.PrettyPrintedStack()
			text := fmt.Sprint(r)
			log.AddErrorWithNotes(nil, logger.NoRange, text, []string{stack})
			err = errors.Wrapf(&InternalError{Text: text, Stack: stack}, "%s %q", action, source.PrettyPath)
		}
	}()
	fn()
	return nil
}

func firstError(msgs []logger.Msg) error {
	for _, msg := range msgs {
		if msg.Kind == logger.Error {
			return errors.New(msg.Text)
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

func transformImpl(file File, oracle EmitResolver, options TransformOptions) (TransformResult, error) {
	log := newLog(options.Color, options.ErrorLimit, options.LogLevel, options.LogOverride)
	checkLogOverrides(log, options.LogOverride)

	var timer *helpers.Timer
	if options.Timing {
		timer = &helpers.Timer{}
	}

	failed := func(err error) (TransformResult, error) {
		timer.Log(log)
		msgs := log.Done()
		if err == nil {
			err = firstError(msgs)
		}
		return TransformResult{
			Errors:   convertMessagesToPublic(logger.Error, msgs),
			Warnings: convertMessagesToPublic(logger.Warning, msgs),
		}, err
	}

	// Convert and validate the options
	if !validateFile(log, file) {
		return failed(nil)
	}
	timer.Begin("Parse options")
	tsOptions, err := validateOptions(log, options)
	timer.End("Parse options")
	if err != nil {
		return failed(errors.Wrap(err, "invalid options"))
	}

	source := sourceForFile(file)
	if oracle == nil {
		timer.Begin("Bind")
		oracle = ts_checker.NewChecker(file.Root, tsOptions)
		timer.End("Bind")
	}

	var transformed ts_transform.TransformResult
	var code []byte
	err = catchInternalError(log, source, "failed to transform", func() {
		timer.Begin("Lower")
		transformed = ts_transform.Transform(log, source, file.Factory, file.Root, oracle, tsOptions)
		timer.End("Lower")

		timer.Begin("Print")
		code = ts_printer.Print(transformed.File, ts_printer.Options{
			Hooks:          transformed.Substitution,
			Helpers:        transformed.Helpers,
			RemoveComments: tsOptions.RemoveComments,
		}).JS
		timer.End("Print")
	})
	if err != nil || log.HasErrors() {
		return failed(err)
	}

	timer.Log(log)
	msgs := log.Done()
	result := TransformResult{
		Errors:          convertMessagesToPublic(logger.Error, msgs),
		Warnings:        convertMessagesToPublic(logger.Warning, msgs),
		Code:            code,
		ClassAliasCount: len(transformed.ClassAliases),
	}
	for _, helper := range transformed.Helpers {
		result.Helpers = append(result.Helpers, helper.Name)
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////
// Inference API

func inferImpl(ctx context.Context, file File, checker TypeChecker, options InferOptions) (InferResult, error) {
	log := newLog(options.Color, 0, options.LogLevel, options.LogOverride)
	checkLogOverrides(log, options.LogOverride)

	finish := func(inferences []Inference, err error) (InferResult, error) {
		msgs := log.Done()
		if err == nil {
			err = firstError(msgs)
		}
		return InferResult{
			Errors:     convertMessagesToPublic(logger.Error, msgs),
			Warnings:   convertMessagesToPublic(logger.Warning, msgs),
			Inferences: inferences,
		}, err
	}

	if !validateFile(log, file) || !validateInferTarget(log, options) {
		return finish(nil, nil)
	}

	source := sourceForFile(file)
	if checker == nil {
		checker = ts_checker.NewChecker(file.Root, config.DefaultOptions())
	}
	in := ts_infer.NewInferrer(log, source, checker)

	var inferences []Inference
	var inferErr error
	err := catchInternalError(log, source, "failed to infer types in", func() {
		switch options.Kind {
		case InferVariable:
			var t ts_types.Type
			if t, inferErr = in.Variable(ctx, options.Target); inferErr == nil {
				inferences = []Inference{newInference(options.Target, t, false)}
			}

		case InferParameters:
			var params []ts_infer.ParameterInference
			if params, inferErr = in.Parameters(ctx, options.Target); inferErr == nil {
				for _, param := range params {
					inferences = append(inferences, newInference(param.Declaration, param.Type, param.IsOptional))
				}
			}

		case InferThis:
			var t ts_types.Type
			if t, inferErr = in.ThisParameter(ctx, options.Target); inferErr == nil {
				inferences = []Inference{newInference(options.Target, t, false)}
			}
		}
	})
	if err != nil {
		return finish(nil, err)
	}
	if inferErr != nil {
		// Unwrapped so that "errors.Is(err, context.Canceled)" works
		return finish(nil, inferErr)
	}
	return finish(inferences, nil)
}

func newInference(decl *ts_ast.Node, t ts_types.Type, isOptional bool) Inference {
	return Inference{
		Declaration: decl,
		Type:        t,
		TypeText:    ts_infer.TypeToString(t),
		IsOptional:  isOptional,
	}
}
