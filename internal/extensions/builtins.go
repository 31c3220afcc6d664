package extensions

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/no-hive/solidity-learning/internal/tasks"
)

func (l *Loader) builtins() starlark.StringDict {
	return starlark.StringDict{
		"task":         starlark.NewBuiltin("task", starTask),
		"require_task": starlark.NewBuiltin("require_task", starRequireTask),
		"has_task":     starlark.NewBuiltin("has_task", starHasTask),
		"option":       starlark.NewBuiltin("option", starOption),
		"getenv":       starlark.NewBuiltin("getenv", starGetenv),
		"info":         starlark.NewBuiltin("info", starInfo),
		"warn":         starlark.NewBuiltin("warn", starWarn),
	}
}

func starTask(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, description string
	var deps *starlark.List
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "description?", &description, "deps?", &deps); err != nil {
		return nil, err
	}

	depNames, err := stringList(deps, "deps")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	act := getActivation(thread)
	replaced, err := act.loader.Registry.Register(tasks.Task{
		Name:        name,
		Description: description,
		Deps:        depNames,
		Source:      act.file,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	if replaced {
		act.loader.Logger.Debug("task overridden", zap.String("task", name), zap.String("extension", act.file))
	}
	return starlark.None, nil
}

func starRequireTask(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	if _, ok := getActivation(thread).loader.Registry.Lookup(name); !ok {
		return nil, fmt.Errorf("%s: task %q is not registered", fn.Name(), name)
	}
	return starlark.None, nil
}

func starHasTask(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	_, ok := getActivation(thread).loader.Registry.Lookup(name)
	return starlark.Bool(ok), nil
}

func starOption(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}

	value, ok := getActivation(thread).loader.Options.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: unknown option %q", fn.Name(), name)
	}

	switch v := value.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case bool:
		return starlark.Bool(v), nil
	default:
		return nil, fmt.Errorf("%s: unsupported option type %T", fn.Name(), value)
	}
}

func starGetenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, fallback string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &fallback); err != nil {
		return nil, err
	}
	if value, ok := getActivation(thread).loader.LookupEnv(name); ok {
		return starlark.String(value), nil
	}
	return starlark.String(fallback), nil
}

func starInfo(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var msg string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &msg); err != nil {
		return nil, err
	}
	logger, fields := scriptLogger(thread)
	logger.Info(msg, fields...)
	return starlark.None, nil
}

func starWarn(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var msg string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &msg); err != nil {
		return nil, err
	}
	logger, fields := scriptLogger(thread)
	logger.Warn(msg, fields...)
	return starlark.None, nil
}

func scriptLogger(thread *starlark.Thread) (*zap.Logger, []zap.Field) {
	act := getActivation(thread)
	pos := thread.CallFrame(1).Pos
	return act.loader.Logger, []zap.Field{
		zap.String("extension", act.file),
		zap.Int32("line", pos.Line),
		zap.Int32("col", pos.Col),
	}
}

func stringList(list *starlark.List, field string) ([]string, error) {
	if list == nil {
		return nil, nil
	}

	out := make([]string, 0, list.Len())
	iter := list.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		s, ok := item.(starlark.String)
		if !ok {
			return nil, fmt.Errorf("expected all items in %s to be strings but found %s", field, item.Type())
		}
		out = append(out, s.GoString())
	}
	return out, nil
}
