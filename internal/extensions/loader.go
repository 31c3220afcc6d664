package extensions

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/no-hive/solidity-learning/internal/options"
	"github.com/no-hive/solidity-learning/internal/tasks"
)

// DefaultDir is the extension directory, relative to the project root.
const DefaultDir = "hardhat"

// LibrarySuffix marks modules that only provide declarations for load().
const LibrarySuffix = ".lib.star"

var sourceSuffixes = []string{".star", ".sky"}

const localKey = "extension"

// ActivationError reports the extension file that failed to load.
type ActivationError struct {
	Path string
	Err  error
}

func (e *ActivationError) Error() string {
	var evalErr *starlark.EvalError
	if errors.As(e.Err, &evalErr) {
		return fmt.Sprintf("activate extension %s:\n%s", e.Path, evalErr.Backtrace())
	}
	return fmt.Sprintf("activate extension %s: %v", e.Path, e.Err)
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// Loader activates the extension scripts found in Dir.
type Loader struct {
	FS        fs.FS
	Dir       string
	Registry  *tasks.Registry
	Options   options.Options
	LookupEnv func(string) (string, bool)
	Logger    *zap.Logger

	modules map[string]*module
}

type module struct {
	globals starlark.StringDict
	err     error
	loading bool
}

// activation is stored in the thread locals of every script run.
type activation struct {
	loader *Loader
	file   string
}

// Discover lists the extension files in dir in directory-listing order.
// A missing directory yields no files and no error.
func Discover(fsys fs.FS, dir string) ([]string, error) {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat extension directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("extension path %s is not a directory", dir)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read extension directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isExtension(entry.Name()) {
			continue
		}
		files = append(files, path.Join(dir, entry.Name()))
	}
	return files, nil
}

func isExtension(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, LibrarySuffix) {
		return false
	}
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Load activates every discovered extension, one at a time, and returns the
// activated files. The first failing file aborts loading.
func (l *Loader) Load(ctx context.Context) ([]string, error) {
	if l.Dir == "" {
		l.Dir = DefaultDir
	}
	if l.LookupEnv == nil {
		l.LookupEnv = os.LookupEnv
	}
	if l.Logger == nil {
		l.Logger = zap.NewNop()
	}
	l.modules = make(map[string]*module)

	files, err := Discover(l.FS, l.Dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		l.Logger.Debug("no extensions found", zap.String("dir", l.Dir))
		return nil, nil
	}

	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.activate(file); err != nil {
			return nil, &ActivationError{Path: file, Err: err}
		}
		l.Logger.Info("extension activated", zap.String("file", file))
		loaded = append(loaded, file)
	}
	return loaded, nil
}

func (l *Loader) activate(file string) error {
	src, err := fs.ReadFile(l.FS, file)
	if err != nil {
		return err
	}

	thread := l.newThread(file)
	_, err = starlark.ExecFile(thread, file, src, l.builtins())
	return err
}

func (l *Loader) newThread(file string) *starlark.Thread {
	thread := &starlark.Thread{
		Name: file,
		Print: func(thread *starlark.Thread, msg string) {
			l.Logger.Info(msg, zap.String("extension", thread.Name))
		},
		Load: l.load,
	}
	thread.SetLocal(localKey, &activation{loader: l, file: file})
	return thread
}

// load implements the Starlark load() statement for library modules inside
// Dir. Extension files are activated once, by Load, and cannot be loaded.
func (l *Loader) load(_ *starlark.Thread, name string) (starlark.StringDict, error) {
	target := path.Clean(path.Join(l.Dir, name))
	if !fs.ValidPath(target) || !strings.HasPrefix(target, l.Dir+"/") {
		return nil, fmt.Errorf("load %q: module must live in %s", name, l.Dir)
	}
	if !strings.HasSuffix(target, LibrarySuffix) {
		return nil, fmt.Errorf("load %q: only %s modules can be loaded", name, LibrarySuffix)
	}

	if m, ok := l.modules[target]; ok {
		if m.loading {
			return nil, fmt.Errorf("load %q: cycle in load graph", name)
		}
		return m.globals, m.err
	}

	m := &module{loading: true}
	l.modules[target] = m

	src, err := fs.ReadFile(l.FS, target)
	if err == nil {
		m.globals, err = starlark.ExecFile(l.newThread(target), target, src, l.builtins())
	}
	m.err = err
	m.loading = false
	return m.globals, m.err
}

func getActivation(thread *starlark.Thread) *activation {
	return thread.Local(localKey).(*activation)
}
