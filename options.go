package flagbind

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Option configures a Bind call.
type Option func(*settings)

type settings struct {
	name      string
	help      string
	envPrefix string
	dashFlags bool

	args    []string
	argsSet bool

	filePath string
	fileFlag string

	factories map[string]func() any

	out       io.Writer
	lookupEnv func(string) (string, bool)
	logger    *zap.Logger
}

func newSettings(opts []Option) *settings {
	s := &settings{
		name:      filepath.Base(os.Args[0]),
		dashFlags: true,
		out:       os.Stderr,
		lookupEnv: os.LookupEnv,
		logger:    zap.NewNop(),
		factories: make(map[string]func() any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name overrides the program name used in usage and error output. Defaults
// to the base name of os.Args[0].
func Name(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// Help sets the program description shown in help output.
func Help(help string) Option {
	return func(s *settings) {
		s.help = help
	}
}

// EnvPrefix prepends the given prefix to every derived environment variable
// name, e.g. EnvPrefix("APP_") maps the field "port" to $APP_PORT.
func EnvPrefix(prefix string) Option {
	return func(s *settings) {
		s.envPrefix = prefix
	}
}

// KeepUnderscores disables the default underscore-to-dash conversion in
// derived flag names.
func KeepUnderscores() Option {
	return func(s *settings) {
		s.dashFlags = false
	}
}

// Args supplies the command-line arguments to parse instead of os.Args[1:].
func Args(args []string) Option {
	return func(s *settings) {
		s.args = args
		s.argsSet = true
	}
}

// Default registers a lazy default factory for the named field. The factory
// runs at most once, only when neither a flag, an env var, a file value nor a
// `default` tag supplies the field. Its result must be assignable to the
// field's type.
func Default(field string, factory func() any) Option {
	return func(s *settings) {
		s.factories[field] = factory
	}
}

// File adds a YAML config file as a value source, consulted after
// environment variables and before defaults.
func File(path string) Option {
	return func(s *settings) {
		s.filePath = path
	}
}

// FileFlag registers an extra flag (e.g. "config") whose value names the
// YAML config file at runtime. A path given through the flag overrides File.
func FileFlag(flagName string) Option {
	return func(s *settings) {
		s.fileFlag = flagName
	}
}

// Output redirects usage and error output, default os.Stderr.
func Output(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

// LookupEnv overrides the environment snapshot, primarily for tests.
func LookupEnv(fn func(string) (string, bool)) Option {
	return func(s *settings) {
		s.lookupEnv = fn
	}
}

// Logger enables resolution tracing at debug level.
func Logger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
