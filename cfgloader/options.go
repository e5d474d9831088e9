package cfgloader

const defaultConfigDir = "./config"

// Options holds configuration options for Load and MustLoad.
type Options struct {
	// Silent disables printing the loaded config to stdout.
	Silent bool

	// ConfigDir is the directory holding ${ENVIRONMENT}.yaml files. Default is "./config".
	ConfigDir string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables config logging to stdout.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithConfigDir overrides the directory config files are read from.
func WithConfigDir(dir string) Option {
	return func(o *Options) {
		o.ConfigDir = dir
	}
}
