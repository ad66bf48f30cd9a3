package bootbanner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rickchristie/bootbanner/internal/registry"
)

// Registry stores the named objects of one application run.
type Registry interface {
	// Register stores value under name, replacing any earlier value.
	Register(name string, value any)
	// Lookup returns the value registered under name.
	Lookup(name string) (any, bool)
}

// Option is a functional option for New().
type Option func(*options)

type options struct {
	banner          Banner
	mode            *Mode
	resources       fs.FS
	out             io.Writer
	log             *LogChannel
	args            []string
	environ         []string
	environSet      bool
	configFile      string
	configOptional  bool
	defaults        map[string]any
	printBannerFunc func(env *Environment) error
}

// WithBanner sets the banner to print. It takes precedence over resources.
func WithBanner(b Banner) Option {
	if b == nil {
		panic("bootbanner: WithBanner requires a non-nil banner")
	}
	return func(o *options) {
		o.banner = b
	}
}

// WithBannerMode sets the mode, overriding the banner.mode property.
func WithBannerMode(m Mode) Option {
	return func(o *options) {
		o.mode = &m
	}
}

// WithResources sets the filesystem searched for banner resources.
func WithResources(fsys fs.FS) Option {
	return func(o *options) {
		o.resources = fsys
	}
}

// WithOutput sets the console stream. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithLogChannel sets the log channel. Defaults to one opened from the
// logging.* properties.
func WithLogChannel(c *LogChannel) Option {
	return func(o *options) {
		o.log = c
	}
}

// WithArgs sets the command-line arguments; --key=value options become
// properties with the highest precedence.
func WithArgs(args []string) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithEnviron replaces os.Environ() as the system environment source.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
		o.environSet = true
	}
}

// WithConfigFile adds a YAML or JSON property file. The file must exist
// unless optional is true.
func WithConfigFile(path string, optional bool) Option {
	return func(o *options) {
		o.configFile = path
		o.configOptional = optional
	}
}

// WithDefaultProperties sets the lowest-precedence properties.
func WithDefaultProperties(props map[string]any) Option {
	return func(o *options) {
		o.defaults = props
	}
}

// WithPrintBannerFunc replaces the whole print-and-register step with fn.
// fn is not called when the mode is off. No RenderedBanner is registered
// when it is set, whatever fn prints.
//
// Deprecated: implement Banner and use WithBanner.
func WithPrintBannerFunc(fn func(env *Environment) error) Option {
	return func(o *options) {
		o.printBannerFunc = fn
	}
}

// Application bootstraps one application run.
type Application struct {
	opts options
}

// New creates an Application.
func New(opts ...Option) *Application {
	a := &Application{}
	for _, opt := range opts {
		opt(&a.opts)
	}
	return a
}

// Context is the result of a successful Run.
type Context struct {
	runID     string
	startedAt time.Time
	env       *Environment
	registry  *registry.Map
	log       *LogChannel
	ownsLog   bool
	args      []string
}

// Run builds the environment, prints the banner and creates the application
// context. The banner is printed before the context exists; its record is
// registered under BannerKey afterwards. Any failure aborts startup.
func (a *Application) Run(ctx context.Context) (*Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	o := a.opts

	environ := o.environ
	if !o.environSet {
		environ = os.Environ()
	}
	env, rest, err := LoadEnvironment(EnvironmentConfig{
		Args:               o.args,
		Environ:            environ,
		ConfigFile:         o.configFile,
		ConfigFileOptional: o.configOptional,
		Defaults:           o.defaults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare environment: %w", err)
	}

	mode, err := a.bannerMode(env)
	if err != nil {
		return nil, err
	}

	log, ownsLog := o.log, false
	if log == nil {
		cfg, err := LoggingConfigFrom(env)
		if err != nil {
			return nil, err
		}
		if log, err = OpenLogChannel(cfg); err != nil {
			return nil, err
		}
		ownsLog = true
	}
	fail := func(err error) (*Context, error) {
		if ownsLog {
			log.Close()
		}
		return nil, err
	}

	runID := uuid.NewString()
	printed, err := a.printBanner(env, mode, log, runID)
	if err != nil {
		return fail(fmt.Errorf("failed to print banner: %w", err))
	}

	appCtx := &Context{
		runID:     runID,
		startedAt: started,
		env:       env,
		registry:  registry.New(),
		log:       log,
		ownsLog:   ownsLog,
		args:      rest,
	}
	if printed != nil {
		appCtx.registry.Register(BannerKey, printed)
	}

	logger := log.Logger()
	logger.Debug().
		Str("run_id", runID).
		Str("banner_mode", mode.String()).
		Dur("startup", time.Since(started)).
		Msg("application started")
	return appCtx, nil
}

func (a *Application) bannerMode(env *Environment) (Mode, error) {
	if a.opts.mode != nil {
		if !a.opts.mode.Valid() {
			return ModeConsole, &InvalidModeError{Value: a.opts.mode.String()}
		}
		return *a.opts.mode, nil
	}
	return ParseMode(env.Get("banner.mode", ""))
}

func (a *Application) printBanner(env *Environment, mode Mode, log *LogChannel, runID string) (*RenderedBanner, error) {
	if mode == ModeOff {
		return nil, nil
	}
	if a.opts.printBannerFunc != nil {
		return nil, a.opts.printBannerFunc(env)
	}
	printer := NewPrinter(PrinterConfig{
		Banner:    a.opts.banner,
		Resources: a.opts.resources,
		Out:       a.opts.out,
		Log:       log,
		RunID:     runID,
	})
	return printer.Print(env, mode)
}

// RunID identifies this application run.
func (c *Context) RunID() string { return c.runID }

// StartedAt is when Run began.
func (c *Context) StartedAt() time.Time { return c.startedAt }

// Environment returns the run's environment.
func (c *Context) Environment() *Environment { return c.env }

// Registry returns the run's registry.
func (c *Context) Registry() Registry { return c.registry }

// Logger returns the run's logger.
func (c *Context) Logger() zerolog.Logger { return c.log.Logger() }

// Args returns the command-line arguments that were not --key=value options.
func (c *Context) Args() []string { return c.args }

// Banner returns the registered RenderedBanner.
func (c *Context) Banner() (*RenderedBanner, bool) {
	rb, err := registry.LookupAs[*RenderedBanner](c.registry, BannerKey)
	if err != nil {
		return nil, false
	}
	return rb, true
}

// Close releases the log output opened by Run.
func (c *Context) Close() error {
	if c.ownsLog {
		return c.log.Close()
	}
	return nil
}
