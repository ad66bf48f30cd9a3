package bootbanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/rickchristie/bootbanner/internal/ansi"
)

// BannerKey is the registry name of the RenderedBanner record.
const BannerKey = "startupBanner"

// RenderedBanner records a banner that was printed during startup.
type RenderedBanner struct {
	// Source is the banner that produced Text.
	Source Banner
	// Text is exactly what was written to the sink.
	Text      string
	Mode      Mode
	Version   string
	RunID     string
	PrintedAt time.Time
}

// IsSource reports whether b is the banner that produced r. Banners that
// cannot be compared, such as structs holding slices, never match.
func (r *RenderedBanner) IsSource(b Banner) (same bool) {
	if r == nil || b == nil || r.Source == nil {
		return false
	}
	tb, ts := reflect.TypeOf(b), reflect.TypeOf(r.Source)
	if tb != ts || !tb.Comparable() {
		return false
	}
	// Comparable struct types can still hold uncomparable values in
	// interface fields.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return r.Source == b
}

// Sink is where a banner is written: Out in ModeConsole, Log in ModeLog.
type Sink struct {
	Out io.Writer
	Log *LogChannel
}

// PrinterConfig configures a Printer.
type PrinterConfig struct {
	// Banner is used as-is when set; resources are not searched.
	Banner Banner
	// Fallback is used when no resource banner is found. Nil means DefaultBanner.
	Fallback Banner
	// Resources is searched for banner resources. May be nil.
	Resources fs.FS
	// Out is the console stream. Nil means os.Stdout.
	Out io.Writer
	// Log receives the banner in ModeLog and resolution warnings. Nil means
	// a JSON channel on os.Stderr.
	Log *LogChannel
	// RunID is copied into the record. Empty means a new random id.
	RunID string
}

// Printer resolves, renders and writes the startup banner.
type Printer struct {
	banner    Banner
	fallback  Banner
	resources fs.FS
	out       io.Writer
	log       *LogChannel
	runID     string
}

// NewPrinter creates a Printer.
func NewPrinter(cfg PrinterConfig) *Printer {
	p := &Printer{
		banner:    cfg.Banner,
		fallback:  cfg.Fallback,
		resources: cfg.Resources,
		out:       cfg.Out,
		log:       cfg.Log,
		runID:     cfg.RunID,
	}
	if p.fallback == nil {
		p.fallback = DefaultBanner{}
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.log == nil {
		p.log = NewLogChannel(os.Stderr, LoggingConfig{})
	}
	return p
}

// Render prints banner with mode to sink. A nil banner is resolved from
// resources, falling back to DefaultBanner.
func Render(mode Mode, banner Banner, env *Environment, resources fs.FS, sink Sink) (*RenderedBanner, error) {
	return NewPrinter(PrinterConfig{
		Banner:    banner,
		Resources: resources,
		Out:       sink.Out,
		Log:       sink.Log,
	}).Print(env, mode)
}

// Print renders the banner and writes it once to the sink selected by mode.
// ModeOff writes nothing and returns a nil record. The whole banner is
// rendered before anything is written.
func (p *Printer) Print(env *Environment, mode Mode) (*RenderedBanner, error) {
	if mode == ModeOff {
		return nil, nil
	}
	if !mode.Valid() {
		return nil, &InvalidModeError{Value: mode.String()}
	}

	useColor, err := p.ansiEnabled(env, mode)
	if err != nil {
		return nil, err
	}

	b, fromResources := p.resolve(env)
	text, err := p.render(env, b, useColor)
	if err != nil && fromResources {
		logger := p.log.Logger()
		logger.Warn().Err(err).Msg("banner resource not printable, using fallback banner")
		b = p.fallback
		text, err = p.render(env, b, useColor)
	}
	if err != nil {
		return nil, fmt.Errorf("bootbanner: failed to render banner: %w", err)
	}

	switch mode {
	case ModeConsole:
		n, err := io.WriteString(p.out, text)
		if err == nil && n < len(text) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return nil, &SinkWriteError{Mode: mode, Err: err}
		}
	case ModeLog:
		if err := p.log.banner(text); err != nil {
			return nil, &SinkWriteError{Mode: mode, Err: err}
		}
	}

	runID := p.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &RenderedBanner{
		Source:    b,
		Text:      text,
		Mode:      mode,
		Version:   ApplicationVersion(env),
		RunID:     runID,
		PrintedAt: time.Now(),
	}, nil
}

// ansiEnabled applies output.ansi.enabled. Log entries only get escape codes
// when it is "always".
func (p *Printer) ansiEnabled(env *Environment, mode Mode) (bool, error) {
	enabled, err := ansi.ParseEnabled(env.Get("output.ansi.enabled", ""))
	if err != nil {
		return false, fmt.Errorf("bootbanner: output.ansi.enabled: %w", err)
	}
	if mode == ModeLog {
		return enabled == ansi.Always, nil
	}
	return enabled.For(p.out), nil
}

func (p *Printer) render(env *Environment, b Banner, useColor bool) (string, error) {
	buf := &renderBuffer{ansi: useColor}
	if err := b.PrintBanner(env, p.resources, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Resolve picks the banner to print: the configured banner, else image and
// text resources, else the fallback. Unusable resources are logged at warn
// and skipped.
func (p *Printer) Resolve(env *Environment) Banner {
	b, _ := p.resolve(env)
	return b
}

// resolve also reports whether the banner came from resources.
func (p *Printer) resolve(env *Environment) (Banner, bool) {
	if p.banner != nil {
		return p.banner, false
	}
	var found []Banner
	if img := p.imageResource(env); img != nil {
		found = append(found, img)
	}
	if txt := p.textResource(env); txt != nil {
		found = append(found, txt)
	}
	switch len(found) {
	case 0:
		return p.fallback, false
	case 1:
		return found[0], true
	}
	return NewBanners(found...), true
}

func (p *Printer) textResource(env *Environment) Banner {
	if p.resources == nil {
		return nil
	}
	path := env.Get("banner.location", DefaultTextLocation)
	if !exists(p.resources, path) {
		return nil
	}
	if _, err := fs.ReadFile(p.resources, path); err != nil {
		p.warnSkipped(err, path, "skipping unreadable banner resource")
		return nil
	}
	return &ResourceBanner{Path: path}
}

func (p *Printer) warnSkipped(err error, path, msg string) {
	logger := p.log.Logger()
	logger.Warn().Err(err).Str("path", path).Msg(msg)
}

func (p *Printer) imageResource(env *Environment) Banner {
	if p.resources == nil {
		return nil
	}
	candidates := DefaultImageLocations
	if loc, ok := env.Lookup("banner.image.location"); ok {
		candidates = []string{env.Resolve(loc)}
	}
	for _, path := range candidates {
		if !exists(p.resources, path) {
			continue
		}
		if _, err := readImageOptions(env); err != nil {
			p.warnSkipped(err, path, "skipping banner image with invalid settings")
			return nil
		}
		if err := CheckImage(p.resources, path); err != nil {
			p.warnSkipped(err, path, "skipping unreadable banner image")
			continue
		}
		return &ImageBanner{Path: path}
	}
	return nil
}

func exists(fsys fs.FS, path string) bool {
	if !fs.ValidPath(path) {
		return false
	}
	info, err := fs.Stat(fsys, path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// errBannerNotRegistered is returned when a lookup finds no banner record.
var errBannerNotRegistered = errors.New("bootbanner: no startup banner registered")
