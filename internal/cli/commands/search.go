package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vfind/internal/common"
	"vfind/internal/config"
	"vfind/internal/criteria"
	"vfind/internal/filter"
	"vfind/internal/report"
	"vfind/internal/walk"
)

// options holds the flag values of one invocation.
type options struct {
	all        bool
	almostAll  bool
	dates      specList
	sizes      specList
	typeSpec   string
	nameOnly   bool
	long       bool
	summary    bool
	noRecurse  bool
	verbose    bool
	utc        bool
	debug      bool
	gitignore  bool
	excludes   []string
	color      string
	initConfig bool
}

func (o *options) register(cmd *cobra.Command) {
	o.dates = specList{name: "date", max: criteria.MaxConstraints}
	o.sizes = specList{name: "size", max: criteria.MaxConstraints}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&o.all, "all", "a", false, "Print all matching entries, including hidden ones and \".\" and \"..\"")
	flags.BoolVarP(&o.almostAll, "almost-all", "A", false, "Print all matching entries except \".\" and \"..\"")
	flags.VarP(&o.dates, "date", "d", "Entries modified [after|before|not] date `[+|-|!]D` (repeat once for a range)")
	flags.VarP(&o.sizes, "size", "s", "Entries [at least|at most|not] `[+|-|!]N` bytes (repeat once for a range)")
	flags.StringVarP(&o.typeSpec, "type", "t", "", "Entries [not] of `[!]TYPE` letters")
	flags.BoolVarP(&o.nameOnly, "name-only", "f", false, "Show filenames without drive or path prefixes")
	flags.BoolVarP(&o.long, "long", "l", false, "Long listing with attributes, size and modification time")
	flags.BoolVarP(&o.summary, "summary", "n", false, "Show a summary for each search")
	flags.BoolVarP(&o.noRecurse, "no-recurse", "r", false, "Do not search subdirectories")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Print each directory as it is searched")
	flags.BoolVarP(&o.utc, "utc", "z", false, "Dates and times are UTC")
	flags.BoolVarP(&o.debug, "debug", "D", false, "Enable debugging trace output on stderr")
	flags.BoolVar(&o.gitignore, "gitignore", false, "Skip entries ignored by .gitignore files")
	flags.StringArrayVarP(&o.excludes, "exclude", "x", nil, "Skip paths matching `GLOB` (repeatable)")
	flags.StringVar(&o.color, "color", config.ColorAuto, "Colored output: auto, always or never")
	flags.BoolVar(&o.initConfig, "init-config", false, "Write the default settings file if it does not exist")
}

// applySettings copies settings into every option not set on the command line.
func (o *options) applySettings(flags *pflag.FlagSet, s *config.Settings) {
	if !flags.Changed("utc") {
		o.utc = s.UTC
	}
	if !flags.Changed("long") {
		o.long = s.Long
	}
	if !flags.Changed("summary") {
		o.summary = s.Summary
	}
	if !flags.Changed("gitignore") {
		o.gitignore = s.Gitignore
	}
	if !flags.Changed("color") {
		o.color = s.Color
	}
	o.excludes = append(append([]string(nil), s.Excludes...), o.excludes...)
}

func (o *options) location() *time.Location {
	if o.utc {
		return time.UTC
	}
	return time.Local
}

// buildCriteria parses the criteria flags. Dates are relative to now.
func (o *options) buildCriteria(now time.Time) (*criteria.Criteria, error) {
	c := criteria.New()
	c.Location = o.location()

	for _, spec := range o.dates.values {
		d, err := criteria.ParseDate(spec, now, c.Location)
		if err != nil {
			return nil, err
		}
		if err := c.AddDate(d); err != nil {
			return nil, err
		}
	}
	for _, spec := range o.sizes.values {
		s, err := criteria.ParseSize(spec)
		if err != nil {
			return nil, err
		}
		if err := c.AddSize(s); err != nil {
			return nil, err
		}
	}
	if o.typeSpec != "" {
		f, err := criteria.ParseType(o.typeSpec)
		if err != nil {
			return nil, err
		}
		c.Type = f
	}

	switch {
	case o.all:
		c.Visibility = criteria.AllIncludingDotDirs
	case o.almostAll:
		c.Visibility = criteria.AllExceptDotDirs
	default:
		c.Visibility = criteria.VisibleOnly
	}
	return c, nil
}

func (o *options) walkOptions() walk.Options {
	opts := walk.DefaultOptions()
	if o.noRecurse {
		opts.Recurse = false
	}
	opts.NameOnly = o.nameOnly
	opts.LongList = o.long
	opts.Summary = o.summary
	opts.Verbose = o.verbose
	return opts
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	o.applySettings(cmd.Flags(), settings)
	if err := setupLogging(stderr, settings, o.debug); err != nil {
		return err
	}

	if o.initConfig {
		path, err := config.InitSettings()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Settings: %s\n", path)
		if len(args) == 0 {
			return nil
		}
	}

	c, err := o.buildCriteria(time.Now())
	if err != nil {
		return err
	}
	rules, err := filter.New(o.gitignore, o.excludes)
	if err != nil {
		return err
	}
	colorMode, err := config.ParseColor(o.color)
	if err != nil {
		return err
	}

	sink := report.NewText(stdout, c.Location, useColor(colorMode, stdout))
	errColor := color.New(color.FgRed)
	if useColor(colorMode, stderr) {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}

	engine := walk.New(newLister(), c, sink, o.walkOptions())
	if rules.Active() {
		engine.Rules = rules
	}
	engine.OnError = func(err error) {
		fmt.Fprintln(stderr, errColor.Sprintf("vfind: %v", err))
	}
	log.Debugf("[CLI] roots=%q dates=%d sizes=%d visibility=%d", args, len(c.Dates), len(c.Sizes), c.Visibility)

	var total walk.Count
	matches := 0
	for i, root := range args {
		if o.summary && i > 0 {
			fmt.Fprintln(stdout)
		}
		var count walk.Count
		matches += engine.Search(root, &count)
		if o.summary {
			sink.EmitSummary(&count)
		}
		total.Add(&count)
	}
	if o.summary && len(args) > 1 {
		sink.EmitGrandTotal(&total)
	}

	if matches == 0 {
		return common.ErrNoMatches
	}
	return nil
}

// setupLogging sends logrus output to stderr at the configured level; -D
// raises it to at least debug.
func setupLogging(out io.Writer, s *config.Settings, debug bool) error {
	level, err := s.Level()
	if err != nil {
		return err
	}
	if debug && level < log.DebugLevel {
		level = log.DebugLevel
	}
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(level)
	return nil
}

// useColor decides whether output to w is colored.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// specList collects a repeatable flag with an upper bound on its count.
type specList struct {
	name   string
	max    int
	values []string
}

func (l *specList) String() string {
	return strings.Join(l.values, ",")
}

func (l *specList) Set(v string) error {
	if len(l.values) >= l.max {
		return fmt.Errorf("at most %d %s options are allowed", l.max, l.name)
	}
	l.values = append(l.values, v)
	return nil
}

func (l *specList) Type() string {
	return "spec"
}
