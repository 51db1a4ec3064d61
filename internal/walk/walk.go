// Package walk implements the recursive directory search.
//
// A search path such as "src/*.go" is split into the directory to list
// ("src") and a filename pattern ("*.go"). Every entry of the directory that
// matches the pattern and passes the criteria is reported to the Sink. Unless
// recursion is off, each subdirectory is then searched with the same pattern,
// depth-first, after all entries of the current level.
package walk

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"vfind/internal/common"
	"vfind/internal/criteria"
	"vfind/internal/filter"
	"vfind/internal/listing"
	"vfind/internal/pattern"
)

// Sink receives the results of a search.
type Sink interface {
	// Searching is called before a directory is listed, when verbose.
	Searching(dir string)
	// Emit reports one matching entry at its display path.
	Emit(path string, e listing.Entry, long bool)
	// EmitSummary prints the counts of one search root.
	EmitSummary(c *Count)
	// EmitGrandTotal prints the counts of all search roots.
	EmitGrandTotal(c *Count)
}

// Options control the traversal and what is printed.
type Options struct {
	Recurse  bool
	NameOnly bool
	LongList bool
	Summary  bool
	Verbose  bool
}

// DefaultOptions returns the options used without any flags.
func DefaultOptions() Options {
	return Options{Recurse: true}
}

// Engine searches directory trees through a listing collaborator.
type Engine struct {
	Lister   listing.Lister
	Criteria *criteria.Criteria
	Sink     Sink
	Options  Options

	// Rules prune ignored entries and directories; nil disables pruning.
	Rules *filter.Rules
	// OnError receives problems that do not stop the search. May be nil.
	OnError func(error)
	// MaxPath bounds the paths built while searching; zero means common.MaxPathLength.
	MaxPath int
}

// New creates an engine with the default path limit and no ignore rules.
func New(lister listing.Lister, c *criteria.Criteria, sink Sink, opts Options) *Engine {
	return &Engine{
		Lister:   lister,
		Criteria: c,
		Sink:     sink,
		Options:  opts,
	}
}

// Search finds the entries matching root and tallies them into count. It
// returns the number of matches, which is zero when root is unusable.
func (e *Engine) Search(root string, count *Count) int {
	if count == nil {
		count = &Count{}
	}
	log.Debugf("[WALK] search %q recurse=%v", root, e.Options.Recurse)
	return e.search(root, "", nil, 0, count)
}

func (e *Engine) search(path, rel string, scope *filter.Scope, depth int, count *Count) int {
	sp := common.SplitSearchPath(path)

	if depth == 0 {
		if err := pattern.Validate(sp.Pattern); err != nil {
			e.report(err)
			return 0
		}
	}
	dir := sp.Dir()
	if len(dir) > e.maxPath() {
		e.report(fmt.Errorf("%w: %s", common.ErrPathTooLong, path))
		return 0
	}

	if e.Options.Verbose {
		e.Sink.Searching(dir)
	}
	scope = e.Rules.Enter(scope, dir, rel, e.Lister.ReadFile)

	matches := e.matchEntries(sp, rel, scope, depth, count)
	if !e.Options.Recurse {
		return matches
	}
	return matches + e.searchSubdirs(sp, rel, scope, depth, count)
}

// matchEntries lists every entry of the directory and emits the matches.
func (e *Engine) matchEntries(sp common.SearchPath, rel string, scope *filter.Scope, depth int, count *Count) int {
	dir := sp.Dir()
	it, err := e.Lister.List(dir, listing.ListAll)
	if err != nil {
		if depth == 0 {
			e.report(err)
		} else {
			log.Debugf("[WALK] skipping %s: %v", dir, err)
		}
		return 0
	}
	defer it.Close()

	matches := 0
	for {
		ent, ok := it.Next()
		if !ok {
			break
		}
		if !pattern.Match(sp.Pattern, ent.Name) || !criteria.Include(ent, e.Criteria) {
			continue
		}
		if e.Rules.Ignored(scope, joinRel(rel, ent.Name), ent.IsDir()) {
			continue
		}

		display := sp.Display(ent.Name)
		if e.Options.NameOnly {
			display = ent.Name
		}
		e.Sink.Emit(display, ent, e.Options.LongList)
		count.Tally(ent)
		matches++
	}
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[WALK] %s: %d matches", dir, matches)
	}
	return matches
}

// searchSubdirs recurses into every subdirectory of the directory.
func (e *Engine) searchSubdirs(sp common.SearchPath, rel string, scope *filter.Scope, depth int, count *Count) int {
	dir := sp.Dir()
	it, err := e.Lister.List(dir, listing.ListDirs)
	if err != nil {
		log.Debugf("[WALK] cannot list subdirectories of %s: %v", dir, err)
		return 0
	}
	defer it.Close()

	matches := 0
	for {
		ent, ok := it.Next()
		if !ok {
			break
		}
		if !ent.IsDir() || common.IsDotName(ent.Name) {
			continue
		}
		childRel := joinRel(rel, ent.Name)
		if e.Rules.Ignored(scope, childRel, true) {
			log.Debugf("[WALK] pruned %s", childRel)
			continue
		}

		child := sp.Child(ent.Name)
		if len(child) > e.maxPath() {
			e.report(fmt.Errorf("%w: %s", common.ErrPathTooLong, child))
			continue
		}
		matches += e.search(child, childRel, scope, depth+1, count)
	}
	return matches
}

func (e *Engine) maxPath() int {
	if e.MaxPath > 0 {
		return e.MaxPath
	}
	return common.MaxPathLength
}

func (e *Engine) report(err error) {
	log.Debugf("[WALK] %v", err)
	if e.OnError != nil {
		e.OnError(err)
	}
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
