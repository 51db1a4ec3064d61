// Package filter prunes entries by .gitignore rules and exclude globs.
//
// Paths handed to the filter are slash-separated and relative to the search
// root, the directory the search started listing. The root itself is "".
package filter

import (
	"fmt"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	log "github.com/sirupsen/logrus"

	"vfind/internal/common"
)

// IgnoreFile is the per-directory ignore file read when gitignore support is on.
const IgnoreFile = ".gitignore"

// ReadFunc reads a file for the filter, typically listing.Lister.ReadFile.
type ReadFunc func(path string) ([]byte, error)

// Rules are the ignore settings of one invocation.
type Rules struct {
	gitignore bool
	excludes  []excludePattern
}

type excludePattern struct {
	pattern   string
	dirOnly   bool
	matchLeaf bool
}

// New validates the exclude globs and returns the rule set.
func New(gitignore bool, excludes []string) (*Rules, error) {
	r := &Rules{gitignore: gitignore}
	for _, raw := range excludes {
		p := filepath.ToSlash(strings.TrimSpace(raw))
		if p == "" {
			continue
		}
		p = strings.TrimPrefix(p, "./")

		var dirOnly bool
		if len(p) > 1 && strings.HasSuffix(p, "/") {
			dirOnly = true
			p = strings.TrimSuffix(p, "/")
		}

		// Validate against a non-empty path so bad patterns are reported.
		if _, err := doublestar.Match(p, "a"); err != nil {
			return nil, fmt.Errorf("%w: invalid exclude pattern %q: %w", common.ErrUsage, raw, err)
		}
		r.excludes = append(r.excludes, excludePattern{
			pattern:   p,
			dirOnly:   dirOnly,
			matchLeaf: !strings.Contains(p, "/"),
		})
	}
	return r, nil
}

// Active reports whether any rule can ignore an entry.
func (r *Rules) Active() bool {
	return r != nil && (r.gitignore || len(r.excludes) > 0)
}

// Scope is the chain of .gitignore matchers that applies inside a directory.
type Scope struct {
	parent  *Scope
	rel     string
	matcher *ignore.GitIgnore
}

// Enter returns the scope for directory dir, located at rel below the search
// root. When the directory has its own ignore file a new scope is pushed on
// top of parent; otherwise parent is returned unchanged.
func (r *Rules) Enter(parent *Scope, dir, rel string, read ReadFunc) *Scope {
	if r == nil || !r.gitignore || read == nil {
		return parent
	}

	name := filepath.Join(dir, IgnoreFile)
	data, err := read(name)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debugf("[FILTER] failed to read %s: %v", name, err)
		}
		return parent
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	log.Debugf("[FILTER] loaded %s (%d lines)", name, len(lines))
	return &Scope{
		parent:  parent,
		rel:     rel,
		matcher: ignore.CompileIgnoreLines(lines...),
	}
}

// Ignored reports whether the entry at rel must be skipped.
func (r *Rules) Ignored(scope *Scope, rel string, isDir bool) bool {
	if r == nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, p := range r.excludes {
		if p.matches(rel, isDir) {
			if log.IsLevelEnabled(log.TraceLevel) {
				log.Tracef("[FILTER] %s excluded by %q", rel, p.pattern)
			}
			return true
		}
	}

	for s := scope; s != nil; s = s.parent {
		local, ok := s.localPath(rel)
		if !ok {
			continue
		}
		if isDir {
			local += "/"
		}
		if s.matcher.MatchesPath(local) {
			if log.IsLevelEnabled(log.TraceLevel) {
				log.Tracef("[FILTER] %s ignored by %s", rel, pathpkg.Join(s.rel, IgnoreFile))
			}
			return true
		}
	}
	return false
}

// localPath returns rel relative to the directory owning the scope.
func (s *Scope) localPath(rel string) (string, bool) {
	if s.rel == "" {
		return rel, true
	}
	prefix := s.rel + "/"
	if !strings.HasPrefix(rel, prefix) {
		return "", false
	}
	return rel[len(prefix):], true
}

func (p excludePattern) matches(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if match, _ := doublestar.Match(p.pattern, rel); match {
		return true
	}
	if p.matchLeaf && rel != "" {
		if match, _ := doublestar.Match(p.pattern, pathpkg.Base(rel)); match {
			return true
		}
	}
	return false
}
