// Copyright 2024 LatentFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vfind/internal/common"
	"vfind/internal/listing"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit statuses of the vfind command.
const (
	ExitOK      = 0
	ExitNoMatch = 1
	ExitUsage   = 255
)

// newLister returns the listing collaborator used by searches.
var newLister = func() listing.Lister {
	return listing.OS()
}

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// getVersionString returns the version string with build info
func getVersionString() string {
	buildDate := formatBuildDate(date)
	if strings.HasSuffix(version, "-dev") {
		// Dev build: include epoch and commit for troubleshooting
		return fmt.Sprintf("%s (%s, epoch: %s, commit: %s)", version, buildDate, date, commit)
	}
	return fmt.Sprintf("%s (%s)", version, buildDate)
}

// formatBuildDate converts epoch timestamp to readable date
func formatBuildDate(epoch string) string {
	ts, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return epoch
	}
	return time.Unix(ts, 0).Format("2006-01-02")
}

const rootLong = `Find matching filenames in a directory tree.

Each argument is a filename pattern, optionally prefixed by the directory to
search. The directory and all of its subdirectories are searched for entries
whose names match the pattern.

Dates (-d) have the form [YY]YY[-MM[-DD]][:HH[:MM[:SS]]], or are one of
"now", "today" (00:00 today), "yesterday" or "tomorrow". A leading '+'
selects entries modified at or after the date, '-' at or before it, and
'!' any other time. Two -d options give a range of dates.

Sizes (-s) are a number of bytes with an optional k, m or g suffix
(1,024, 1,048,576 and 1,073,741,824 bytes). The '+', '-' and '!' prefixes
select at least, at most and not that size. Two -s options give a range.

Types (-t) are one or more of these letters, or-ed together; a leading '!'
selects entries of none of the types:
    a  Archive          f  File             s  System
    b  Device           h  Hidden           t  Temporary
    c  Compressed       l  Volume label     v  Virtual
    d  Directory        o  Offline          w  Writable
    e  Encrypted        r  Read only

Filenames can contain wildcard characters:
    ?       Matches any single character (including '.').
    *       Matches zero or more characters (including '.').
    [abc]   Matches 'a', 'b', or 'c'.
    [a-z]   Matches 'a' through 'z'.
    [!a-z]  Matches any character except 'a' through 'z'.
    ` + "`" + `X      Matches X exactly (X can be a wildcard character).
    !X      Matches any filename except X.

Quote patterns so the shell does not expand them.

Defaults for -z, -l, -n, --gitignore, --color and -x can be set in
~/.vfind/settings.yaml (or $VFIND_CONFIG_DIR/settings.yaml).

Exit status is 0 when at least one entry matched, 1 when nothing matched and
255 for usage errors.`

const rootExample = `  vfind '*.go'
  vfind -l -n 'src/*.[ch]'
  vfind -d +2024-01-01 -d -2024-06-30 '*.log'
  vfind -s +1m -t f /var/log/'*'
  vfind --gitignore -x 'vendor/**' '*_test.go'`

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "vfind [flags] [path/]pattern...",
		Short:         "Find matching filenames in a directory tree",
		Long:          rootLong,
		Example:       rootExample,
		Version:       getVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.initConfig {
				return fmt.Errorf("%w: missing filename pattern", common.ErrUsage)
			}
			return nil
		},
		RunE: opts.run,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("vfind version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", common.ErrUsage, err)
	})
	opts.register(cmd)
	return cmd
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps the result of Execute to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, common.ErrUsage):
		return ExitUsage
	default:
		return ExitNoMatch
	}
}
