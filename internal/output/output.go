// Package output renders file listings and walk summaries for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/t3hmun/t3hmun-walk/internal/walk"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders files to w. In text format each path is printed on its own
// line, expanded through template when one is given.
func Write(w io.Writer, files []string, format, template string) error {
	if files == nil {
		files = []string{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(files)
	case FormatText, "":
		for _, f := range files {
			line := f
			if template != "" {
				line = Expand(template, f)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Expand replaces placeholders in template with parts of path:
// {} path, {base} base name, {dir} parent directory, {ext} extension.
// The quoted forms {""}, {"base"}, {"dir"} and {"ext"} insert Go-quoted values.
func Expand(template, path string) string {
	base := filepath.Base(path)
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)

	return strings.NewReplacer(
		`{""}`, strconv.Quote(path),
		`{"base"}`, strconv.Quote(base),
		`{"dir"}`, strconv.Quote(dir),
		`{"ext"}`, strconv.Quote(ext),
		"{}", path,
		"{base}", base,
		"{dir}", dir,
		"{ext}", ext,
	).Replace(template)
}

// Summary prints a one-line account of a finished walk. Colour is used only
// when colored is true.
func Summary(w io.Writer, stats walk.Stats, colored bool) {
	count := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.FgHiBlack)
	if !colored {
		count.DisableColor()
		dim.DisableColor()
	}

	fmt.Fprintf(w, "%s files in %s directories",
		count.Sprint(humanize.Comma(stats.FilesFound)),
		humanize.Comma(stats.DirsListed))
	if stats.DirsPruned > 0 {
		fmt.Fprintf(w, ", %s pruned", humanize.Comma(stats.DirsPruned))
	}
	if stats.EntriesSkipped > 0 {
		fmt.Fprintf(w, ", %s skipped", humanize.Comma(stats.EntriesSkipped))
	}
	fmt.Fprintln(w, dim.Sprintf(" (%s)", stats.ElapsedTime.Round(time.Millisecond)))
}

// Failure prints err in red when colored is true.
func Failure(w io.Writer, err error, colored bool) {
	red := color.New(color.FgRed)
	if !colored {
		red.DisableColor()
	}
	fmt.Fprintln(w, red.Sprintf("walk failed: %v", err))
}

// Progress prints a carriage-return progress line.
func Progress(w io.Writer, stats walk.Stats) {
	fmt.Fprintf(w, "\rListed: %s dirs, found: %s files, %.0f files/s",
		humanize.Comma(stats.DirsListed), humanize.Comma(stats.FilesFound), stats.FilesPerSec)
}
