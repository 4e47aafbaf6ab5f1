package term

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// Summary describes a set of items for the properties overlay.
type Summary struct {
	Count    int
	Files    int
	Dirs     int
	Size     int64
	Modified time.Time
	Missing  int
	Name     string // set for a single item
}

// Summarize stats paths. Directory sizes are their own entry size, not the size
// of their contents.
func Summarize(paths []string) Summary {
	sum := Summary{Count: len(paths)}
	if len(paths) == 1 {
		sum.Name = filepath.Base(paths[0])
	}
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			sum.Missing++
			continue
		}
		if info.IsDir() {
			sum.Dirs++
		} else {
			sum.Files++
			sum.Size += info.Size()
		}
		if info.ModTime().After(sum.Modified) {
			sum.Modified = info.ModTime()
		}
	}
	return sum
}

// Lines renders the summary for display.
func (s Summary) Lines() []string {
	var lines []string
	if s.Name != "" {
		lines = append(lines, "Name:     "+s.Name)
	}
	lines = append(lines,
		fmt.Sprintf("Items:    %s (%s files, %s folders)",
			humanize.Comma(int64(s.Count)), humanize.Comma(int64(s.Files)), humanize.Comma(int64(s.Dirs))),
		"Size:     "+humanize.Bytes(uint64(s.Size)),
	)
	if !s.Modified.IsZero() {
		lines = append(lines, "Modified: "+s.Modified.Format("Jan 2, 2006 3:04 PM"))
	}
	if s.Missing > 0 {
		lines = append(lines, fmt.Sprintf("Unreadable: %d", s.Missing))
	}
	return lines
}
