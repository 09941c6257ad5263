// Package diff turns unified-diff text into structured per-file line changes.
package diff

import (
	"regexp"
	"strings"

	"github.com/femakin/CodePullAI/internal/domain"
)

var fileHeaderRegex = regexp.MustCompile(`(?m)^diff --git `)

// Parse splits a unified diff into file blocks and extracts the added and
// removed lines of each block. It never fails: empty or malformed input
// yields an empty slice, which callers treat as "nothing to review".
func Parse(diffText string) []domain.FileChange {
	var files []domain.FileChange

	blocks := fileHeaderRegex.Split(diffText, -1)
	if len(blocks) < 2 {
		return files
	}

	for _, block := range blocks[1:] {
		lines := strings.Split(block, "\n")
		files = append(files, domain.FileChange{
			Filename: blockFilename(lines[0]),
			Changes:  blockChanges(lines),
		})
	}

	return files
}

// blockFilename pulls the new-file path out of a "a/... b/..." header line.
func blockFilename(headerLine string) string {
	idx := strings.LastIndex(headerLine, " b/")
	if idx < 0 {
		return "unknown"
	}
	name := strings.TrimSpace(headerLine[idx+len(" b/"):])
	if name == "" {
		return "unknown"
	}
	return name
}

func blockChanges(lines []string) []domain.LineEdit {
	var changes []domain.LineEdit
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			changes = append(changes, domain.LineEdit{Kind: domain.ChangeAdded, Content: line[1:]})
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			changes = append(changes, domain.LineEdit{Kind: domain.ChangeRemoved, Content: line[1:]})
		}
	}
	return changes
}
