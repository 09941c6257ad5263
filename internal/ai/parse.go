package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/femakin/CodePullAI/internal/domain"
)

var (
	fencedArrayRegex   = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	bracketedRegex     = regexp.MustCompile(`(?s)\[.*\]`)
	fenceMarkerRegex   = regexp.MustCompile("```json\\s*|\\s*```")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	commentObjectRegex = regexp.MustCompile(`\{"file"[^}]*\}`)
)

// decodeStrategy attempts to recover a comment array from raw model output.
// A true result terminates the chain even when the recovered array is empty.
type decodeStrategy func(content string) ([]domain.ReviewComment, bool)

var decodeStrategies = []struct {
	name string
	fn   decodeStrategy
}{
	{"direct", decodeDirect},
	{"fenced", decodeFenced},
	{"bracketed", decodeBracketed},
	{"repaired", decodeRepaired},
	{"objects", decodeObjects},
}

// ParseReview decodes model output into validated review comments, trying
// each strategy in order. When nothing salvages an array it returns an empty
// result rather than an error.
func ParseReview(content string) []domain.ReviewComment {
	for _, strategy := range decodeStrategies {
		if comments, ok := strategy.fn(content); ok {
			return comments
		}
	}
	return nil
}

// decodeDirect parses the whole response as a JSON array.
func decodeDirect(content string) ([]domain.ReviewComment, bool) {
	return decodeArray(content)
}

// decodeFenced extracts a ```json fenced block and parses its contents.
func decodeFenced(content string) ([]domain.ReviewComment, bool) {
	match := fencedArrayRegex.FindStringSubmatch(content)
	if match == nil {
		return nil, false
	}
	return decodeArray(match[1])
}

// decodeBracketed parses the first [...]-bracketed substring.
func decodeBracketed(content string) ([]domain.ReviewComment, bool) {
	match := bracketedRegex.FindString(content)
	if match == "" {
		return nil, false
	}
	return decodeArray(match)
}

// decodeRepaired applies light textual repair before parsing.
func decodeRepaired(content string) ([]domain.ReviewComment, bool) {
	return decodeArray(repairText(content))
}

// decodeObjects salvages individual {"file"...} objects when the surrounding
// array is beyond repair. Objects that fail to parse or validate are skipped.
func decodeObjects(content string) ([]domain.ReviewComment, bool) {
	if !strings.Contains(content, `{"file"`) {
		return nil, false
	}
	matches := commentObjectRegex.FindAllString(content, -1)
	if matches == nil {
		return nil, false
	}

	var comments []domain.ReviewComment
	for _, match := range matches {
		var obj map[string]any
		if err := json.Unmarshal([]byte(match), &obj); err != nil {
			continue
		}
		if comment, ok := validComment(obj); ok {
			comments = append(comments, comment)
		}
	}
	return comments, true
}

func decodeArray(text string) ([]domain.ReviewComment, bool) {
	var items []any
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, false
	}

	var comments []domain.ReviewComment
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if comment, ok := validComment(obj); ok {
			comments = append(comments, comment)
		}
	}
	return comments, true
}

// validComment checks that file, line, comment, and severity are all present
// and string-typed; invalid objects are dropped, not coerced. Valid objects
// get their severity clamped to the known set.
func validComment(obj map[string]any) (domain.ReviewComment, bool) {
	file, ok := obj["file"].(string)
	if !ok {
		return domain.ReviewComment{}, false
	}
	line, ok := obj["line"].(string)
	if !ok {
		return domain.ReviewComment{}, false
	}
	comment, ok := obj["comment"].(string)
	if !ok {
		return domain.ReviewComment{}, false
	}
	severity, ok := obj["severity"].(string)
	if !ok {
		return domain.ReviewComment{}, false
	}

	return domain.ReviewComment{
		File:     file,
		Line:     line,
		Comment:  comment,
		Severity: domain.NormalizeSeverity(severity),
	}, true
}

// repairText fixes the JSON defects models most often produce: stray fence
// markers, trailing commas, single quotes, and prose around the array.
func repairText(content string) string {
	content = fenceMarkerRegex.ReplaceAllString(content, "")
	content = trailingCommaRegex.ReplaceAllString(content, "$1")
	content = strings.ReplaceAll(content, "'", `"`)

	if idx := strings.Index(content, "["); idx >= 0 {
		content = content[idx:]
	} else {
		return ""
	}
	if idx := strings.LastIndex(content, "]"); idx >= 0 {
		content = content[:idx+1]
	} else {
		return ""
	}
	return content
}
