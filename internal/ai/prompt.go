package ai

import (
	"fmt"
	"strings"

	"github.com/femakin/CodePullAI/internal/domain"
)

const systemPrompt = "You are an expert code reviewer. Always respond with valid JSON arrays only."

// BuildPrompt renders the PR title and every file's line edits into a single
// review prompt asking for a strict JSON array response.
func BuildPrompt(files []domain.FileChange, prTitle string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert code reviewer. Analyze the following code changes from a pull request titled %q.\n\n", prTitle)
	sb.WriteString("Provide specific, actionable feedback focusing on:\n")
	sb.WriteString("1. Potential bugs or errors\n")
	sb.WriteString("2. Security vulnerabilities\n")
	sb.WriteString("3. Performance improvements\n")
	sb.WriteString("4. Code style and best practices\n")
	sb.WriteString("5. Maintainability concerns\n\n")
	sb.WriteString("Code changes:\n")

	for i, file := range files {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "File: %s", file.Filename)
		for _, change := range file.Changes {
			marker := "-"
			if change.Kind == domain.ChangeAdded {
				marker = "+"
			}
			fmt.Fprintf(&sb, "\n%s %s", marker, change.Content)
		}
	}

	sb.WriteString("\n\nIMPORTANT: Return ONLY a valid JSON array. Each object must have exactly these fields:\n")
	sb.WriteString("- \"file\": string (filename)\n")
	sb.WriteString("- \"line\": string (line content)\n")
	sb.WriteString("- \"comment\": string (your review comment)\n")
	sb.WriteString("- \"severity\": string (\"low\", \"medium\", or \"high\")\n\n")
	sb.WriteString("Example format:\n")
	sb.WriteString(`[{"file":"example.js","line":"const x = 1","comment":"Consider using more descriptive variable names","severity":"low"}]`)

	return sb.String()
}
