package domain

import (
	"github.com/invopop/jsonschema"
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ReviewComment is one piece of AI feedback on a pull request. Line holds
// the content of the offending line, not a line number.
type ReviewComment struct {
	File     string `json:"file"`
	Line     string `json:"line"`
	Comment  string `json:"comment"`
	Severity string `json:"severity"`
}

// ReviewBatch wraps the comment list in an object envelope, which is what
// structured-output backends require at the top level.
type ReviewBatch struct {
	Comments []ReviewComment `json:"comments"`
}

// NormalizeSeverity clamps a severity value to the known set, defaulting
// anything unrecognized to medium.
func NormalizeSeverity(severity string) string {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return severity
	default:
		return SeverityMedium
	}
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// Generate the JSON schema at initialization time
var ReviewBatchSchema = GenerateSchema[ReviewBatch]()
