package domain

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
)

// LineEdit is one changed line from a diff, with the +/- marker stripped.
type LineEdit struct {
	Kind    ChangeKind `json:"type"`
	Content string     `json:"content"`
}

// FileChange is one file touched by a diff, with its edits in diff order.
type FileChange struct {
	Filename string     `json:"filename"`
	Changes  []LineEdit `json:"changes"`
}
