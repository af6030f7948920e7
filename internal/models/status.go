package models

// FileStatus is one column of a porcelain status code.
type FileStatus byte

// Porcelain status characters.
const (
	StatusAdded     FileStatus = 'A'
	StatusDeleted   FileStatus = 'D'
	StatusModified  FileStatus = 'M'
	StatusRenamed   FileStatus = 'R'
	StatusCopied    FileStatus = 'C'
	StatusUnmerged  FileStatus = 'U'
	StatusUntracked FileStatus = '?'
	StatusIgnored   FileStatus = '!'
	StatusNone      FileStatus = ' '
)

// String returns the status character.
func (s FileStatus) String() string {
	return string(rune(s))
}

// RenamePair records a rename; From equals To when git reported a single path.
type RenamePair struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// FileStatusSummary is a single file entry from git status.
type FileStatusSummary struct {
	Path       string     // Destination path for renames
	From       string     // Rename source, empty otherwise
	Index      FileStatus // X column
	WorkingDir FileStatus // Y column
}

// Code returns the two character XY status code.
func (f FileStatusSummary) Code() string {
	return string([]byte{byte(f.Index), byte(f.WorkingDir)})
}

// StatusSummary is the decoded form of `git status --porcelain -b -z`.
type StatusSummary struct {
	NotAdded   []string
	Conflicted []string
	Created    []string
	Deleted    []string
	Modified   []string
	Renamed    []RenamePair
	Ignored    []string // nil until the first ignored entry is seen
	Files      []FileStatusSummary
	Staged     []string
	Ahead      int
	Behind     int
	Current    *string
	Tracking   *string
	Detached   bool
}

// NewStatusSummary returns an empty summary ready to be filled by a decoder.
func NewStatusSummary() *StatusSummary {
	return &StatusSummary{
		NotAdded:   []string{},
		Conflicted: []string{},
		Created:    []string{},
		Deleted:    []string{},
		Modified:   []string{},
		Renamed:    []RenamePair{},
		Files:      []FileStatusSummary{},
		Staged:     []string{},
	}
}

// IsClean reports whether git listed no file entries.
func (s *StatusSummary) IsClean() bool {
	return len(s.Files) == 0
}

// CurrentBranch returns the current branch or an empty string.
func (s *StatusSummary) CurrentBranch() string {
	if s.Current == nil {
		return ""
	}
	return *s.Current
}

// TrackingBranch returns the upstream branch or an empty string.
func (s *StatusSummary) TrackingBranch() string {
	if s.Tracking == nil {
		return ""
	}
	return *s.Tracking
}
