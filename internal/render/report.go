package render

import "github.com/chmouel/lazystatus/internal/models"

// Report is the stable machine-readable form of a status summary.
type Report struct {
	Root       string              `json:"root,omitempty" yaml:"root,omitempty"`
	Branch     BranchReport        `json:"branch" yaml:"branch"`
	Clean      bool                `json:"clean" yaml:"clean"`
	Staged     []string            `json:"staged" yaml:"staged"`
	Created    []string            `json:"created" yaml:"created"`
	Modified   []string            `json:"modified" yaml:"modified"`
	Deleted    []string            `json:"deleted" yaml:"deleted"`
	Renamed    []models.RenamePair `json:"renamed" yaml:"renamed"`
	Conflicted []string            `json:"conflicted" yaml:"conflicted"`
	NotAdded   []string            `json:"not_added" yaml:"not_added"`
	Ignored    []string            `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Files      []FileReport        `json:"files" yaml:"files"`
	Error      string              `json:"error,omitempty" yaml:"error,omitempty"`
}

// BranchReport holds the header information.
type BranchReport struct {
	Current  *string `json:"current" yaml:"current"`
	Tracking *string `json:"tracking" yaml:"tracking"`
	Ahead    int     `json:"ahead" yaml:"ahead"`
	Behind   int     `json:"behind" yaml:"behind"`
	Detached bool    `json:"detached" yaml:"detached"`
}

// FileReport is one file entry with its status columns spelled out.
type FileReport struct {
	Path       string `json:"path" yaml:"path"`
	From       string `json:"from,omitempty" yaml:"from,omitempty"`
	Index      string `json:"index" yaml:"index"`
	WorkingDir string `json:"working_dir" yaml:"working_dir"`
}

// NewReport converts a summary into a Report.
func NewReport(s *models.StatusSummary) Report {
	files := make([]FileReport, 0, len(s.Files))
	for _, f := range s.Files {
		files = append(files, FileReport{
			Path:       f.Path,
			From:       f.From,
			Index:      f.Index.String(),
			WorkingDir: f.WorkingDir.String(),
		})
	}

	return Report{
		Branch: BranchReport{
			Current:  s.Current,
			Tracking: s.Tracking,
			Ahead:    s.Ahead,
			Behind:   s.Behind,
			Detached: s.Detached,
		},
		Clean:      s.IsClean(),
		Staged:     nonNil(s.Staged),
		Created:    nonNil(s.Created),
		Modified:   nonNil(s.Modified),
		Deleted:    nonNil(s.Deleted),
		Renamed:    nonNilPairs(s.Renamed),
		Conflicted: nonNil(s.Conflicted),
		NotAdded:   nonNil(s.NotAdded),
		Ignored:    s.Ignored,
		Files:      files,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilPairs(values []models.RenamePair) []models.RenamePair {
	if values == nil {
		return []models.RenamePair{}
	}
	return values
}
