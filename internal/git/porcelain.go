package git

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/utils"
)

// recordSep separates records in `git status -z` output. Rename records use
// it a second time between the destination and the source path.
const recordSep = "\x00"

// statusCode is the XY pair at the start of a porcelain record.
type statusCode struct {
	index      models.FileStatus
	workingDir models.FileStatus
}

func (c statusCode) String() string {
	return string([]byte{byte(c.index), byte(c.workingDir)})
}

var (
	branchCode  = statusCode{'#', '#'}
	ignoredCode = statusCode{models.StatusIgnored, models.StatusIgnored}
)

// effect lists what a status code does to the summary.
type effect uint16

const (
	effectCreated effect = 1 << iota
	effectDeleted
	effectModified
	effectStaged
	effectRenamed
	effectRenamedModified
	effectIgnored
	effectNotAdded
	effectConflicted
	effectBranch
)

type codeEntry struct {
	code   statusCode
	effect effect
}

func entry(index, workingDir models.FileStatus, e effect) codeEntry {
	return codeEntry{code: statusCode{index, workingDir}, effect: e}
}

// conflicts pairs primary with each of the other statuses as an unmerged entry.
func conflicts(primary models.FileStatus, others ...models.FileStatus) []codeEntry {
	entries := make([]codeEntry, 0, len(others))
	for _, other := range others {
		entries = append(entries, entry(primary, other, effectConflicted))
	}
	return entries
}

func buildCodeTable(groups ...[]codeEntry) map[statusCode]effect {
	table := make(map[statusCode]effect)
	for _, group := range groups {
		for _, e := range group {
			table[e.code] = e.effect
		}
	}
	return table
}

var codeTable = buildCodeTable(
	[]codeEntry{
		entry(models.StatusNone, models.StatusAdded, effectCreated),
		entry(models.StatusNone, models.StatusDeleted, effectDeleted),
		entry(models.StatusNone, models.StatusModified, effectModified),

		entry(models.StatusAdded, models.StatusNone, effectCreated|effectStaged),
		entry(models.StatusAdded, models.StatusModified, effectCreated|effectStaged|effectModified),

		entry(models.StatusDeleted, models.StatusNone, effectDeleted|effectStaged),

		entry(models.StatusModified, models.StatusNone, effectModified|effectStaged),
		entry(models.StatusModified, models.StatusModified, effectModified|effectStaged),

		entry(models.StatusRenamed, models.StatusNone, effectRenamed),
		entry(models.StatusRenamed, models.StatusModified, effectRenamedModified),

		entry(models.StatusIgnored, models.StatusIgnored, effectIgnored),
		entry(models.StatusUntracked, models.StatusUntracked, effectNotAdded),
		{code: branchCode, effect: effectBranch},
	},
	conflicts(models.StatusAdded, models.StatusAdded, models.StatusUnmerged),
	conflicts(models.StatusDeleted, models.StatusDeleted, models.StatusUnmerged),
	conflicts(models.StatusUnmerged, models.StatusAdded, models.StatusDeleted, models.StatusUnmerged),
)

var (
	aheadRe         = regexp.MustCompile(`ahead (\d+)`)
	behindRe        = regexp.MustCompile(`behind (\d+)`)
	currentRe       = regexp.MustCompile(`^(.+?)(?:\.{3}|\s|$)`)
	trackingRe      = regexp.MustCompile(`\.{3}(\S*)`)
	onEmptyBranchRe = regexp.MustCompile(`\son\s(\S+?)(?:\.{3}|$)`)
)

// ParseStatusSummary decodes the output of `git status --porcelain -b -z`.
// Unknown codes and malformed records are skipped.
func ParseStatusSummary(text string) *models.StatusSummary {
	tokens := strings.Split(text, recordSep)
	summary := models.NewStatusSummary()

	for i := 0; i < len(tokens); {
		line := strings.TrimSpace(tokens[i])
		i++

		if line == "" {
			continue
		}

		// The rename source is the next record.
		if models.FileStatus(line[0]) == models.StatusRenamed {
			next := ""
			if i < len(tokens) {
				next = tokens[i]
			}
			i++
			line += recordSep + next
		}

		splitLine(summary, line)
	}

	return summary
}

// splitLine works out the record layout and applies its status code.
func splitLine(summary *models.StatusSummary, record string) {
	trimmed := strings.TrimSpace(record)
	switch {
	case len(trimmed) > 2 && trimmed[2] == ' ':
		applyRecord(summary, statusCode{models.FileStatus(trimmed[0]), models.FileStatus(trimmed[1])}, trimmed[3:])
	case len(trimmed) > 1 && trimmed[1] == ' ':
		applyRecord(summary, statusCode{models.StatusNone, models.FileStatus(trimmed[0])}, trimmed[2:])
	}
}

func applyRecord(summary *models.StatusSummary, code statusCode, path string) {
	e, ok := codeTable[code]
	if !ok {
		return
	}

	file := applyEffect(summary, e, path)

	if code == branchCode || code == ignoredCode {
		return
	}
	file.Index = code.index
	file.WorkingDir = code.workingDir
	summary.Files = append(summary.Files, file)
}

// applyEffect mutates summary and returns the file entry for path.
func applyEffect(summary *models.StatusSummary, e effect, path string) models.FileStatusSummary {
	file := models.FileStatusSummary{Path: path}

	switch {
	case e&effectBranch != 0:
		parseBranchHeader(summary, path)
		return file
	case e&effectIgnored != 0:
		if summary.Ignored == nil {
			summary.Ignored = []string{}
		}
		summary.Ignored = append(summary.Ignored, path)
		return file
	case e&(effectRenamed|effectRenamedModified) != 0:
		renamed := splitRename(path)
		summary.Renamed = append(summary.Renamed, renamed)
		if e&effectRenamedModified != 0 {
			summary.Modified = append(summary.Modified, renamed.To)
		}
		file.Path = renamed.To
		file.From = renamed.From
		return file
	}

	if e&effectCreated != 0 {
		summary.Created = append(summary.Created, path)
	}
	if e&effectDeleted != 0 {
		summary.Deleted = append(summary.Deleted, path)
	}
	if e&effectStaged != 0 {
		summary.Staged = append(summary.Staged, path)
	}
	if e&effectModified != 0 {
		summary.Modified = append(summary.Modified, path)
	}
	if e&effectNotAdded != 0 {
		summary.NotAdded = append(summary.NotAdded, path)
	}
	if e&effectConflicted != 0 {
		summary.Conflicted = append(summary.Conflicted, path)
	}
	return file
}

// splitRename decodes the "to\x00from" payload of a rename record.
func splitRename(path string) models.RenamePair {
	to, from, _ := strings.Cut(path, recordSep)
	if from == "" {
		from = to
	}
	return models.RenamePair{From: from, To: to}
}

// parseBranchHeader reads the `## branch...upstream [ahead N, behind M]` record.
func parseBranchHeader(summary *models.StatusSummary, line string) {
	summary.Ahead = firstInt(aheadRe, line)
	summary.Behind = firstInt(behindRe, line)
	summary.Current = utils.NullableString(firstGroup(currentRe, line))
	summary.Tracking = utils.NullableString(firstGroup(trackingRe, line))

	// "No commits yet on main" and friends name the branch after "on".
	if m := onEmptyBranchRe.FindStringSubmatch(line); m != nil {
		if name := utils.NullableString(m[1]); name != nil {
			summary.Current = name
		}
	}

	summary.Detached = strings.Contains(line, "(no branch)")
}

func firstGroup(re *regexp.Regexp, line string) string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

func firstInt(re *regexp.Regexp, line string) int {
	n, err := strconv.Atoi(firstGroup(re, line))
	if err != nil {
		return 0
	}
	return n
}
