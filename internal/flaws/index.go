package flaws

// LineWindow is how far, in lines, a pipeline finding may drift between
// scans and still match an existing issue.
const LineWindow = 10

// Index is the per-run set of findings already imported as issues.
type Index interface {
	// Record adds the identity token of an existing issue.
	Record(token string) error
	// Len returns the number of recorded issues.
	Len() int
}

type pipelineEntry struct {
	cwe  string
	line int
}

// PipelineIndex groups imported pipeline findings by file.
type PipelineIndex struct {
	files map[string][]pipelineEntry
	count int
}

// NewPipelineIndex returns an empty index.
func NewPipelineIndex() *PipelineIndex {
	return &PipelineIndex{files: make(map[string][]pipelineEntry)}
}

// Record parses a pipeline token and adds it to the index.
func (x *PipelineIndex) Record(token string) error {
	id, err := ParsePipelineIdentity(token)
	if err != nil {
		return err
	}
	x.Add(id)
	return nil
}

// Add adds an identity to the index.
func (x *PipelineIndex) Add(id PipelineIdentity) {
	x.files[id.File] = append(x.files[id.File], pipelineEntry{cwe: id.CWE, line: id.Line})
	x.count++
}

// Exists reports whether an issue for the same file and weakness class was
// imported within LineWindow lines of id.
func (x *PipelineIndex) Exists(id PipelineIdentity) bool {
	for _, e := range x.files[id.File] {
		if e.cwe != id.CWE {
			continue
		}
		if abs(e.line-id.Line) <= LineWindow {
			return true
		}
	}
	return false
}

// Len returns the number of recorded issues.
func (x *PipelineIndex) Len() int { return x.count }

// PolicyIndex is the set of imported policy finding ids.
type PolicyIndex struct {
	seen map[int]struct{}
}

// NewPolicyIndex returns an empty index.
func NewPolicyIndex() *PolicyIndex {
	return &PolicyIndex{seen: make(map[int]struct{})}
}

// Record parses a policy token and adds it to the index.
func (x *PolicyIndex) Record(token string) error {
	id, err := ParsePolicyIdentity(token)
	if err != nil {
		return err
	}
	x.Add(id)
	return nil
}

// Add marks an identity as imported.
func (x *PolicyIndex) Add(id PolicyIdentity) {
	x.seen[id.IssueID] = struct{}{}
}

// Exists reports whether the finding id was imported.
func (x *PolicyIndex) Exists(id PolicyIdentity) bool {
	_, ok := x.seen[id.IssueID]
	return ok
}

// Len returns the number of recorded issues.
func (x *PolicyIndex) Len() int { return len(x.seen) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
