package model

// ProblemKind classifies a validation finding.
type ProblemKind string

const (
	ProblemController ProblemKind = "controller"
	ProblemMethod     ProblemKind = "method"
	ProblemTarget     ProblemKind = "target"
	ProblemProperty   ProblemKind = "property"
)

// Problem is an unresolved reference found by a project check.
type Problem struct {
	File    string
	Line    int
	Column  int
	Kind    ProblemKind
	Text    string
	Message string
}

// Usage is one resolved controller reference from a markup file.
type Usage struct {
	File       string // markup file
	Line       int
	Identifier string
	Target     string // controller file
}

// Dependency is an edge from a markup file to a controller file.
type Dependency struct {
	Source      string
	Target      string
	Identifiers []string
}

// ControllerUsage summarizes how one controller file is used.
type ControllerUsage struct {
	Identifier string
	File       string
	References int
	Rank       float64
}

// Unused reports whether no markup file references the controller.
func (c ControllerUsage) Unused() bool {
	return c.References == 0
}

// UsageReport is the project-wide controller usage graph.
type UsageReport struct {
	Root         string
	Controllers  []ControllerUsage
	Dependencies []Dependency
	Usages       []Usage
}
