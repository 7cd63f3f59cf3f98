package entities

// PackageListing is a raw nested package listing, as printed by `npm ls --all --json`.
type PackageListing struct {
	Name         string                     `json:"name,omitempty"`
	Version      string                     `json:"version,omitempty"`
	Size         int64                      `json:"size,omitempty"`
	Dependencies map[string]*PackageListing `json:"dependencies,omitempty"`
}

// DependencyTreeNode is a node of a project's resolved dependency tree. The same
// package may appear under several parents; each occurrence is its own node.
type DependencyTreeNode struct {
	Name         string                `json:"name"                   yaml:"name"`
	Version      string                `json:"version"                yaml:"version"`
	Depth        int                   `json:"depth"                  yaml:"depth"`
	Size         int64                 `json:"size"                   yaml:"size"`
	Dependencies []*DependencyTreeNode `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// NameVersion is a (package, version) pair.
type NameVersion struct {
	Name    string
	Version string
}
