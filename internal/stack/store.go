package stack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	stackerrors "gitstack.dev/gitstack/internal/errors"
)

// StateVersion is the newest state file schema this release reads and writes.
const StateVersion = 1

const (
	stateDirName  = "gitstack"
	stateFileName = "state.yaml"
)

// stateFile is the on-disk shape of the graph.
type stateFile struct {
	Version  int    `yaml:"version"`
	Trunk    string `yaml:"trunk"`
	Branches []Node `yaml:"branches"`
}

// Store loads and persists the branch graph for one repository. The file
// lives under the repository's git directory, so every repository gets its
// own state. Construct one per command invocation; it holds no cached graph.
type Store struct {
	gitDir       string
	defaultTrunk string
}

// NewStore creates a store for the repository whose git directory is gitDir.
// defaultTrunk seeds the graph when no state file exists yet.
func NewStore(gitDir, defaultTrunk string) *Store {
	return &Store{
		gitDir:       gitDir,
		defaultTrunk: defaultTrunk,
	}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return filepath.Join(s.gitDir, stateDirName, stateFileName)
}

// Load reads the persisted graph. A missing file is not an error: it yields
// an empty graph rooted at the configured default trunk. A file written by a
// newer release or a file that does not parse is a hard error, never a
// silent reset.
func (s *Store) Load() (*Graph, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewGraph(s.defaultTrunk), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	var state stateFile
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("state file %s is not valid YAML: %w", path, err)
	}

	if state.Version < 1 {
		return nil, fmt.Errorf("state file %s is missing its version field; refusing to guess at its schema", path)
	}
	if state.Version > StateVersion {
		return nil, stackerrors.NewStateVersionError(path, state.Version, StateVersion)
	}
	if state.Trunk == "" {
		return nil, fmt.Errorf("state file %s does not name a trunk branch", path)
	}

	graph := NewGraph(state.Trunk)
	for _, node := range state.Branches {
		if graph.Has(node.Name) {
			return nil, fmt.Errorf("state file %s lists branch %s twice", path, node.Name)
		}
		graph.insert(node)
	}
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("state file %s is inconsistent: %w", path, err)
	}

	return graph, nil
}

// Save persists the graph atomically: the new content is written to a
// temporary file in the same directory, flushed, then renamed over the
// target. A crash mid-save leaves the previous state intact and a concurrent
// reader never sees a torn file.
func (s *Store) Save(graph *Graph) error {
	state := stateFile{
		Version: StateVersion,
		Trunk:   graph.Trunk(),
	}
	for _, name := range graph.Names() {
		state.Branches = append(state.Branches, *graph.Node(name))
	}
	sort.Slice(state.Branches, func(i, j int) bool {
		return state.Branches[i].Name < state.Branches[j].Name
	})

	data, err := yaml.Marshal(&state)
	if err != nil {
		return fmt.Errorf("failed to serialize stack state: %w", err)
	}

	dir := filepath.Dir(s.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, stateFileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush temporary state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary state file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set state file permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("failed to replace state file %s: %w", s.Path(), err)
	}
	return nil
}
