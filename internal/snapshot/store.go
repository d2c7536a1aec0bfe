package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ProcessedDir receives every produced response
	ProcessedDir = "processed"
	// ExpectedDir holds the baselines
	ExpectedDir = "expected"

	// Separator joins the test name and the request id in artifact names
	Separator = "__"
)

// ArtifactName returns "<prefix>__<requestId>".
func ArtifactName(prefix, requestID string) string {
	return prefix + Separator + requestID
}

// Store is the on-disk processed/expected artifact store.
type Store struct {
	root string
}

// NewStore opens the store at root, creating its directories, and verifies
// that processed/ is writable.
func NewStore(root string) (*Store, error) {
	s := &Store{root: root}
	processed := s.dir(ProcessedDir)

	if err := os.MkdirAll(processed, 0o755); err != nil {
		return nil, &StoreUnwritableError{Dir: processed, Err: err}
	}
	if err := os.MkdirAll(s.dir(ExpectedDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create expected directory: %w", err)
	}

	probe, err := os.CreateTemp(processed, ".write-check-*")
	if err != nil {
		return nil, &StoreUnwritableError{Dir: processed, Err: err}
	}
	probe.Close()
	os.Remove(probe.Name())

	return s, nil
}

// Root returns the store root.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) dir(kind string) string {
	return filepath.Join(s.root, kind)
}

// ExpectedDirPath returns the baselines directory.
func (s *Store) ExpectedDirPath() string {
	return s.dir(ExpectedDir)
}

// ProcessedPath returns the path of a processed artifact.
func (s *Store) ProcessedPath(name string) string {
	return filepath.Join(s.dir(ProcessedDir), name)
}

// ExpectedPath returns the path of a baseline.
func (s *Store) ExpectedPath(name string) string {
	return filepath.Join(s.dir(ExpectedDir), name)
}

// WriteProcessed writes a processed artifact.
func (s *Store) WriteProcessed(name, content string) error {
	return writeFile(s.ProcessedPath(name), content)
}

// WriteExpected writes a baseline.
func (s *Store) WriteExpected(name, content string) error {
	return writeFile(s.ExpectedPath(name), content)
}

// ReadExpected reads a baseline. ok is false when it does not exist.
func (s *Store) ReadExpected(name string) (content string, ok bool, err error) {
	return readFile(s.ExpectedPath(name))
}

// ReadProcessed reads a processed artifact. ok is false when it does not
// exist.
func (s *Store) ReadProcessed(name string) (content string, ok bool, err error) {
	return readFile(s.ProcessedPath(name))
}

// ListProcessed returns the processed artifact names starting with prefix.
func (s *Store) ListProcessed(prefix string) ([]string, error) {
	return list(s.dir(ProcessedDir), prefix)
}

// ListExpected returns the baseline names starting with prefix.
func (s *Store) ListExpected(prefix string) ([]string, error) {
	return list(s.dir(ExpectedDir), prefix)
}

// Promote copies a processed artifact into expected/.
func (s *Store) Promote(name string) error {
	content, ok, err := s.ReadProcessed(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no processed artifact %s", name)
	}
	return s.WriteExpected(name, content)
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), true, nil
}

func list(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
