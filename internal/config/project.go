package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rzbill/tracker/internal/fsutil"
)

// LeaderboardSuffix marks leaderboard snapshots that share the projects
// directory with project config files.
const LeaderboardSuffix = "-leaderboard.json"

// ProjectFile is a project's on-disk config:
//
//	{"project-meta": {"name": "books", "items-folder": "books"},
//	 "project-status": {"paused": false},
//	 "automation": {}}
type ProjectFile struct {
	Meta       ProjectMeta     `json:"project-meta"`
	Status     ProjectStatus   `json:"project-status"`
	Automation json.RawMessage `json:"automation,omitempty"`

	path string
}

// ProjectMeta names the project and its items folder.
type ProjectMeta struct {
	Name        string `json:"name"`
	ItemsFolder string `json:"items-folder"`
}

// ProjectStatus carries the mutable project state.
type ProjectStatus struct {
	Paused bool `json:"paused"`
}

// LoadProjectFile reads and validates the config at path.
func LoadProjectFile(path string) (*ProjectFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pf := &ProjectFile{path: path}
	if err := json.Unmarshal(b, pf); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", path, err)
	}
	if err := pf.validate(); err != nil {
		return nil, err
	}
	return pf, nil
}

// NewProjectFile describes a new, unpaused project whose config is written
// to dir/<name>.json by Save.
func NewProjectFile(dir, name, itemsFolder string) (*ProjectFile, error) {
	if itemsFolder == "" {
		itemsFolder = name
	}
	pf := &ProjectFile{
		Meta:       ProjectMeta{Name: name, ItemsFolder: itemsFolder},
		Automation: json.RawMessage("{}"),
		path:       filepath.Join(dir, name+".json"),
	}
	if err := pf.validate(); err != nil {
		return nil, err
	}
	return pf, nil
}

func (pf *ProjectFile) validate() error {
	if pf.Meta.Name == "" {
		return fmt.Errorf("project config %s: project-meta.name is required", pf.path)
	}
	if pf.Meta.ItemsFolder == "" {
		return fmt.Errorf("project config %s: project-meta.items-folder is required", pf.path)
	}
	if strings.ContainsAny(pf.Meta.Name, `/\`) || strings.Contains(pf.Meta.ItemsFolder, "..") {
		return fmt.Errorf("project config %s: name and items-folder must stay inside the projects directory", pf.path)
	}
	return nil
}

// Path is the file the config was loaded from.
func (pf *ProjectFile) Path() string { return pf.path }

// Save rewrites the config file in place.
func (pf *ProjectFile) Save() error {
	if pf.path == "" {
		return errors.New("project config has no path")
	}
	b, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(pf.path, append(b, '\n'), 0o644)
}

// ListProjectFiles returns the project config files in dir, sorted.
// Leaderboard snapshots are skipped.
func ListProjectFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := matches[:0]
	for _, m := range matches {
		if strings.HasSuffix(m, LeaderboardSuffix) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
