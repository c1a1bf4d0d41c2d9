package consolidate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// DefaultStagingDir is the directory name the exporter writes data block documents into.
const DefaultStagingDir = "ExportedDBs"

// documentPattern matches exported documents regardless of extension case.
const documentPattern = "*.[xX][mM][lL]"

// DiscoverLocations finds every directory named dirName at any depth below
// basePath, in lexical order. Each becomes a ProjectInfo named after the
// export folder that contains it.
func DiscoverLocations(basePath, dirName string) ([]model.ProjectInfo, error) {
	if dirName == "" {
		dirName = DefaultStagingDir
	}

	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("opening exports path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("exports path %s is not a directory", basePath)
	}

	matches, err := doublestar.Glob(os.DirFS(basePath), "**/"+dirName)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", basePath, err)
	}
	slices.Sort(matches)

	var locations []model.ProjectInfo
	for _, rel := range matches {
		path := filepath.Join(basePath, filepath.FromSlash(rel))
		st, err := os.Stat(path)
		if err != nil || !st.IsDir() {
			continue
		}
		locations = append(locations, describeLocation(path, st))
	}
	return locations, nil
}

// describeLocation builds the ProjectInfo for one staging directory and
// checks that its contents can be listed.
func describeLocation(path string, st os.FileInfo) model.ProjectInfo {
	p := model.ProjectInfo{
		Path:              path,
		Name:              filepath.Base(filepath.Dir(path)),
		LastModified:      st.ModTime(),
		IsValid:           true,
		ValidationMessage: "Valid staging location.",
	}

	if _, err := os.ReadDir(path); err != nil {
		p.IsValid = false
		p.ValidationMessage = fmt.Sprintf("Cannot read directory: %v", err)
	}
	return p
}

// Documents lists the exported documents directly inside dir, in lexical order.
func Documents(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), documentPattern, doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("listing documents in %s: %w", dir, err)
	}
	slices.Sort(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return paths, nil
}
