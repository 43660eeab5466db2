package core

import (
	"os"
	"strings"

	"github.com/solartools/epdload/schema"
)

// ListLocalCandidates scans a directory for versioned files matching a
// filename stem. A missing directory yields no candidates rather than an
// error, since the local tree is built lazily.
func ListLocalCandidates(dir, stem string) ([]schema.FileCandidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var candidates []schema.FileCandidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, stem) {
			continue
		}
		version, ok := schema.ParseVersion(name)
		if !ok {
			continue
		}
		candidates = append(candidates, schema.FileCandidate{Name: name, Version: version})
	}
	return candidates, nil
}

// SelectHighestVersion picks the candidate with the highest version number.
// Ties keep the first candidate encountered. The second return value is false
// for an empty list.
func SelectHighestVersion(candidates []schema.FileCandidate) (schema.FileCandidate, bool) {
	if len(candidates) == 0 {
		return schema.FileCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Version > best.Version {
			best = c
		}
	}
	return best, true
}
