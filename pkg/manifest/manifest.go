// Package manifest records what a generator run produced so unchanged inputs can skip generation.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v2"
)

// FileName is the manifest file written into the output directory.
const FileName = ".clientgen.sum"

type Manifest struct {
	Digest string   `yaml:"digest"`
	Files  []string `yaml:"files"`
}

// Digest hashes all parts. Part boundaries are part of the digest.
func Digest(parts ...[]byte) string {
	d := xxhash.New()
	for _, part := range parts {
		_, _ = d.WriteString(strconv.Itoa(len(part)))
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(part)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Read returns the manifest of dir, nil if there is none.
// Manifests listing files outside of dir are rejected.
func Read(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", filepath.Join(dir, FileName), err)
	}
	for _, file := range m.Files {
		if !isLocal(file) {
			return nil, fmt.Errorf("invalid manifest %s: file %q is outside of the output directory", filepath.Join(dir, FileName), file)
		}
	}
	return &m, nil
}

// isLocal reports whether the slash separated path file stays inside the directory it is relative to.
func isLocal(file string) bool {
	if file == "" || path.IsAbs(file) || filepath.IsAbs(filepath.FromSlash(file)) || filepath.VolumeName(file) != "" {
		return false
	}
	cleaned := path.Clean(strings.ReplaceAll(file, `\`, "/"))
	return cleaned != "." && cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// Write stores digest and the generated files relative to dir.
func Write(dir, digest string, files []string) error {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	data, err := yaml.Marshal(Manifest{Digest: digest, Files: sorted})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0o644)
}

// UpToDate reports whether dir was generated from digest and all generated files still exist.
func UpToDate(dir, digest string) (bool, error) {
	m, err := Read(dir)
	if err != nil || m == nil {
		return false, err
	}
	if m.Digest != digest {
		return false, nil
	}
	for _, file := range m.Files {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// Stale returns files of the previous manifest that are not part of files anymore.
func Stale(previous *Manifest, files []string) []string {
	if previous == nil {
		return nil
	}
	current := make(map[string]struct{}, len(files))
	for _, file := range files {
		current[file] = struct{}{}
	}
	var stale []string
	for _, file := range previous.Files {
		if _, ok := current[file]; !ok {
			stale = append(stale, file)
		}
	}
	return stale
}
