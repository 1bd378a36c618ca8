// Package upload gathers and validates batch-upload sources.
package upload

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/videodb-stack/vdbctl/internal/errors"
)

// SourceKind distinguishes remote URLs from local files.
type SourceKind string

const (
	SourceURL  SourceKind = "url"
	SourceFile SourceKind = "file"
)

// Source is one asset to ingest.
type Source struct {
	Kind      SourceKind
	Value     string // URL or absolute file path
	MediaType string // optional per-source override
	Name      string // optional display name
}

// Label returns a display form of the source, truncated to 60 characters.
func (s Source) Label() string {
	if len(s.Value) <= 60 {
		return s.Value
	}
	return "..." + s.Value[len(s.Value)-57:]
}

// Manifest is the YAML batch-upload job file.
type Manifest struct {
	Collection string           `yaml:"collection"`
	MediaType  string           `yaml:"media_type"`
	Sources    []ManifestSource `yaml:"sources"`
}

// ManifestSource is one entry of a manifest; exactly one of URL and File
// must be set.
type ManifestSource struct {
	URL       string `yaml:"url"`
	File      string `yaml:"file"`
	MediaType string `yaml:"media_type"`
	Name      string `yaml:"name"`
}

// Inputs describes where to collect sources from.
type Inputs struct {
	URLsFile     string   // text file, one URL per line, # comments
	Files        []string // local file paths
	ManifestFile string   // YAML job file
}

// Gather collects sources from all configured inputs in order: urls file,
// local files, manifest. Missing local files are skipped with a warning;
// a missing urls file or manifest is an error.
func Gather(in Inputs) ([]Source, []string, *Manifest, error) {
	var sources []Source
	var warnings []string
	var manifest *Manifest

	if in.URLsFile != "" {
		urls, err := readURLsFile(in.URLsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		sources = append(sources, urls...)
	}

	for _, fp := range in.Files {
		abs, err := filepath.Abs(fp)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot resolve %s, skipping", fp))
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("file not found, skipping: %s", fp))
			continue
		}
		sources = append(sources, Source{Kind: SourceFile, Value: abs})
	}

	if in.ManifestFile != "" {
		m, entries, warns, err := readManifest(in.ManifestFile)
		if err != nil {
			return nil, nil, nil, err
		}
		manifest = m
		sources = append(sources, entries...)
		warnings = append(warnings, warns...)
	}

	return sources, warnings, manifest, nil
}

// readURLsFile parses a text file with one URL per line. Blank lines and
// #-prefixed lines are ignored.
func readURLsFile(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.IOFileNotFound(path)
		}
		return nil, errors.IOReadError(path, err)
	}
	defer f.Close()

	var sources []Source
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, Source{Kind: SourceURL, Value: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.IOReadError(path, err)
	}
	return sources, nil
}

// readManifest parses a YAML job file into sources. Per-source media types
// override the manifest-level default.
func readManifest(path string) (*Manifest, []Source, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil, errors.IOFileNotFound(path)
		}
		return nil, nil, nil, errors.InputBadManifest(path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, nil, errors.InputBadManifest(path, err)
	}

	var sources []Source
	var warnings []string
	for i, entry := range m.Sources {
		mediaType := entry.MediaType
		if mediaType == "" {
			mediaType = m.MediaType
		}

		switch {
		case entry.URL != "" && entry.File != "":
			warnings = append(warnings, fmt.Sprintf("manifest entry %d has both url and file, skipping", i+1))
		case entry.URL != "":
			sources = append(sources, Source{Kind: SourceURL, Value: entry.URL, MediaType: mediaType, Name: entry.Name})
		case entry.File != "":
			abs := entry.File
			if !filepath.IsAbs(abs) {
				// Manifest-relative paths
				abs = filepath.Join(filepath.Dir(path), entry.File)
			}
			if _, err := os.Stat(abs); err != nil {
				warnings = append(warnings, fmt.Sprintf("file not found, skipping: %s", entry.File))
				continue
			}
			sources = append(sources, Source{Kind: SourceFile, Value: abs, MediaType: mediaType, Name: entry.Name})
		default:
			warnings = append(warnings, fmt.Sprintf("manifest entry %d has neither url nor file, skipping", i+1))
		}
	}

	return &m, sources, warnings, nil
}
