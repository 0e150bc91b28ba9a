package main

import (
	"errors"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
	"gopkg.in/yaml.v3"
)

var (
	errNoDatabase    = errors.New("manifest: database is not set")
	errNoCollections = errors.New("manifest: no collections listed")
)

// manifest lists the collections probed in one run. All of them live in
// the same database and share one client.
type manifest struct {
	Database    string          `yaml:"database"`
	Collections []collectionRef `yaml:"collections"`
}

type collectionRef struct {
	Name   string         `yaml:"name"`
	Filter map[string]any `yaml:"filter"`
}

// filter returns the count filter, matching every document when none is set.
func (c collectionRef) filter() any {
	if len(c.Filter) == 0 {
		return bson.D{}
	}
	return bson.M(c.Filter)
}

func readManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// resolve fills the gaps of m from the environment defaults and validates
// the result.
func (m manifest) resolve(database, collection string) (manifest, error) {
	if m.Database == "" {
		m.Database = database
	}
	if m.Database == "" {
		return manifest{}, errNoDatabase
	}
	if len(m.Collections) == 0 && collection != "" {
		m.Collections = []collectionRef{{Name: collection}}
	}
	if len(m.Collections) == 0 {
		return manifest{}, errNoCollections
	}

	seen := make(map[string]struct{}, len(m.Collections))
	for i, c := range m.Collections {
		if c.Name == "" {
			return manifest{}, fmt.Errorf("manifest: collection #%d has no name", i+1)
		}
		if _, dup := seen[c.Name]; dup {
			return manifest{}, fmt.Errorf("manifest: collection %q listed twice", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return m, nil
}
