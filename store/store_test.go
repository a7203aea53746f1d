package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftwatch/sdk/project"
)

func TestLoadMissing(t *testing.T) {
	s := New()
	_, err := s.Load(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSaveThenLoadYAML(t *testing.T) {
	root := t.TempDir()
	s := New()
	ctx := context.Background()

	pc := project.NewContext("shop", "web-app")
	pc.API.Endpoints = []project.Endpoint{
		{Path: "/api/products", Method: project.MethodGet, Authentication: true},
	}

	if err := s.Save(ctx, root, pc); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, FileYAML)); err != nil {
		t.Fatalf("expected %s to be written: %v", FileYAML, err)
	}

	loaded, err := s.Load(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Project.Name != "shop" || loaded.Project.Type != "web-app" {
		t.Errorf("loaded project = %+v", loaded.Project)
	}
	if len(loaded.API.Endpoints) != 1 || loaded.API.Endpoints[0].Path != "/api/products" {
		t.Errorf("loaded endpoints = %+v", loaded.API.Endpoints)
	}
	if !loaded.Security.Rules.EnforceHTTPS {
		t.Error("security rules lost in round trip")
	}
}

func TestSavePreservesJSONFormat(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	seed := `{"project":{"name":"shop","type":"web-app"},"security":{"rules":{"enforceHttps":true}}}`
	if err := os.WriteFile(filepath.Join(root, FileJSON), []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	s := New()
	pc, err := s.Load(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	pc.Project.Description = "updated"
	if err := s.Save(ctx, root, pc); err != nil {
		t.Fatal(err)
	}

	// The existing JSON file is updated; no YAML file appears.
	if _, err := os.Stat(filepath.Join(root, FileYAML)); !os.IsNotExist(err) {
		t.Error("Save should keep the JSON format when only a JSON file exists")
	}
	reloaded, err := s.Load(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Project.Description != "updated" {
		t.Errorf("description = %q, want %q", reloaded.Project.Description, "updated")
	}
}

func TestLoadPrefersYAML(t *testing.T) {
	root := t.TempDir()
	yaml := "project:\n  name: from-yaml\n  type: web-app\nsecurity:\n  rules: {}\n"
	json := `{"project":{"name":"from-json","type":"web-app"},"security":{"rules":{}}}`
	if err := os.WriteFile(filepath.Join(root, FileYAML), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileJSON), []byte(json), 0644); err != nil {
		t.Fatal(err)
	}

	pc, err := New().Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Project.Name != "from-yaml" {
		t.Errorf("Load should prefer YAML, got project %q", pc.Project.Name)
	}
}

func TestLoadMalformed(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileJSON), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New().Load(context.Background(), root)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load() error = %v, want ErrMalformed", err)
	}
}
