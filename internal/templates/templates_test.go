package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/markup/internal/config"
	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/site"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"basic", false},
		{"s3", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if !errors.Is(err, errors.New("C101")) {
					t.Errorf("error = %v, want C101", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
		})
	}
}

func TestList(t *testing.T) {
	if diff := cmp.Diff([]string{"basic", "s3"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateLoads(t *testing.T) {
	tests := []struct {
		template string
		cfg      Config
		target   string
	}{
		{"basic", Config{}, config.TargetDisk},
		{"s3", Config{Bucket: "docs-bucket", Region: "eu-west-1"}, config.TargetS3},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, err := Get(tt.template)
			if err != nil {
				t.Fatal(err)
			}
			if err := tmpl.Create(dir, tt.cfg); err != nil {
				t.Fatalf("Create() error: %v", err)
			}

			cfg, err := config.Load(dir, nil)
			if err != nil {
				t.Fatalf("generated markup.yaml does not load: %v", err)
			}
			if cfg.Publish.Target != tt.target {
				t.Errorf("publish.target = %q, want %q", cfg.Publish.Target, tt.target)
			}
			if cfg.Data.File != "data.yaml" {
				t.Errorf("data.file = %q", cfg.Data.File)
			}
			if tt.target == config.TargetS3 && (cfg.Publish.Bucket != "docs-bucket" || cfg.Publish.Region != "eu-west-1") {
				t.Errorf("publish = %+v", cfg.Publish)
			}
		})
	}
}

func TestCreateData(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("basic")
	if err := tmpl.Create(dir, Config{SiteName: `Ada's "Docs"`}); err != nil {
		t.Fatal(err)
	}

	data, err := site.LoadData(filepath.Join(dir, "data.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if data["site_name"] != `Ada's "Docs"` {
		t.Errorf("site_name = %v", data["site_name"])
	}
	if data["author"] != "the markup authors" {
		t.Errorf("author = %v", data["author"])
	}
}

func TestCreateRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "data.yaml")
	if err := os.WriteFile(existing, []byte("keep: me\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, _ := Get("basic")
	err := tmpl.Create(dir, Config{})
	if !errors.Is(err, errors.New("C102")) {
		t.Fatalf("Create() error = %v, want C102", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "markup.yaml")); !os.IsNotExist(err) {
		t.Error("markup.yaml written despite conflict")
	}
	got, _ := os.ReadFile(existing)
	if string(got) != "keep: me\n" {
		t.Errorf("existing file modified: %q", got)
	}
}
