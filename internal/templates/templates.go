package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/markup/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// SiteName is written to the data file as site_name.
	SiteName string

	// Author is written to the data file as author.
	Author string

	// Bucket is the S3 bucket for the s3 template.
	Bucket string

	// Region is the S3 region for the s3 template.
	Region string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"basic": basicTemplate(),
	"s3":    s3Template(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("C101").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: basic, s3")
	}
	return tmpl, nil
}

// List returns all available template names in sorted order.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the template's file paths in sorted order.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create writes the template into dir. Nothing is written if any target file
// already exists.
func (t *Template) Create(dir string, cfg Config) error {
	rendered := make(map[string][]byte, len(t.Files))
	for _, relPath := range t.Paths() {
		tmpl, err := template.New(relPath).Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}
		rendered[relPath] = buf.Bytes()

		fullPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(fullPath); err == nil {
			return errors.New("C102").
				WithDetailf("%s already exists", fullPath).
				WithSuggestion("Remove it or run init in an empty directory")
		}
	}

	for _, relPath := range t.Paths() {
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, rendered[relPath], 0644); err != nil {
			return err
		}
	}
	return nil
}

// basicTemplate publishes to a local directory.
func basicTemplate() *Template {
	return &Template{
		Name:        "basic",
		Description: "Config and data file publishing to ./dist",
		Files: map[string]string{
			"markup.yaml": `render:
  indent: 2
  drop_nil: false

server:
  host: localhost
  port: 3000
  watch: true

data:
  file: data.yaml

publish:
  target: disk
  dir: dist
`,
			"data.yaml": dataFile,
		},
	}
}

// s3Template publishes to an S3 bucket.
func s3Template() *Template {
	return &Template{
		Name:        "s3",
		Description: "Config and data file publishing to an S3 bucket",
		Files: map[string]string{
			"markup.yaml": `render:
  indent: 2

data:
  file: data.yaml

# Credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
publish:
  target: s3
  bucket: {{if .Bucket}}{{.Bucket}}{{else}}my-site{{end}}
  prefix: ""
  region: {{if .Region}}{{.Region}}{{else}}us-east-1{{end}}
`,
			"data.yaml": dataFile,
		},
	}
}

const dataFile = `# Render context. Values are available to Var("key") in pages.
site_name: {{printf "%q" (or .SiteName "markup")}}
author: {{printf "%q" (or .Author "the markup authors")}}
`
