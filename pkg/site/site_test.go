package site

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/markup/internal/errors"
	m "github.com/vango-dev/markup/pkg/markup"
)

func newTestSite(t *testing.T) *Site {
	t.Helper()

	s := New(nil)
	if err := s.Layout("base", m.Html(
		m.Head(m.Title(m.Block("title"))),
		m.Body(m.Block("main")),
	)); err != nil {
		t.Fatal(err)
	}
	if err := s.Extend("docs", "base",
		Fill("main", m.Div(m.H2(m.Block("title")), m.Block("main"))),
	); err != nil {
		t.Fatal(err)
	}
	if err := s.Page("home", "base",
		Fill("title", "Home"),
		Fill("main", m.P("Hello ", m.VarDefault("name", "user"))),
	); err != nil {
		t.Fatal(err)
	}
	if err := s.Page("intro", "docs",
		Fill("title", "Intro"),
		Fill("main", "bar"),
	); err != nil {
		t.Fatal(err)
	}
	return s
}

func collapse(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

func TestRender(t *testing.T) {
	s := newTestSite(t)

	tests := []struct {
		page string
		data m.Context
		want string
	}{
		{
			page: "home",
			want: "<!DOCTYPE html><html><head><title>Home</title></head><body><p>Hellouser</p></body></html>",
		},
		{
			page: "home",
			data: m.Context{"name": "Ada"},
			want: "<!DOCTYPE html><html><head><title>Home</title></head><body><p>HelloAda</p></body></html>",
		},
		{
			page: "intro",
			want: "<!DOCTYPE html><html><head><title>Intro</title></head><body><div><h2>Intro</h2>bar</div></body></html>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			got, err := s.Render(context.Background(), tt.page, tt.data)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, collapse(got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildIsIsolated(t *testing.T) {
	s := newTestSite(t)

	first, err := s.Build("intro")
	if err != nil {
		t.Fatal(err)
	}
	first.SetBlock("title", "changed")

	second, err := s.Build("intro")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(second.String(), "changed") {
		t.Error("mutating a built page leaked into the next build")
	}
}

func TestRenderConcurrent(t *testing.T) {
	s := newTestSite(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, page := range s.Pages() {
				if _, err := s.Render(context.Background(), page, nil); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestUnknownPage(t *testing.T) {
	s := newTestSite(t)

	_, err := s.Render(context.Background(), "missing", nil)
	var merr *errors.Error
	if !stderrors.As(err, &merr) || merr.Code != "C100" {
		t.Errorf("Render() error = %v, want C100", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	s := newTestSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Render(ctx, "home", nil); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRegistrationErrors(t *testing.T) {
	s := newTestSite(t)

	if err := s.Layout("base", m.Div()); err == nil {
		t.Error("duplicate layout should fail")
	}
	if err := s.Extend("x", "missing"); err == nil {
		t.Error("unknown parent should fail")
	}
	if err := s.Page("home", "base"); err == nil {
		t.Error("duplicate page should fail")
	}
	if err := s.Page("y", "missing"); err == nil {
		t.Error("unknown layout should fail")
	}
}

func TestPagesAndBlocks(t *testing.T) {
	s := newTestSite(t)

	if diff := cmp.Diff([]string{"home", "intro"}, s.Pages()); diff != "" {
		t.Errorf("Pages() mismatch (-want +got):\n%s", diff)
	}

	counts, err := s.Blocks("intro")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"title": 2, "main": 1}, counts); diff != "" {
		t.Errorf("Blocks() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCopied(t *testing.T) {
	s := New(nil)
	base := m.Div(m.Block("main"))
	if err := s.Layout("base", base); err != nil {
		t.Fatal(err)
	}
	base.SetBlock("main", "outside")
	if err := s.Page("p", "base"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Render(context.Background(), "p", nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "outside") {
		t.Errorf("layout should be copied on registration, got %q", got)
	}
}

func TestParseData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want m.Context
	}{
		{"yaml", "name: Ada\ncount: 3\n", m.Context{"name": "Ada", "count": 3}},
		{"json", `{"name": "Ada", "tags": ["a", "b"]}`, m.Context{"name": "Ada", "tags": []any{"a", "b"}}},
		{"empty", "", m.Context{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseData([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseData() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := ParseData([]byte("- a\n- b\n")); err == nil {
		t.Error("a sequence document should be rejected")
	}
}

func TestMergeSet(t *testing.T) {
	base := m.Context{"a": "1"}
	got, err := MergeSet(base, []string{"b=2", "a=3", "c=x=y"})
	if err != nil {
		t.Fatal(err)
	}
	want := m.Context{"a": "3", "b": "2", "c": "x=y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if base["a"] != "1" {
		t.Error("base context modified")
	}
	if _, err := MergeSet(nil, []string{"novalue"}); err == nil {
		t.Error("pair without = should fail")
	}
}

func TestDataStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte("name: first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewDataStore(path)
	if err != nil {
		t.Fatalf("NewDataStore() error: %v", err)
	}
	if store.Context()["name"] != "first" {
		t.Errorf("Context() = %v", store.Context())
	}

	if err := os.WriteFile(path, []byte("name: second\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if store.Context()["name"] != "second" {
		t.Errorf("after reload Context() = %v", store.Context())
	}

	if err := os.WriteFile(path, []byte("name: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err == nil {
		t.Error("Reload() of a broken file should fail")
	}
	if store.Context()["name"] != "second" {
		t.Error("failed reload should keep the previous context")
	}

	ctx := store.Context()
	ctx["name"] = "mutated"
	if store.Context()["name"] != "second" {
		t.Error("Context() should return a copy")
	}
}

func TestDataStoreEmptyPath(t *testing.T) {
	store, err := NewDataStore("")
	if err != nil {
		t.Fatal(err)
	}
	if len(store.Context()) != 0 || store.Reload() != nil {
		t.Error("empty store should have an empty fixed context")
	}
}

func TestLoadDataMissing(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "nope.yaml"))
	var merr *errors.Error
	if !stderrors.As(err, &merr) || merr.Code != "C003" {
		t.Errorf("LoadData() error = %v, want C003", err)
	}
}
