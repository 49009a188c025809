package cli

import (
	"context"
	"io"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/YasminAwad/Text2BPMN/pkg/cache"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"merge":      false,
		"validate":   false,
		"inspect":    false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command should register %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"bpmn"}},
		{"summary", []string{"summary"}},
		{"bpmn,json", []string{"bpmn", "json"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if got, want := dir, filepath.Join("/tmp/xdg-test", appName); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		single bool
		want   string
	}{
		{"derived from input", "", "process.json", "bpmn", true, "process.bpmn"},
		{"explicit single output", "out.xml", "process.json", "bpmn", true, "out.xml"},
		{"multiple formats use base", "out.bpmn", "process.json", "summary", false, "out.txt"},
		{"summary from input", "", "flows/order.json", "summary", true, "flows/order.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, tt.input, tt.format, tt.single); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	keyer := cache.NewDefaultKeyer()
	key := keyer.LaneKey("abc", cache.LaneKeyOpts{Engine: "graphviz-dot"})
	if err := fc.Set(context.Background(), key, []byte("layout"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	fc.Close()

	c := New(io.Discard, log.InfoLevel)
	clearCmd := c.cacheClearCommand()
	clearCmd.SetArgs([]string{})
	if err := clearCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	fc, err = cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer fc.Close()
	if _, hit, _ := fc.Get(context.Background(), key); hit {
		t.Error("expected cache to be empty after clear")
	}
}
