package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/repr"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, YAMLFile), "package: demo\nentry: app.morph\nstage: solid\n")

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := &Manifest{Package: "demo", Entry: "app.morph", Sources: []string{"*.morph"}, Stage: Solid}
	if repr.String(m) != repr.String(want) {
		t.Errorf("got %s, want %s", repr.String(m), repr.String(want))
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, TOMLFile), "package = \"demo\"\nsources = [\"src/*.morph\"]\n")

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Package != "demo" || m.Stage != Proto || len(m.Sources) != 1 || m.Sources[0] != "src/*.morph" {
		t.Errorf("got %s", repr.String(m))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("a directory without a manifest should fail")
	}

	dir := t.TempDir()
	write(t, filepath.Join(dir, YAMLFile), "package: demo\nstage: liquid\n")
	if _, err := Load(dir); err == nil {
		t.Errorf("unknown stages should be rejected")
	}

	dir = t.TempDir()
	write(t, filepath.Join(dir, YAMLFile), "entry: main.morph\n")
	if _, err := Load(dir); err == nil {
		t.Errorf("a manifest needs a package name")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, file := range []string{YAMLFile, TOMLFile} {
		dir := t.TempDir()
		m := Default("My Project!")
		if err := m.Save(dir, file); err != nil {
			t.Fatal(err)
		}

		got, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if repr.String(got) != repr.String(m) {
			t.Errorf("%s: got %s, want %s", file, repr.String(got), repr.String(m))
		}
		if got.Package != "my-project" {
			t.Errorf("package name: %s", got.Package)
		}
	}

	if err := Default("x").Save(t.TempDir(), "morph.json"); err == nil {
		t.Errorf("unknown manifest files should be rejected")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(root, YAMLFile), "package: demo\n")

	dir, ok := Find(nested)
	want, _ := filepath.Abs(root)
	if !ok || dir != want {
		t.Errorf("Find(%s) = %s, %v; want %s", nested, dir, ok, want)
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.morph", "main.morph", "a.morph", "notes.txt"} {
		write(t, filepath.Join(dir, name), "")
	}

	m := Default("demo")
	files, err := m.SourceFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	want := []string{"main.morph", "a.morph", "b.morph"}
	if repr.String(names) != repr.String(want) {
		t.Errorf("got %v, want %v", names, want)
	}
}
