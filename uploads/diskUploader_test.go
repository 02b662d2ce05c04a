package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"civiceye-be/services"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type part struct {
	name string
	data []byte
}

func fileHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := w.CreateFormFile("images", p.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(p.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestSaveKeepsOrderAndWritesFiles(t *testing.T) {
	dir := t.TempDir()
	u, err := NewDiskUploader(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	first := append(append([]byte{}, pngBytes...), 'A')
	second := append(append([]byte{}, pngBytes...), 'B')
	refs, err := u.Save(context.Background(), fileHeaders(t, part{"one.png", first}, part{"two.png", second}))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("refs = %v, want 2", refs)
	}
	if refs[0] == refs[1] {
		t.Fatal("references collide")
	}

	for i, want := range [][]byte{first, second} {
		if !strings.HasPrefix(refs[i], URLPrefix+"/") || !strings.HasSuffix(refs[i], ".png") {
			t.Errorf("ref %q has unexpected shape", refs[i])
		}
		got, err := os.ReadFile(filepath.Join(dir, path.Base(refs[i])))
		if err != nil {
			t.Fatalf("read %s: %v", refs[i], err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("file %d content mismatch", i)
		}
	}
}

func TestSaveRollsBackOnNonImage(t *testing.T) {
	dir := t.TempDir()
	u, err := NewDiskUploader(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	_, err = u.Save(context.Background(), fileHeaders(t,
		part{"ok.png", pngBytes},
		part{"notes.txt", []byte("just some text")},
	))
	if !services.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if left := dirEntries(t, dir); len(left) != 0 {
		t.Errorf("files left after failed save: %v", left)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	u, err := NewDiskUploader(dir, 16)
	if err != nil {
		t.Fatal(err)
	}

	_, err = u.Save(context.Background(), fileHeaders(t, part{"big.png", pngBytes}))
	if !services.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if left := dirEntries(t, dir); len(left) != 0 {
		t.Errorf("files left after failed save: %v", left)
	}
}

func TestSaveStopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	u, err := NewDiskUploader(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := u.Save(ctx, fileHeaders(t, part{"a.png", pngBytes})); err == nil {
		t.Fatal("Save succeeded with cancelled context")
	}
	if left := dirEntries(t, dir); len(left) != 0 {
		t.Errorf("files left: %v", left)
	}
}

func TestDiscardRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	u, err := NewDiskUploader(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	refs, err := u.Save(context.Background(), fileHeaders(t, part{"a.png", pngBytes}))
	if err != nil {
		t.Fatal(err)
	}

	u.Discard(append(refs, "/uploads/does-not-exist.png"))
	if left := dirEntries(t, dir); len(left) != 0 {
		t.Errorf("files left after Discard: %v", left)
	}
}
