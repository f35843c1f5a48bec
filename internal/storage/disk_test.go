package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), "/static/uploads", zap.NewNop())
	if err != nil {
		t.Fatalf("NewDiskStore 失败: %v", err)
	}
	return store
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)

	content := []byte("%PDF-1.4 fake pdf content")
	storedName, urlPath, err := store.Save(bytes.NewReader(content), "notes", "Algo Notes.pdf")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	if !strings.HasSuffix(storedName, "_Algo_Notes.pdf") {
		t.Errorf("存储名应保留清洗后的原始名: %s", storedName)
	}
	if urlPath != "/static/uploads/notes/"+storedName {
		t.Errorf("检索路径不符: %s", urlPath)
	}

	rc, err := store.Open("notes", storedName)
	if err != nil {
		t.Fatalf("Open 失败: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("读回内容与写入内容不一致")
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	name1, _, err := store.Save(strings.NewReader("a"), "notes", "same.pdf")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	name2, _, err := store.Save(strings.NewReader("b"), "notes", "same.pdf")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if name1 == name2 {
		t.Error("同名上传不应产生相同存储名")
	}
}

func TestDeleteMissingFile(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete("notes", "nonexistent.pdf")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("缺失文件应返回 ErrBlobNotFound, got %v", err)
	}
}

func TestDeleteThenOpenFails(t *testing.T) {
	store := newTestStore(t)

	storedName, _, err := store.Save(strings.NewReader("x"), "paper", "exam.pdf")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if err := store.Delete("paper", storedName); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := store.Open("paper", storedName); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("删除后的文件不应可读, got %v", err)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	store := newTestStore(t)

	cases := []struct{ category, name string }{
		{"notes", "../escape.pdf"},
		{"notes", "..%2Fescape.pdf"},
		{"../notes", "ok.pdf"},
		{"notes", ""},
	}
	for _, tc := range cases {
		if _, err := store.Open(tc.category, tc.name); !errors.Is(err, ErrBlobNotFound) {
			t.Errorf("穿越路径 %q/%q 应被拒绝, got %v", tc.category, tc.name, err)
		}
		if err := store.Delete(tc.category, tc.name); !errors.Is(err, ErrBlobNotFound) {
			t.Errorf("穿越路径 %q/%q 的删除应被拒绝, got %v", tc.category, tc.name, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"normal.pdf":        "normal.pdf",
		"with space.doc":    "with_space.doc",
		"/etc/passwd":       "passwd",
		"weird!@#$name.txt": "weirdname.txt",
		"":                  "file",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
