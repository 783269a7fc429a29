package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/repository"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ulikunitz/xz"
)

func xzBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("new xz writer: %v", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		t.Fatalf("write xz: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close xz: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input func(t *testing.T) []byte
		want  []string
		skip  []string
	}{
		{
			name:  "essay.txt",
			input: func(*testing.T) []byte { return []byte("the quick brown fox") },
			want:  []string{"the quick brown fox"},
		},
		{
			name: "page.html",
			input: func(*testing.T) []byte {
				return []byte(`<html><head><style>p{color:red}</style><script>var x = 1;</script></head>` +
					`<body><p>the quick</p><p>brown fox</p></body></html>`)
			},
			want: []string{"the quick", "brown fox"},
			skip: []string{"color:red", "var x"},
		},
		{
			name:  "essay.txt.xz",
			input: func(t *testing.T) []byte { return xzBytes(t, "compressed words survive intact") },
			want:  []string{"compressed words survive intact"},
		},
		{
			name:  "page.HTM.xz",
			input: func(t *testing.T) []byte { return xzBytes(t, "<p>nested <b>markup</b></p>") },
			want:  []string{"nested", "markup"},
			skip:  []string{"<b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.name, bytes.NewReader(tt.input(t)))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("decoded text %q missing %q", got, w)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(got, s) {
					t.Errorf("decoded text %q should not contain %q", got, s)
				}
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode("broken.xz", strings.NewReader("not xz at all")); err == nil {
		t.Error("expected error for corrupt xz stream")
	}
	if _, err := Decode("broken.pdf", strings.NewReader("not a pdf")); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suspect.txt")
	if err := os.WriteFile(path, []byte("words on disk"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := FileSource{}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "words on disk" {
		t.Errorf("got %q", got)
	}

	if _, err := (FileSource{}).Load(context.Background(), filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestMemorySource(t *testing.T) {
	mem := NewMemorySource()
	id := mem.Put("a", "alpha text")
	if id != "mem://a" {
		t.Fatalf("unexpected id %q", id)
	}

	for _, key := range []string{"mem://a", "a"} {
		got, err := mem.Load(context.Background(), key)
		if err != nil || got != "alpha text" {
			t.Errorf("Load(%q) = %q, %v", key, got, err)
		}
	}

	mem.Delete("a")
	if _, err := mem.Load(context.Background(), id); err == nil {
		t.Error("expected error after delete")
	}
}

type stubSource struct {
	name string
	seen []string
}

func (s *stubSource) Load(_ context.Context, id string) (string, error) {
	s.seen = append(s.seen, id)
	return s.name + ":" + id, nil
}

func TestMuxDispatch(t *testing.T) {
	files := &stubSource{name: "file"}
	mem := &stubSource{name: "mem"}
	mux := NewMux(files)
	mux.Handle(SchemeMemory, mem)

	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{id: "mem://doc", want: "mem:mem://doc"},
		{id: "file:///tmp/a.txt", want: "file:/tmp/a.txt"},
		{id: "relative/b.txt", want: "file:relative/b.txt"},
		{id: "s3://bucket/key", wantErr: true},
		{id: "mongo://abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := mux.Load(context.Background(), tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{uri: "s3://essays/2024/a.txt", bucket: "essays", key: "2024/a.txt"},
		{uri: "s3://essays/a.pdf", bucket: "essays", key: "a.pdf"},
		{uri: "s3://essays", wantErr: true},
		{uri: "s3:///key", wantErr: true},
		{uri: "https://essays/a.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q %q", bucket, key)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if bucket != tt.bucket || key != tt.key {
				t.Errorf("got %q %q, want %q %q", bucket, key, tt.bucket, tt.key)
			}
		})
	}
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"essays/a.txt":    []byte("plain object"),
		"essays/b.txt.xz": xzBytes(t, "packed object"),
	}}
	src := NewS3SourceWithClient(client)

	got, err := src.Load(context.Background(), "s3://essays/a.txt")
	if err != nil || got != "plain object" {
		t.Errorf("Load(a) = %q, %v", got, err)
	}
	got, err = src.Load(context.Background(), "s3://essays/b.txt.xz")
	if err != nil || got != "packed object" {
		t.Errorf("Load(b) = %q, %v", got, err)
	}
	if _, err := src.Load(context.Background(), "s3://essays/missing.txt"); err == nil {
		t.Error("expected error for missing object")
	}
}

type fakeFinder struct {
	docs map[string]*models.StoredDocument
}

func (f *fakeFinder) GetDocumentByID(_ context.Context, id string) (*models.StoredDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return doc, nil
}

func TestMongoSource(t *testing.T) {
	src := NewMongoSource(&fakeFinder{docs: map[string]*models.StoredDocument{
		"doc-1": {ID: "doc-1", Text: "stored words"},
	}})

	got, err := src.Load(context.Background(), "mongo://doc-1")
	if err != nil || got != "stored words" {
		t.Errorf("Load = %q, %v", got, err)
	}
	if _, err := src.Load(context.Background(), "mongo://doc-2"); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}
