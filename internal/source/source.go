// Package source implements the document sources the detector reads from.
package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/RishiKendai/verbatim/internal/plagiarism"
)

const (
	SchemeS3     = "s3://"
	SchemeMongo  = "mongo://"
	SchemeMemory = "mem://"
	SchemeFile   = "file://"
)

// Mux dispatches identifiers to a source by scheme prefix. Identifiers
// without a known scheme go to the file source.
type Mux struct {
	sources map[string]plagiarism.DocumentSource
	files   plagiarism.DocumentSource
}

func NewMux(files plagiarism.DocumentSource) *Mux {
	return &Mux{sources: make(map[string]plagiarism.DocumentSource), files: files}
}

// Handle registers src for identifiers starting with scheme.
func (m *Mux) Handle(scheme string, src plagiarism.DocumentSource) {
	m.sources[scheme] = src
}

func (m *Mux) Load(ctx context.Context, id string) (string, error) {
	for scheme, src := range m.sources {
		if strings.HasPrefix(id, scheme) {
			return src.Load(ctx, id)
		}
	}
	if strings.HasPrefix(id, SchemeS3) || strings.HasPrefix(id, SchemeMongo) || strings.HasPrefix(id, SchemeMemory) {
		return "", fmt.Errorf("no source configured for %q", id)
	}
	if m.files == nil {
		return "", fmt.Errorf("no file source configured for %q", id)
	}
	return m.files.Load(ctx, strings.TrimPrefix(id, SchemeFile))
}

// MemorySource serves documents kept in memory, addressed as mem://<name>
// or by bare name.
type MemorySource struct {
	mu   sync.RWMutex
	docs map[string]string
}

func NewMemorySource() *MemorySource {
	return &MemorySource{docs: make(map[string]string)}
}

// Put stores text under name and returns its mem:// identifier.
func (s *MemorySource) Put(name, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = text
	return SchemeMemory + name
}

func (s *MemorySource) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
}

func (s *MemorySource) Load(_ context.Context, id string) (string, error) {
	name := strings.TrimPrefix(id, SchemeMemory)
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[name]
	if !ok {
		return "", fmt.Errorf("document %q not found", name)
	}
	return text, nil
}
