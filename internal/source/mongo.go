package source

import (
	"context"
	"strings"

	"github.com/RishiKendai/verbatim/internal/models"
)

// DocumentFinder is satisfied by repository.DocumentsRepository.
type DocumentFinder interface {
	GetDocumentByID(ctx context.Context, documentID string) (*models.StoredDocument, error)
}

// MongoSource reads stored documents addressed as mongo://<documentId>.
type MongoSource struct {
	finder DocumentFinder
}

func NewMongoSource(finder DocumentFinder) *MongoSource {
	return &MongoSource{finder: finder}
}

func (s *MongoSource) Load(ctx context.Context, id string) (string, error) {
	doc, err := s.finder.GetDocumentByID(ctx, strings.TrimPrefix(id, SchemeMongo))
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}
