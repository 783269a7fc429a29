package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const documentsCollection = "documents"

// ErrDocumentNotFound is returned when no stored document has the requested id
var ErrDocumentNotFound = errors.New("document not found")

type DocumentsRepository struct {
	mongoRepo *MongoRepository
}

func NewDocumentsRepository(mongoRepo *MongoRepository) *DocumentsRepository {
	return &DocumentsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *DocumentsRepository) InsertDocument(ctx context.Context, document *models.StoredDocument) error {
	document.CreatedAt = time.Now()
	err := r.mongoRepo.InsertOne(ctx, documentsCollection, document)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

func (r *DocumentsRepository) GetDocumentByID(ctx context.Context, documentID string) (*models.StoredDocument, error) {
	filter := bson.M{"documentId": documentID}

	var document models.StoredDocument
	err := r.mongoRepo.FindOne(ctx, documentsCollection, filter).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &document, nil
}
