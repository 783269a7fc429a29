package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportsCollection = "comparison_reports"

type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

// SaveReport stores the report, replacing an earlier one with the same comparison id
func (r *ReportsRepository) SaveReport(ctx context.Context, report *models.ComparisonReport) error {
	report.CreatedAt = time.Now()

	filter := bson.M{"comparisonId": report.ComparisonID}
	opts := options.Replace().SetUpsert(true)
	if err := r.mongoRepo.ReplaceOne(ctx, reportsCollection, filter, report, opts); err != nil {
		return fmt.Errorf("failed to save comparison report: %w", err)
	}

	return nil
}

// GetReportByComparisonID returns nil when no report exists yet
func (r *ReportsRepository) GetReportByComparisonID(ctx context.Context, comparisonID string) (*models.ComparisonReport, error) {
	filter := bson.M{"comparisonId": comparisonID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var report models.ComparisonReport
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comparison report: %w", err)
	}

	return &report, nil
}
