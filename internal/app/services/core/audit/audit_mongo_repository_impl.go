package audit

import (
	"context"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	auditMongoRepositoryInstance contracts.AuditRepository
	onceAuditMongoRepository     sync.Once
)

type auditMongoRepository struct {
	Collection       *mongo.Collection
	ArchiveBatchSize int
}

func NewAuditMongoRepository(client *mongo.Client, dbName string, archiveBatchSize int) contracts.AuditRepository {
	onceAuditMongoRepository.Do(func() {
		auditMongoRepositoryInstance = &auditMongoRepository{
			Collection:       client.Database(dbName).Collection(constvars.MongoCollectionAuditLogs),
			ArchiveBatchSize: archiveBatchSize,
		}
	})
	return auditMongoRepositoryInstance
}

func (repo *auditMongoRepository) Insert(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error) {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	_, err := repo.Collection.InsertOne(ctx, log)
	if err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return log, nil
}

func buildListFilter(filter *contracts.AuditListFilter) bson.M {
	query := bson.M{}
	if filter.ActionType != "" {
		query["action_type"] = filter.ActionType
	}
	if filter.EntityType != "" {
		query["entity_type"] = filter.EntityType
	}
	if filter.UserID != "" {
		query["actor.user_id"] = filter.UserID
	}
	timestampRange := bson.M{}
	if filter.Start != nil {
		timestampRange["$gte"] = *filter.Start
	}
	if filter.End != nil {
		timestampRange["$lt"] = *filter.End
	}
	if len(timestampRange) > 0 {
		query["timestamp"] = timestampRange
	}
	return query
}

func (repo *auditMongoRepository) List(ctx context.Context, filter *contracts.AuditListFilter) ([]models.AuditLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		findOptions.SetSkip(filter.Offset)
	}

	cursor, err := repo.Collection.Find(ctx, buildListFilter(filter), findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return logs, nil
}

func (repo *auditMongoRepository) Count(ctx context.Context, filter *contracts.AuditListFilter) (int64, error) {
	total, err := repo.Collection.CountDocuments(ctx, buildListFilter(filter))
	if err != nil {
		return 0, exceptions.ErrMongoDBCountDocuments(err)
	}
	return total, nil
}

func (repo *auditMongoRepository) FindDueForArchive(ctx context.Context, now time.Time) ([]models.AuditLog, error) {
	query := bson.M{
		"is_archived":  false,
		"archive_date": bson.M{"$lte": now},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "archive_date", Value: 1}})
	if repo.ArchiveBatchSize > 0 {
		findOptions.SetLimit(int64(repo.ArchiveBatchSize))
	}

	cursor, err := repo.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return logs, nil
}

func (repo *auditMongoRepository) MarkArchived(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := repo.Collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"is_archived": true}},
	)
	if err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount, nil
}

func (repo *auditMongoRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := repo.Collection.DeleteMany(ctx, bson.M{
		"delete_date": bson.M{"$lte": now},
	})
	if err != nil {
		return 0, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount, nil
}

type countBucket struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

type statisticsFacets struct {
	Total      []countBucket `bson:"total"`
	ByAction   []countBucket `bson:"by_action"`
	BySeverity []countBucket `bson:"by_severity"`
	ByUser     []countBucket `bson:"by_user"`
	Success    []countBucket `bson:"success"`
	Security   []countBucket `bson:"security"`
	LGPD       []countBucket `bson:"lgpd"`
	Sensitive  []countBucket `bson:"sensitive"`
}

func (repo *auditMongoRepository) Statistics(ctx context.Context, start, end *time.Time) (*models.AuditStatistics, error) {
	match := bson.M{}
	timestampRange := bson.M{}
	if start != nil {
		timestampRange["$gte"] = *start
	}
	if end != nil {
		timestampRange["$lt"] = *end
	}
	if len(timestampRange) > 0 {
		match["timestamp"] = timestampRange
	}

	countFacet := func(filter bson.M) bson.A {
		stages := bson.A{}
		if len(filter) > 0 {
			stages = append(stages, bson.M{"$match": filter})
		}
		return append(stages, bson.M{"$count": "count"})
	}
	groupFacet := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
		}
	}

	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{"$facet": bson.M{
			"total":       countFacet(nil),
			"by_action":   groupFacet("$action_type"),
			"by_severity": groupFacet("$severity"),
			"by_user":     groupFacet("$actor.user_id"),
			"success":     countFacet(bson.M{"status_code": bson.M{"$lt": 400}}),
			"security":    countFacet(bson.M{"is_security_event": true}),
			"lgpd":        countFacet(bson.M{"is_lgpd_relevant": true}),
			"sensitive":   countFacet(bson.M{"is_sensitive": true}),
		}},
	}

	cursor, err := repo.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, exceptions.ErrMongoDBAggregate(err)
	}
	defer cursor.Close(ctx)

	var facetResults []statisticsFacets
	if err := cursor.All(ctx, &facetResults); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}

	statistics := &models.AuditStatistics{
		ByAction:   map[string]int64{},
		BySeverity: map[string]int64{},
		ByUser:     map[string]int64{},
	}
	if len(facetResults) == 0 {
		return statistics, nil
	}

	facets := facetResults[0]
	firstCount := func(buckets []countBucket) int64 {
		if len(buckets) == 0 {
			return 0
		}
		return buckets[0].Count
	}

	statistics.Total = firstCount(facets.Total)
	statistics.SecurityEvents = firstCount(facets.Security)
	statistics.LGPDEvents = firstCount(facets.LGPD)
	statistics.SensitiveDataAccess = firstCount(facets.Sensitive)
	for _, bucket := range facets.ByAction {
		statistics.ByAction[bucket.ID] = bucket.Count
	}
	for _, bucket := range facets.BySeverity {
		statistics.BySeverity[bucket.ID] = bucket.Count
	}
	for _, bucket := range facets.ByUser {
		statistics.ByUser[bucket.ID] = bucket.Count
	}
	if statistics.Total > 0 {
		statistics.SuccessRate = float64(firstCount(facets.Success)) / float64(statistics.Total) * 100
	}
	return statistics, nil
}
