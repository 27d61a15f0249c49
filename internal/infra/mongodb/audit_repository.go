package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AuditLog representa o documento gravado no Mongo para cada evento do
// ledger consumido pelo worker. Usamos tags 'bson' em vez de 'json'.
type AuditLog struct {
	ID            string    `bson:"_id,omitempty"`
	TransactionID int64     `bson:"transaction_id"`
	ReversalOf    int64     `bson:"reversal_of,omitempty"`
	AccountID     string    `bson:"account_id"`
	RelatedID     string    `bson:"related_id,omitempty"`
	Type          string    `bson:"type"`
	Amount        int64     `bson:"amount"`
	Status        string    `bson:"status"`
	RoutingKey    string    `bson:"routing_key"`
	ProcessedAt   time.Time `bson:"processed_at"`
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	collection := client.Database(dbName).Collection("audit_logs")
	return &AuditRepository{collection: collection}
}

func (r *AuditRepository) Save(ctx context.Context, log AuditLog) error {
	log.ProcessedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
