// Package mongo provides the MongoDB implementation of the transaction
// repository. Evaluated transactions are append-only; the only rewrite is
// the one-time feedback assignment.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/antifraud-service/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the transaction collection
	TransactionCollectionName = "transactions"

	// counterCollectionName holds the monotonically increasing transaction
	// ID sequence
	counterCollectionName = "counters"

	transactionCounterID = "transaction_id"
)

// TransactionRepository implements the transaction.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// nextID atomically increments and returns the transaction ID sequence
func (r *TransactionRepository) nextID(ctx context.Context) (int64, error) {
	collection := r.db.Collection(counterCollectionName)

	filter := bson.M{"_id": transactionCounterID}
	update := bson.M{"$inc": bson.M{"sequence": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Sequence int64 `bson:"sequence"`
	}
	if err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance transaction id sequence: %w", err)
	}

	return counter.Sequence, nil
}

// Save stores a new transaction and assigns its ID from the counter sequence
func (r *TransactionRepository) Save(ctx context.Context, tx *transaction.Transaction) error {
	id, err := r.nextID(ctx)
	if err != nil {
		r.logger.Error("Failed to assign transaction ID", "error", err)
		return err
	}
	tx.ID = id

	collection := r.db.Collection(TransactionCollectionName)
	if _, err := collection.InsertOne(ctx, tx); err != nil {
		r.logger.Error("Failed to save transaction",
			"transaction_id", tx.ID,
			"error", err)
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID.
// Returns ErrTransactionNotFound if no transaction exists.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": id}
	var tx transaction.Transaction
	err := collection.FindOne(ctx, filter).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction",
			"transaction_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

// FindByCardInWindow retrieves same-card history in the half-open window
// (from, to], ordered by ID ascending.
func (r *TransactionRepository) FindByCardInWindow(ctx context.Context, cardNumber string, from, to time.Time) ([]*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{
		"card_number": cardNumber,
		"occurred_at": bson.M{"$gt": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.M{"transaction_id": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query correlation window",
			"card_number", cardNumber,
			"error", err)
		return nil, fmt.Errorf("failed to query correlation window: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []*transaction.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		r.logger.Error("Failed to decode correlation window results",
			"card_number", cardNumber,
			"error", err)
		return nil, fmt.Errorf("failed to decode correlation window results: %w", err)
	}

	return txs, nil
}

// Update rewrites the transaction's feedback field.
// Returns ErrTransactionNotFound if the transaction doesn't exist.
func (r *TransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": tx.ID}
	update := bson.M{"$set": bson.M{"feedback": tx.Feedback}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update transaction",
			"transaction_id", tx.ID,
			"error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.MatchedCount == 0 {
		return transaction.ErrTransactionNotFound{ID: tx.ID}
	}

	return nil
}

// ListAll returns the full history ordered by ID ascending
func (r *TransactionRepository) ListAll(ctx context.Context) ([]*transaction.Transaction, error) {
	return r.list(ctx, bson.M{})
}

// ListByCard returns same-card history ordered by ID ascending
func (r *TransactionRepository) ListByCard(ctx context.Context, cardNumber string) ([]*transaction.Transaction, error) {
	return r.list(ctx, bson.M{"card_number": cardNumber})
}

func (r *TransactionRepository) list(ctx context.Context, filter bson.M) ([]*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	opts := options.Find().SetSort(bson.M{"transaction_id": 1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []*transaction.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		r.logger.Error("Failed to decode transactions", "error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return txs, nil
}
