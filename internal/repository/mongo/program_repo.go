package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository.
// Each user owns exactly one program document keyed by user id.
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Save upserts the user's program document.
func (r *mongoProgramRepository) Save(ctx context.Context, program *domain.UserProgram) error {
	if program.UserID == "" {
		return errors.New("program requires a user id")
	}

	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now

	filter := bson.M{"_id": program.UserID}
	_, err := r.collection.ReplaceOne(ctx, filter, program, options.Replace().SetUpsert(true))
	return err
}

// Get retrieves a user's program. Loaded state is normalized before
// being returned, since the stored document may have been edited or
// corrupted between runs.
func (r *mongoProgramRepository) Get(ctx context.Context, userID string) (*domain.UserProgram, error) {
	var program domain.UserProgram
	filter := bson.M{"_id": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	program.Normalize()
	return &program, nil
}

// Delete removes a user's program. Deleting a non-existent program is
// a no-op.
func (r *mongoProgramRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
