package repository

import (
	"context"

	"fitcoach/assistant-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProgramRepository persists one UserProgram document per user id.
type ProgramRepository interface {
	Save(ctx context.Context, program *domain.UserProgram) error
	Get(ctx context.Context, userID string) (*domain.UserProgram, error)
	// Delete removes the user's program. Deleting a non-existent
	// program is a no-op, not an error.
	Delete(ctx context.Context, userID string) error
}

// UploadRepository defines the interface for ingested-document metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Upload, error)
}
