package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload stores metadata about a knowledge document a user pushed
// through the ingestion pipeline. The original file is archived in S3;
// the indexed chunks live in the exercises collection.
type Upload struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	S3ObjectKey   string             `bson:"s3ObjectKey" json:"-"` // internal use only
	FileName      string             `bson:"fileName" json:"fileName"`
	ContentType   string             `bson:"contentType" json:"contentType"`
	Size          int64              `bson:"size" json:"size"`
	ChunksIndexed int                `bson:"chunksIndexed" json:"chunksIndexed"`
	UploadedAt    time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
