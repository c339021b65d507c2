package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"go.carehub.io/hospital-api/domain"
)

// SessionAuditRepository implements domain.SessionAuditRepository on
// MongoDB. Rows are append-mostly: only the logout date ever changes.
type SessionAuditRepository struct {
	collection *mongo.Collection
}

// NewSessionAuditRepository creates the repository and ensures its indexes.
func NewSessionAuditRepository(ctx context.Context, db *mongo.Database) (domain.SessionAuditRepository, error) {
	repo := &SessionAuditRepository{
		collection: db.Collection(SessionAuditCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "login_date", Value: -1}},
		},
	}

	if _, err := repo.collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Issue creating indexes for session_audit collection")
	}

	return repo, nil
}

// Create inserts the audit row and returns its identifier.
func (r *SessionAuditRepository) Create(ctx context.Context, audit *domain.SessionAudit) (string, error) {
	if audit.ID == "" {
		audit.ID = bson.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(ctx, audit); err != nil {
		log.Error().Err(err).Str("user", audit.UserName).Msg("Error storing session audit")
		return "", err
	}
	return audit.ID, nil
}

// GetByID retrieves an audit row by its identifier.
func (r *SessionAuditRepository) GetByID(ctx context.Context, id string) (*domain.SessionAudit, error) {
	var audit domain.SessionAudit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&audit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuditNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting session audit by ID")
		return nil, err
	}
	return &audit, nil
}

// SetLogoutDate stamps the logout date. The user and login date fields are
// immutable; the update only touches logout_date.
func (r *SessionAuditRepository) SetLogoutDate(ctx context.Context, id string, at time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"logout_date": at}},
	)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error setting session audit logout date")
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAuditNotFound
	}
	return nil
}
