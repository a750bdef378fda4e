package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoIdentityRepository struct {
	collection *mongo.Collection
}

type dbIdentity struct {
	ID          ID        `bson:"_id"`
	Name        string    `bson:"name"`
	Email       string    `bson:"email"`
	Password    string    `bson:"password"`
	DateOfBirth time.Time `bson:"dateofbirth"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// NewMongoIdentityRepository stores identities in c. Call EnsureIndexes once
// before serving so that name uniqueness is enforced by the server.
func NewMongoIdentityRepository(c *mongo.Collection) Repository {
	return &mongoIdentityRepository{collection: c}
}

// EnsureIndexes creates the unique index on name.
func EnsureIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("create name index: %w", err)
	}
	return nil
}

func (m *mongoIdentityRepository) FindByName(ctx context.Context, name string) (*Identity, error) {
	return m.findOne(ctx, bson.M{"name": name})
}

func (m *mongoIdentityRepository) FindByCredentials(ctx context.Context, email, password string) (*Identity, error) {
	return m.findOne(ctx, bson.M{"email": email, "password": password})
}

func (m *mongoIdentityRepository) FindByEmail(ctx context.Context, email string) ([]*Identity, error) {
	cur, err := m.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}

	var rows []dbIdentity
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	found := make([]*Identity, 0, len(rows))
	for _, row := range rows {
		found = append(found, identityFromDB(row))
	}
	return found, nil
}

func (m *mongoIdentityRepository) Insert(ctx context.Context, identity Identity) (*Identity, error) {
	identity.ID = NewID()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}

	row := dbIdentityFromIdentity(identity)
	if _, err := m.collection.InsertOne(ctx, &row); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrExistingName
		}
		return nil, err
	}
	return identityFromDB(row), nil
}

func (m *mongoIdentityRepository) findOne(ctx context.Context, filter bson.M) (*Identity, error) {
	var row dbIdentity
	err := m.collection.FindOne(ctx, filter).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return identityFromDB(row), nil
}

func dbIdentityFromIdentity(i Identity) dbIdentity {
	return dbIdentity{i.ID, i.Name, i.Email, i.Password, i.DateOfBirth.UTC(), i.CreatedAt.UTC()}
}

func identityFromDB(row dbIdentity) *Identity {
	return &Identity{row.ID, row.Name, row.Email, row.Password, row.DateOfBirth.UTC(), row.CreatedAt.UTC()}
}
