package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnly/course-platform/internal/core/domain"
)

const courseCollection = "courses"

type MongoCourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *MongoCourseRepository {
	return &MongoCourseRepository{coll: db.Collection(courseCollection)}
}

type mongoCourse struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description,omitempty"`
	Level          string             `bson:"level,omitempty"`
	Tags           []string           `bson:"tags,omitempty"`
	Price          float64            `bson:"price"`
	EstimatedPrice float64            `bson:"estimated_price,omitempty"`
	PurchasedCount int64              `bson:"purchased_count"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func (r *MongoCourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	res, err := r.coll.InsertOne(ctx, toMongoCourse(course))
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert course: unexpected id type %T", res.InsertedID)
	}
	created := *course
	created.ID = id.Hex()
	return &created, nil
}

func (r *MongoCourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}
	var mc mongoCourse
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return fromMongoCourse(&mc), nil
}

func (r *MongoCourseRepository) FindAll(ctx context.Context) ([]*domain.Course, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cur.Close(ctx)

	var courses []*domain.Course
	for cur.Next(ctx) {
		var mc mongoCourse
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		courses = append(courses, fromMongoCourse(&mc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (r *MongoCourseRepository) Save(ctx context.Context, course *domain.Course) error {
	oid, err := primitive.ObjectIDFromHex(course.ID)
	if err != nil {
		return domain.ErrCourseNotFound
	}
	doc := toMongoCourse(course)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *MongoCourseRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCourseNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *MongoCourseRepository) IncrementPurchased(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCourseNotFound
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"purchased_count": 1}})
	if err != nil {
		return fmt.Errorf("increment purchased: %w", err)
	}
	return nil
}

func toMongoCourse(c *domain.Course) mongoCourse {
	return mongoCourse{
		Title:          c.Title,
		Description:    c.Description,
		Level:          c.Level,
		Tags:           c.Tags,
		Price:          c.Price,
		EstimatedPrice: c.EstimatedPrice,
		PurchasedCount: c.PurchasedCount,
		CreatedAt:      c.CreatedAt.Unix(),
		UpdatedAt:      c.UpdatedAt.Unix(),
	}
}

func fromMongoCourse(mc *mongoCourse) *domain.Course {
	return &domain.Course{
		ID:             mc.ID.Hex(),
		Title:          mc.Title,
		Description:    mc.Description,
		Level:          mc.Level,
		Tags:           mc.Tags,
		Price:          mc.Price,
		EstimatedPrice: mc.EstimatedPrice,
		PurchasedCount: mc.PurchasedCount,
		CreatedAt:      unixToTime(mc.CreatedAt),
		UpdatedAt:      unixToTime(mc.UpdatedAt),
	}
}
