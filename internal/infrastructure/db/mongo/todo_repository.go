package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasklane/todo-service/internal/core/domain"
)

type TodoRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
	now  func() time.Time
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{db: db, coll: db.Collection(collectionTodos), now: time.Now}
}

type mongoTodo struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}

func (t mongoTodo) toDomain() domain.Todo {
	return domain.Todo{ID: t.ID, UserID: t.UserID, Content: t.Content, CreatedAt: t.CreatedAt.UTC()}
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	var docs []mongoTodo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list todos: decode: %w", err)
	}

	todos := make([]domain.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

func (r *TodoRepository) Create(ctx context.Context, userID int64, content string) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionTodos)
	if err != nil {
		return nil, err
	}

	// Mongo stores milliseconds; truncate so the returned value round-trips.
	doc := mongoTodo{
		ID:        id,
		UserID:    userID,
		Content:   content,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	todo := doc.toDomain()
	return &todo, nil
}

func (r *TodoRepository) DeleteOwned(ctx context.Context, userID, todoID int64) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTodo
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": todoID, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("delete todo: %w", err)
	}

	todo := doc.toDomain()
	return &todo, nil
}
