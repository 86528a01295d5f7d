package employeeRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/config"
	"github.com/JustinVargasQ/ProyectoBueno/database"
	"github.com/JustinVargasQ/ProyectoBueno/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEmployeeRepo implements EmployeeRepository using MongoDB.
type MongoEmployeeRepo struct {
	coll *mongo.Collection
}

// NewMongoEmployeeRepo creates a new instance of EmployeeRepository using MongoDB.
func NewMongoEmployeeRepo() EmployeeRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("employees")
	repo := &MongoEmployeeRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoEmployeeRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "active", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an employee by its unique ID.
func (r *MongoEmployeeRepo) GetByID(id string) (*models.Employee, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var employee models.Employee
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&employee); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch employee with id %s: %w", id, err)
	}
	return &employee, nil
}

// GetActiveByBusiness retrieves the active employees of a business, in
// stable name order so dialogue context assembly is deterministic.
func (r *MongoEmployeeRepo) GetActiveByBusiness(businessID string) ([]models.Employee, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"businessId": businessID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve employees for business %s: %w", businessID, err)
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, nil
}
