package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("appointments")
	repo := &MongoAppointmentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries. The
// partial unique index over the slot key is what makes Commit's
// check-then-insert atomic: concurrent commits for the same key race on the
// index, exactly one insert wins, the rest surface as duplicate-key errors.
func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "employeeId", Value: 1},
				{Key: "appointmentTime", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.AppointmentStatusConfirmed}),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "appointmentTime", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Commit inserts a confirmed appointment. The unique partial index enforces
// the one-non-cancelled-appointment-per-key invariant; a duplicate key is
// mapped to *ConflictError and no record is created.
func (r *MongoAppointmentRepo) Commit(ctx context.Context, appt *models.Appointment) error {
	now := time.Now()
	appt.Status = models.AppointmentStatusConfirmed
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &ConflictError{
				BusinessID: appt.BusinessID,
				EmployeeID: appt.EmployeeID,
				When:       appt.Time,
			}
		}
		return fmt.Errorf("failed to commit appointment: %w", err)
	}
	return nil
}

// UpdateStatus transitions an appointment to the given status. Only the
// confirmed -> cancelled transition is permitted.
func (r *MongoAppointmentRepo) UpdateStatus(id string, status string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if status != models.AppointmentStatusCancelled {
		return nil, ErrInvalidTransition
	}

	filter := bson.M{"id": id, "status": models.AppointmentStatusConfirmed}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			// Either unknown id or already cancelled.
			if existing, lookupErr := r.GetByID(id); lookupErr == nil && existing != nil {
				return nil, ErrInvalidTransition
			}
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update appointment %s: %w", id, err)
	}
	return &appt, nil
}

// GetByID retrieves an appointment by its unique ID.
func (r *MongoAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

// GetByUser retrieves all appointments booked by a user, most recent first.
func (r *MongoAppointmentRepo) GetByUser(userID string) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "appointmentTime", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve appointments for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// GetByBusinessAndDay retrieves the non-cancelled appointments of a business
// within [dayStart, dayStart+24h), optionally scoped to one employee.
func (r *MongoAppointmentRepo) GetByBusinessAndDay(businessID string, dayStart time.Time, employeeID string) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	start := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), 0, 0, 0, 0, dayStart.Location())
	end := start.AddDate(0, 0, 1)

	filter := bson.M{
		"businessId":      businessID,
		"appointmentTime": bson.M{"$gte": start, "$lt": end},
		"status":          bson.M{"$ne": models.AppointmentStatusCancelled},
	}
	if employeeID != "" {
		filter["employeeId"] = employeeID
	}

	opts := options.Find().SetSort(bson.D{{Key: "appointmentTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve appointments for business %s: %w", businessID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}
