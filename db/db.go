package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"classhub/config"
)

// DB is the global database handle
var DB *Database

// Database wraps the mongo database and its collection handles
type Database struct {
	client          *mongo.Client
	Users           *mongo.Collection
	Classes         *mongo.Collection
	Assignments     *mongo.Collection
	Quizzes         *mongo.Collection
	QuizSubmissions *mongo.Collection
}

// InitDatabaseConnection connects to MongoDB and prepares collection handles
func InitDatabaseConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConfigInstance.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	database := client.Database(config.ConfigInstance.DBName)
	DB = &Database{
		client:          client,
		Users:           database.Collection("users"),
		Classes:         database.Collection("classes"),
		Assignments:     database.Collection("assignments"),
		Quizzes:         database.Collection("quizzes"),
		QuizSubmissions: database.Collection("quiz_submissions"),
	}

	if err := DB.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %v", err)
	}

	return nil
}

// ensureIndexes creates the uniqueness constraints the handlers rely on:
// one account per email, one class per (courseCode, semester, academicYear)
// and at most one quiz submission per (quiz, student).
func (d *Database) ensureIndexes(ctx context.Context) error {
	_, err := d.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.Classes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "courseCode", Value: 1},
			{Key: "semester", Value: 1},
			{Key: "academicYear", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.QuizSubmissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "quiz", Value: 1},
			{Key: "student", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CloseConnection closes the MongoDB connection
func CloseConnection() error {
	if DB != nil && DB.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return DB.client.Disconnect(ctx)
	}
	return nil
}
