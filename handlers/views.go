package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"classhub/db"
	"classhub/models"
)

// fetchUsers loads the given users keyed by id. Missing ids are simply
// absent from the map.
func fetchUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	users := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := db.DB.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users[user.ID] = user
	}
	return users, cursor.Err()
}

// teacherInfo is the public shape of a teacher attached to classes, quizzes
// and assignments
func teacherInfo(u models.User) gin.H {
	return gin.H{
		"id":          u.ID.Hex(),
		"fullName":    u.FullName,
		"teacherId":   u.TeacherID,
		"department":  u.Department,
		"email":       u.Email,
		"phoneNumber": u.PhoneNumber,
	}
}

// studentInfo is the public shape of a student attached to rosters and
// submissions
func studentInfo(u models.User) gin.H {
	return gin.H{
		"id":        u.ID.Hex(),
		"fullName":  u.FullName,
		"studentId": u.StudentID,
		"email":     u.Email,
	}
}
