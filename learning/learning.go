// Package learning holds the data operations of the tutoring application,
// expressed only through the document store surface.
package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/database"
	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

const MaxRecommendations = 3

var ErrUserNotFound = errors.New("user not found")

type Learning struct {
	db  *database.Database
	Now func() time.Time
}

func New(db *database.Database) *Learning {
	return &Learning{
		db:  db,
		Now: time.Now,
	}
}

func (l *Learning) now() value.Value {
	return value.Time(l.Now())
}

func (l *Learning) UserProgress(userID string) []value.Record {
	return l.db.Collection(Progress).Find(query.New(JSON{"user_id": userID}), nil)
}

func (l *Learning) UserCourses(userID string) []value.Record {
	return l.db.Collection(Courses).Find(query.Compile(value.Record{
		collection.IDField: value.Map(value.Record{"$in": l.enrolledCourseIDs(userID)}),
	}), nil)
}

func (l *Learning) enrolledCourseIDs(userID string) value.Value {
	ids := []value.Value{}
	for _, p := range l.UserProgress(userID) {
		ids = append(ids, p["course_id"])
	}
	return value.List(ids...)
}

// CourseRecommendations suggests up to MaxRecommendations courses the user is
// not enrolled in: first those matching an interest, then any other course.
func (l *Learning) CourseRecommendations(userID string) ([]value.Record, error) {

	user, found := l.db.Collection(Users).FindOne(query.New(JSON{collection.IDField: userID}))
	if !found {
		return nil, fmt.Errorf("recommendations for '%s': %w", userID, ErrUserNotFound)
	}

	interests := []value.Value{}
	if preferences, ok := user["preferences"].AsRecord(); ok {
		interests, _ = preferences["interests"].AsList()
	}

	exclude := []value.Value{}
	for _, c := range l.UserCourses(userID) {
		exclude = append(exclude, c[collection.IDField])
	}

	courses := l.db.Collection(Courses)
	recommended := []value.Record{}
	for _, interest := range interests {
		or := []value.Value{}
		for _, field := range []string{"category", "title", "description"} {
			or = append(or, value.Map(value.Record{
				field: value.Map(value.Record{"$regex": interest, "$options": value.String("i")}),
			}))
		}
		similar := courses.Find(query.Compile(value.Record{
			collection.IDField: value.Map(value.Record{"$nin": value.List(exclude...)}),
			"$or":              value.List(or...),
		}), &collection.FindOptions{Limit: MaxRecommendations})
		recommended = append(recommended, similar...)
	}

	if len(recommended) < MaxRecommendations {
		for _, c := range recommended {
			exclude = append(exclude, c[collection.IDField])
		}
		additional := courses.Find(query.Compile(value.Record{
			collection.IDField: value.Map(value.Record{"$nin": value.List(exclude...)}),
		}), &collection.FindOptions{Limit: MaxRecommendations - len(recommended)})
		recommended = append(recommended, additional...)
	}

	if len(recommended) > MaxRecommendations {
		recommended = recommended[:MaxRecommendations]
	}
	return recommended, nil
}

// SaveAssessmentResult stores (or replaces) the user's result for an
// assessment and refreshes the related course progress.
func (l *Learning) SaveAssessmentResult(userID, assessmentID string, score float64, answers value.Record) error {

	results := l.db.Collection(AssessmentResult)
	key := JSON{"user_id": userID, "assessment_id": assessmentID}

	existing, found := results.FindOne(query.New(key))
	if found {
		_, err := results.UpdateOne(
			query.Compile(value.Record{collection.IDField: existing[collection.IDField]}),
			update.Compile(value.Record{"$set": value.Map(value.Record{
				"score":        value.Number(score),
				"answers":      value.Map(answers),
				"completed_at": l.now(),
			})}),
		)
		if err != nil {
			return fmt.Errorf("update result: %w", err)
		}
	} else {
		result := value.RecordFromMap(key)
		result["score"] = value.Number(score)
		result["answers"] = value.Map(answers)
		result["completed_at"] = l.now()
		_, err := results.InsertOne(result)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}

	assessment, found := l.db.Collection(Assessments).FindOne(query.New(JSON{collection.IDField: assessmentID}))
	if !found {
		return nil
	}
	courseID, exists := assessment["course_id"]
	if !exists {
		return nil
	}

	progress := l.db.Collection(Progress)
	current, found := progress.FindOne(query.Compile(value.Record{
		"user_id":   value.String(userID),
		"course_id": courseID,
	}))
	if !found {
		return nil
	}

	scores, _ := current["quiz_scores"].AsList()
	entry := value.Map(value.Record{"quiz_id": value.String(assessmentID), "score": value.Number(score)})
	replaced := false
	for i, quiz := range scores {
		q, _ := quiz.AsRecord()
		if id, _ := q["quiz_id"].AsString(); id == assessmentID {
			scores[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		scores = append(scores, entry)
	}

	course, found := l.db.Collection(Courses).FindOne(query.Compile(value.Record{collection.IDField: courseID}))
	if !found {
		return nil
	}

	percentage := current["progress_percentage"]
	if percentage.IsNull() {
		percentage = value.Int(0)
	}
	topics, _ := course["topics"].AsList()
	if len(topics) > 0 {
		completed, _ := current["completed_topics"].AsList()
		p := len(completed) * 100 / len(topics)
		if p > 100 {
			p = 100
		}
		percentage = value.Int(int64(p))
	}

	_, err := progress.UpdateOne(
		query.Compile(value.Record{collection.IDField: current[collection.IDField]}),
		update.Compile(value.Record{"$set": value.Map(value.Record{
			"quiz_scores":         value.List(scores...),
			"progress_percentage": percentage,
			"last_updated":        l.now(),
		})}),
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	return nil
}

func (l *Learning) AddCommunityPost(userID, username, title, content, topic string) (value.Value, error) {
	return l.db.Collection(CommunityPosts).InsertOne(value.Record{
		"user_id":    value.String(userID),
		"username":   value.String(username),
		"title":      value.String(title),
		"content":    value.String(content),
		"topic":      value.String(topic),
		"likes":      value.Int(0),
		"comments":   value.List(),
		"created_at": l.now(),
	})
}

func (l *Learning) AddQuestion(userID, username, title, content, topic string) (value.Value, error) {
	return l.db.Collection(Questions).InsertOne(value.Record{
		"user_id":    value.String(userID),
		"username":   value.String(username),
		"title":      value.String(title),
		"content":    value.String(content),
		"topic":      value.String(topic),
		"answered":   value.Bool(false),
		"ai_answer":  value.String(""),
		"likes":      value.Int(0),
		"created_at": l.now(),
	})
}

func (l *Learning) AnswerQuestion(questionID value.Value, answer string) (*collection.UpdateResult, error) {
	return l.db.Collection(Questions).UpdateOne(
		query.Compile(value.Record{collection.IDField: questionID}),
		update.Compile(value.Record{"$set": value.Map(value.Record{
			"answered":  value.Bool(true),
			"ai_answer": value.String(answer),
		})}),
	)
}

func (l *Learning) Enroll(userID, courseID string) (value.Value, error) {
	return l.db.Collection(Progress).InsertOne(value.Record{
		"user_id":     value.String(userID),
		"course_id":   value.String(courseID),
		"enrolled_at": l.now(),
		"status":      value.String("in_progress"),
		"progress":    value.Int(0),
	})
}

// Unenroll removes one enrollment and reports whether there was any.
func (l *Learning) Unenroll(userID, courseID string) bool {
	result := l.db.Collection(Progress).DeleteOne(query.New(JSON{"user_id": userID, "course_id": courseID}))
	return result.Deleted > 0
}

func (l *Learning) UpdateMaterial(materialID value.Value, changes value.Record) (*collection.UpdateResult, error) {
	set := changes.Clone()
	if set == nil {
		set = value.Record{}
	}
	set["last_edited"] = l.now()
	return l.db.Collection(Materials).UpdateOne(
		query.Compile(value.Record{collection.IDField: materialID}),
		update.Compile(value.Record{"$set": value.Map(set)}),
	)
}

func (l *Learning) DeleteMaterial(materialID value.Value) bool {
	result := l.db.Collection(Materials).DeleteOne(query.Compile(value.Record{collection.IDField: materialID}))
	return result.Deleted > 0
}
