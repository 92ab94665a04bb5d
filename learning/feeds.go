package learning

import (
	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

// AllTopics disables the topic filter, like an empty Topic.
const AllTopics = "All"

type FeedOrder int

const (
	Newest FeedOrder = iota
	MostLiked
)

type QuestionStatus int

const (
	AnyStatus QuestionStatus = iota
	Answered
	Unanswered
)

type FeedFilter struct {
	Topic  string
	Search string // case-insensitive, over title and content
	Order  FeedOrder
	Status QuestionStatus // questions only
}

func (f FeedFilter) query() value.Record {
	q := value.Record{}
	if f.Topic != "" && f.Topic != AllTopics {
		q["topic"] = value.String(f.Topic)
	}
	switch f.Status {
	case Answered:
		q["answered"] = value.Bool(true)
	case Unanswered:
		q["answered"] = value.Bool(false)
	}
	if f.Search != "" {
		q["$or"] = searchAny(f.Search, "title", "content")
	}
	return q
}

func (f FeedFilter) sort() *collection.Sort {
	if f.Order == MostLiked {
		return &collection.Sort{Field: "likes", Direction: -1}
	}
	return &collection.Sort{Field: "created_at", Direction: -1}
}

func searchAny(text string, fields ...string) value.Value {
	alternatives := make([]value.Value, len(fields))
	for i, field := range fields {
		alternatives[i] = value.Map(value.Record{
			field: value.Map(value.Record{"$regex": value.String(text), "$options": value.String("i")}),
		})
	}
	return value.List(alternatives...)
}

// CommunityFeed lists posts matching filter, newest or most liked first.
func (l *Learning) CommunityFeed(filter FeedFilter) []value.Record {
	return l.db.Collection(CommunityPosts).Find(query.Compile(filter.query()), &collection.FindOptions{
		Sort: filter.sort(),
	})
}

func (l *Learning) AddComment(postID value.Value, userID, username, content string) (*collection.UpdateResult, error) {
	return l.db.Collection(CommunityPosts).UpdateOne(
		query.Compile(value.Record{collection.IDField: postID}),
		update.Compile(value.Record{"$push": value.Map(value.Record{
			"comments": value.Map(value.Record{
				"user_id":    value.String(userID),
				"username":   value.String(username),
				"content":    value.String(content),
				"created_at": l.now(),
			}),
		})}),
	)
}

// QuestionFeed lists questions matching filter, always newest first.
func (l *Learning) QuestionFeed(filter FeedFilter) []value.Record {
	filter.Order = Newest
	return l.db.Collection(Questions).Find(query.Compile(filter.query()), &collection.FindOptions{
		Sort: filter.sort(),
	})
}

func (l *Learning) UserQuestions(userID string) []value.Record {
	return l.db.Collection(Questions).Find(query.New(JSON{"user_id": userID}), &collection.FindOptions{
		Sort: &collection.Sort{Field: "created_at", Direction: -1},
	})
}

// ExploreCourses lists the courses the user is not enrolled in. Empty or
// AllTopics category and difficulty do not filter.
func (l *Learning) ExploreCourses(userID, category, difficulty, search string) []value.Record {
	q := value.Record{}
	if category != "" && category != AllTopics {
		q["category"] = value.String(category)
	}
	if difficulty != "" && difficulty != AllTopics {
		q["difficulty"] = value.String(difficulty)
	}
	if search != "" {
		q["$or"] = searchAny(search, "title", "description")
	}
	if enrolled, _ := l.enrolledCourseIDs(userID).AsList(); len(enrolled) > 0 {
		q[collection.IDField] = value.Map(value.Record{"$nin": value.List(enrolled...)})
	}
	return l.db.Collection(Courses).Find(query.Compile(q), nil)
}

// AvailableAssessments lists the assessments of the courses the user is
// enrolled in.
func (l *Learning) AvailableAssessments(userID string) []value.Record {
	return l.db.Collection(Assessments).Find(query.Compile(value.Record{
		"course_id": value.Map(value.Record{"$in": l.enrolledCourseIDs(userID)}),
	}), nil)
}

func (l *Learning) AssessmentResults(userID string) []value.Record {
	return l.db.Collection(AssessmentResult).Find(query.New(JSON{"user_id": userID}), nil)
}
