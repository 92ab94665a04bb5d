package learning

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

const (
	Tasks           = "user_tasks"
	PracticeSets    = "practice_questions"
	CustomMaterials = "custom_materials"

	DateLayout        = "2006-01-02"
	RecentTasksLimit  = 10
	DefaultPriority   = "Medium"
	DefaultTaskType   = "Study"
	DefaultTaskMinute = 30
)

var ErrEmptyTaskName = errors.New("task name is empty")

type NewTask struct {
	Name         string `json:"name"`
	Priority     string `json:"priority"`
	TimeEstimate int    `json:"time_estimate"`
	TaskType     string `json:"task_type"`
	Notes        string `json:"notes"`
	Date         string `json:"date"` // YYYY-MM-DD, today when empty
}

// AddTask stores a pending task for t.Date.
func (l *Learning) AddTask(userID string, t NewTask) (value.Value, error) {

	name := strings.TrimSpace(t.Name)
	if name == "" {
		return value.Null(), ErrEmptyTaskName
	}
	if t.Date == "" {
		t.Date = l.Now().Format(DateLayout)
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if t.TaskType == "" {
		t.TaskType = DefaultTaskType
	}
	if t.TimeEstimate <= 0 {
		t.TimeEstimate = DefaultTaskMinute
	}

	return l.db.Collection(Tasks).InsertOne(value.Record{
		"user_id":       value.String(userID),
		"name":          value.String(name),
		"priority":      value.String(t.Priority),
		"time_estimate": value.Int(int64(t.TimeEstimate)),
		"task_type":     value.String(t.TaskType),
		"notes":         value.String(t.Notes),
		"date":          value.String(t.Date),
		"completed":     value.Bool(false),
		"created_at":    l.now(),
	})
}

func (l *Learning) TasksForDate(userID, date string) []value.Record {
	return l.db.Collection(Tasks).Find(query.New(JSON{"user_id": userID, "date": date}), nil)
}

func (l *Learning) TasksForDates(userID string, dates []string) []value.Record {
	return l.db.Collection(Tasks).Find(query.New(JSON{
		"user_id": userID,
		"date":    JSON{"$in": dates},
	}), nil)
}

// WeekDates lists the seven days (Monday first) of the week holding day.
func WeekDates(day time.Time) []string {
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

func (l *Learning) CompleteTask(taskID value.Value) (*collection.UpdateResult, error) {
	return l.db.Collection(Tasks).UpdateOne(
		query.Compile(value.Record{collection.IDField: taskID}),
		update.Compile(value.Record{"$set": value.Map(value.Record{"completed": value.Bool(true)})}),
	)
}

func (l *Learning) DeleteTask(taskID value.Value) bool {
	result := l.db.Collection(Tasks).DeleteOne(query.Compile(value.Record{collection.IDField: taskID}))
	return result.Deleted > 0
}

type TaskHistory struct {
	Total           int            `json:"total"`
	Completed       int            `json:"completed"`
	CompletionRate  float64        `json:"completion_rate"`
	AvgTimeEstimate float64        `json:"avg_time_estimate"`
	Recent          []value.Record `json:"recent"`
}

// TaskHistory summarizes every task of the user. Recent holds the last
// completed ones, newest id first.
func (l *Learning) TaskHistory(userID string) *TaskHistory {

	all := l.db.Collection(Tasks).Find(query.New(JSON{"user_id": userID}), nil)
	completed := l.db.Collection(Tasks).Find(query.New(JSON{"user_id": userID, "completed": true}), &collection.FindOptions{
		Sort: &collection.Sort{Field: collection.IDField, Direction: -1},
	})

	history := &TaskHistory{
		Total:     len(all),
		Completed: len(completed),
		Recent:    completed,
	}

	if len(all) > 0 {
		history.CompletionRate = float64(len(completed)) * 100 / float64(len(all))
	}
	if len(completed) > 0 {
		minutes := 0.0
		for _, task := range completed {
			minutes += number(task, "time_estimate")
		}
		history.AvgTimeEstimate = minutes / float64(len(completed))
	}
	if len(history.Recent) > RecentTasksLimit {
		history.Recent = history.Recent[:RecentTasksLimit]
	}

	return history
}

func (l *Learning) SavePracticeSet(userID, topic, difficulty, questions string) (value.Value, error) {
	return l.db.Collection(PracticeSets).InsertOne(value.Record{
		"user_id":    value.String(userID),
		"topic":      value.String(topic),
		"difficulty": value.String(difficulty),
		"questions":  value.String(questions),
		"created_at": l.now(),
	})
}

func (l *Learning) UserPracticeSets(userID string) []value.Record {
	return l.db.Collection(PracticeSets).Find(query.New(JSON{"user_id": userID}), nil)
}

func (l *Learning) DeletePracticeSet(id value.Value) bool {
	result := l.db.Collection(PracticeSets).DeleteOne(query.Compile(value.Record{collection.IDField: id}))
	return result.Deleted > 0
}

type CustomMaterial struct {
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	LearningStyle string `json:"learning_style"`
	Content       string `json:"content"`
	Summary       string `json:"summary"`
}

func (l *Learning) SaveCustomMaterial(userID string, m CustomMaterial) (value.Value, error) {
	if strings.TrimSpace(m.Content) == "" {
		return value.Null(), fmt.Errorf("custom material on '%s': empty content", m.Topic)
	}
	return l.db.Collection(CustomMaterials).InsertOne(value.Record{
		"user_id":        value.String(userID),
		"topic":          value.String(m.Topic),
		"difficulty":     value.String(m.Difficulty),
		"learning_style": value.String(m.LearningStyle),
		"content":        value.String(m.Content),
		"summary":        value.String(m.Summary),
		"created_at":     l.now(),
	})
}

func (l *Learning) UserCustomMaterials(userID string) []value.Record {
	return l.db.Collection(CustomMaterials).Find(query.New(JSON{"user_id": userID}), nil)
}

func (l *Learning) DeleteCustomMaterial(id value.Value) bool {
	result := l.db.Collection(CustomMaterials).DeleteOne(query.Compile(value.Record{collection.IDField: id}))
	return result.Deleted > 0
}
