package learning

import (
	"sort"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

const (
	UnknownCourse = "Unknown Course"
	TopQuizScores = 5
)

type CourseProgress struct {
	Course   string  `json:"course"`
	Progress float64 `json:"progress"`
}

type QuizScore struct {
	Course string  `json:"course"`
	Score  float64 `json:"score"`
}

type Stats struct {
	TotalCourses int              `json:"total_courses"`
	AvgProgress  float64          `json:"avg_progress"`
	AvgScore     float64          `json:"avg_score"`
	Progress     []CourseProgress `json:"progress_data"`
	Quizzes      []QuizScore      `json:"quiz_data"`
}

func number(r value.Record, field string) float64 {
	n, _ := r[field].AsNumber()
	return n
}

// LearningStats summarizes the user's enrollments for the dashboard.
func (l *Learning) LearningStats(userID string) *Stats {

	progress := l.UserProgress(userID)

	titles := map[string]string{}
	for _, course := range l.UserCourses(userID) {
		title, _ := course["title"].AsString()
		titles[course[collection.IDField].Key()] = title
	}
	courseTitle := func(p value.Record) string {
		if title, ok := titles[p["course_id"].Key()]; ok {
			return title
		}
		return UnknownCourse
	}

	stats := &Stats{
		TotalCourses: len(progress),
		Progress:     []CourseProgress{},
		Quizzes:      []QuizScore{},
	}

	totalProgress, totalScore := 0.0, 0.0
	for _, p := range progress {
		percentage := number(p, "progress_percentage")
		totalProgress += percentage
		stats.Progress = append(stats.Progress, CourseProgress{
			Course:   courseTitle(p),
			Progress: percentage,
		})

		scores, _ := p["quiz_scores"].AsList()
		for _, item := range scores {
			quiz, _ := item.AsRecord()
			score := number(quiz, "score")
			totalScore += score
			stats.Quizzes = append(stats.Quizzes, QuizScore{
				Course: courseTitle(p),
				Score:  score,
			})
		}
	}

	stats.AvgProgress = totalProgress / float64(max(1, len(progress)))
	stats.AvgScore = totalScore / float64(max(1, len(stats.Quizzes)))

	sort.SliceStable(stats.Quizzes, func(i, j int) bool {
		return stats.Quizzes[i].Score > stats.Quizzes[j].Score
	})
	if len(stats.Quizzes) > TopQuizScores {
		stats.Quizzes = stats.Quizzes[:TopQuizScores]
	}

	return stats
}

// ReactToPost toggles the user's reaction on a post: reacting twice with the
// same kind removes it, a different kind replaces it. The per user reaction
// lives in the flat field "user_reactions.<user>" and counters in "<kind>s".
func (l *Learning) ReactToPost(postID value.Value, userID, reaction string) (bool, error) {

	posts := l.db.Collection(CommunityPosts)
	byID := query.Compile(value.Record{collection.IDField: postID})

	post, found := posts.FindOne(byID)
	if !found {
		return false, nil
	}

	reactionField := "user_reactions." + userID
	current, _ := post[reactionField].AsString()

	if current == reaction {
		_, err := posts.UpdateOne(byID, update.Compile(value.Record{
			"$inc":   value.Map(value.Record{reaction + "s": value.Int(-1)}),
			"$unset": value.Map(value.Record{reactionField: value.String("")}),
		}))
		return err == nil, err
	}

	if current != "" {
		_, err := posts.UpdateOne(byID, update.Compile(value.Record{
			"$inc": value.Map(value.Record{current + "s": value.Int(-1)}),
		}))
		if err != nil {
			return false, err
		}
	}

	_, err := posts.UpdateOne(byID, update.Compile(value.Record{
		"$inc": value.Map(value.Record{reaction + "s": value.Int(1)}),
		"$set": value.Map(value.Record{reactionField: value.String(reaction)}),
	}))
	return err == nil, err
}
