package learning

import (
	"fmt"
	"time"

	"github.com/fulldump/fallbackdb/database"
	"github.com/fulldump/fallbackdb/value"
)

const (
	Users            = "users"
	Courses          = "courses"
	Assessments      = "assessments"
	AssessmentResult = "assessment_results"
	Progress         = "progress"
	CommunityPosts   = "community_posts"
	Questions        = "qa_questions"
	Materials        = "user_materials"

	DemoUserID = "demo_student_id"
)

// Seed returns a loader that fills the demo content. Collections that already
// exist are left untouched, so it is safe to run after a snapshot import.
func Seed(now func() time.Time) database.Loader {
	if now == nil {
		now = time.Now
	}
	return func(db *database.Database) error {
		return seed(db, now())
	}
}

func seed(db *database.Database, t time.Time) error {

	existing := map[string]bool{}
	for _, name := range db.ListCollectionNames() {
		existing[name] = true
	}

	sets := []struct {
		name    string
		records []value.Record
	}{
		{Users, demoUsers(t)},
		{Courses, demoCourses(t)},
		{Assessments, demoAssessments(t)},
		{Progress, demoProgress(t)},
		{CommunityPosts, demoPosts(t)},
		{Questions, demoQuestions(t)},
	}

	for _, set := range sets {
		if existing[set.name] {
			db.Logger().Debug("Seed skipped", "collection", set.name)
			continue
		}
		_, err := db.Collection(set.name).InsertMany(set.records)
		if err != nil {
			return fmt.Errorf("seed '%s': %w", set.name, err)
		}
		db.Logger().Info("Seeded", "collection", set.name, "total", len(set.records))
	}

	return nil
}

func records(items ...map[string]interface{}) []value.Record {
	result := make([]value.Record, len(items))
	for i, item := range items {
		result[i] = value.RecordFromMap(item)
	}
	return result
}

type JSON = map[string]interface{}

func demoUsers(t time.Time) []value.Record {
	return records(JSON{
		"_id":        DemoUserID,
		"username":   "Demo Student",
		"email":      "demo@example.com",
		"role":       "student",
		"created_at": t,
		"preferences": JSON{
			"learning_style":   "visual",
			"difficulty_level": "intermediate",
			"interests":        []interface{}{"programming", "data science", "mathematics"},
		},
	})
}

func material(id, title, url string) JSON {
	return JSON{"id": id, "title": title, "type": "url", "url": url}
}

func demoCourses(t time.Time) []value.Record {
	return records(
		JSON{
			"_id":         "course_python_basics",
			"title":       "Python Programming Basics",
			"description": "An introduction to Python programming language fundamentals with practical examples and exercises.",
			"category":    "Computer Science",
			"difficulty":  "beginner",
			"topics":      []interface{}{"variables", "data types", "control flow", "functions"},
			"materials": []interface{}{
				material("python_w3schools", "Python Tutorial - W3Schools", "https://www.w3schools.com/python/"),
				material("python_docs", "Python Official Documentation", "https://docs.python.org/3/tutorial/"),
			},
			"created_at": t,
		},
		JSON{
			"_id":         "course_data_science_intro",
			"title":       "Introduction to Data Science",
			"description": "Learn the fundamentals of data science with Python, including data analysis, visualization, and basic machine learning.",
			"category":    "Data Science",
			"difficulty":  "intermediate",
			"topics":      []interface{}{"data analysis", "visualization", "statistics", "machine learning basics"},
			"materials": []interface{}{
				material("data_science_coursera", "Data Science Specialization - Coursera", "https://www.coursera.org/specializations/jhu-data-science"),
				material("pandas_docs", "Pandas Documentation", "https://pandas.pydata.org/docs/"),
			},
			"created_at": t,
		},
		JSON{
			"_id":         "course_web_dev",
			"title":       "Web Development Fundamentals",
			"description": "Master the basics of web development including HTML, CSS, and JavaScript.",
			"category":    "Computer Science",
			"difficulty":  "beginner",
			"topics":      []interface{}{"HTML", "CSS", "JavaScript", "Web Design"},
			"materials": []interface{}{
				material("mdn_web", "MDN Web Docs", "https://developer.mozilla.org/en-US/docs/Learn"),
				material("freecodecamp", "FreeCodeCamp Web Development", "https://www.freecodecamp.org/learn/responsive-web-design/"),
			},
			"created_at": t,
		},
		JSON{
			"_id":         "course_machine_learning",
			"title":       "Machine Learning Fundamentals",
			"description": "Learn the core concepts of machine learning and implement them using Python.",
			"category":    "Data Science",
			"difficulty":  "advanced",
			"topics":      []interface{}{"supervised learning", "unsupervised learning", "neural networks", "deep learning"},
			"materials": []interface{}{
				material("ml_coursera", "Machine Learning by Andrew Ng", "https://www.coursera.org/learn/machine-learning"),
				material("scikit_learn", "Scikit-learn Documentation", "https://scikit-learn.org/stable/"),
			},
			"created_at": t,
		},
	)
}

func choice(id, text string, options []interface{}, correct string) JSON {
	return JSON{
		"question_id":    id,
		"text":           text,
		"type":           "multiple_choice",
		"options":        options,
		"correct_answer": correct,
	}
}

func demoAssessments(t time.Time) []value.Record {
	return records(
		JSON{
			"_id":         "assessment_python_basics",
			"title":       "Python Basics Quiz",
			"course_id":   "course_python_basics",
			"description": "Test your knowledge of Python fundamentals",
			"questions": []interface{}{
				choice("q1", "What is the correct way to create a variable in Python?",
					[]interface{}{"var x = 5", "x = 5", "x := 5", "set x = 5"}, "x = 5"),
				choice("q2", "What is the output of: print(2 + 2 * 2)",
					[]interface{}{"6", "8", "4", "Error"}, "6"),
				JSON{
					"question_id":   "q3",
					"text":          "Explain how functions help with code reusability in Python.",
					"type":          "open_ended",
					"sample_answer": "Functions allow code to be defined once and executed multiple times, promoting reusability and reducing redundancy. They can accept parameters and return values, making them versatile for different contexts.",
				},
			},
			"created_at": t,
		},
		JSON{
			"_id":         "assessment_data_science",
			"title":       "Data Science Concepts",
			"course_id":   "course_data_science_intro",
			"description": "Evaluate your understanding of data science principles",
			"questions": []interface{}{
				choice("q1", "Which Python library is most commonly used for data manipulation?",
					[]interface{}{"NumPy", "Pandas", "Matplotlib", "Scikit-learn"}, "Pandas"),
				choice("q2", "What does EDA stand for in data science?",
					[]interface{}{"External Data Analysis", "Exploratory Data Analysis", "Extended Data Architecture", "Efficient Data Algorithms"}, "Exploratory Data Analysis"),
			},
			"created_at": t,
		},
	)
}

func demoProgress(t time.Time) []value.Record {
	return records(
		JSON{
			"user_id":             DemoUserID,
			"course_id":           "course_python_basics",
			"completed_topics":    []interface{}{"variables", "data types"},
			"progress_percentage": 50,
			"quiz_scores": []interface{}{
				JSON{"quiz_id": "quiz_variables", "score": 85},
				JSON{"quiz_id": "quiz_data_types", "score": 90},
			},
			"last_updated": t,
		},
		JSON{
			"user_id":             DemoUserID,
			"course_id":           "course_data_science_intro",
			"completed_topics":    []interface{}{"data analysis"},
			"progress_percentage": 25,
			"quiz_scores": []interface{}{
				JSON{"quiz_id": "quiz_data_analysis", "score": 75},
			},
			"last_updated": t,
		},
	)
}

func demoPosts(t time.Time) []value.Record {
	return records(
		JSON{
			"user_id":    "system",
			"username":   "System",
			"title":      "Welcome to the EduTutor AI Community!",
			"content":    "This is a space for students to connect, collaborate, and learn together. Feel free to share your questions, insights, and resources with others!",
			"topic":      "General",
			"likes":      5,
			"comments":   []interface{}{},
			"created_at": t,
		},
		JSON{
			"user_id":  DemoUserID,
			"username": "Demo Student",
			"title":    "Looking for study partners in Data Science",
			"content":  "I'm currently taking the Introduction to Data Science course and would love to connect with others who are learning similar topics. Anyone interested in forming a study group?",
			"topic":    "Data Science",
			"likes":    2,
			"comments": []interface{}{
				JSON{
					"user_id":    "system",
					"username":   "System",
					"content":    "Great idea! You can also check out the resources section for additional study materials.",
					"created_at": t,
				},
			},
			"created_at": t,
		},
	)
}

func demoQuestions(t time.Time) []value.Record {
	return records(
		JSON{
			"user_id":    DemoUserID,
			"username":   "Demo Student",
			"title":      "How do list comprehensions work in Python?",
			"content":    "I'm confused about the syntax of list comprehensions. Can someone explain with examples?",
			"topic":      "Python",
			"answered":   true,
			"ai_answer":  "List comprehensions provide a concise way to create lists based on existing lists. The basic syntax is: [expression for item in iterable if condition]. For example, to create a list of squares: squares = [x**2 for x in range(10)]. This is equivalent to using a for loop but more concise and often faster.",
			"likes":      3,
			"created_at": t,
		},
		JSON{
			"user_id":    DemoUserID,
			"username":   "Demo Student",
			"title":      "What's the difference between mean, median, and mode?",
			"content":    "I'm studying statistics and getting confused about when to use each of these measures of central tendency.",
			"topic":      "Statistics",
			"answered":   true,
			"ai_answer":  "Mean is the average of all values (sum divided by count). Median is the middle value when data is sorted. Mode is the most frequently occurring value. Mean is sensitive to outliers, while median is more robust. Use mean for normally distributed data, median for skewed data, and mode for categorical data or when you need the most common value.",
			"likes":      2,
			"created_at": t,
		},
	)
}
