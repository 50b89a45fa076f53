package entities

import "time"

// BlogStatus represents blog publication state
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// Valid reports whether s is a known blog status
func (s BlogStatus) Valid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// Blog represents a content post written by a user
type Blog struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Content     string     `json:"content" db:"content"`
	Excerpt     *string    `json:"excerpt" db:"excerpt"`
	Category    *string    `json:"category" db:"category"`
	FullContent *string    `json:"fullContent" db:"full_content"`
	PublishDate *time.Time `json:"date" db:"publish_date"`
	Image       *string    `json:"image" db:"image"`
	AuthorID    int64      `json:"author_id" db:"author_id"`
	Status      BlogStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	AuthorName  *string    `json:"author_name" db:"author_name"`
}

// SampleBlog returns the fixed demonstration post.
func SampleBlog(authorID int64, now time.Time) *Blog {
	excerpt := "A short excerpt for a sample post."
	category := "Health"
	full := "This is the full content of the sample blog post, with more details and rich HTML."
	image := "linear-gradient(135deg, #667eea, #764ba2)"
	day := now.UTC().Truncate(24 * time.Hour)
	return &Blog{
		Title:       "Sample Blog Post",
		Content:     "This is a sample blog post.",
		Excerpt:     &excerpt,
		Category:    &category,
		FullContent: &full,
		PublishDate: &day,
		Image:       &image,
		AuthorID:    authorID,
		Status:      BlogStatusPublished,
	}
}

// BlogSearchHit is a single blog search result
type BlogSearchHit struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Excerpt  string  `json:"excerpt"`
	Category string  `json:"category"`
	Image    string  `json:"image,omitempty"`
	Score    float64 `json:"score"`
}
