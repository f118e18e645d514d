package models

import "time"

// Post is a single study-journal entry. AuthorUsername and the counts
// are populated by the read queries, not stored on the posts table.
type Post struct {
	ID             string    `db:"id" json:"id"`
	AuthorID       string    `db:"author_id" json:"author_id"`
	AuthorUsername string    `db:"author_username" json:"author_username"`
	Body           string    `db:"body" json:"body"`
	LikeCount      int       `db:"like_count" json:"like_count"`
	CommentCount   int       `db:"comment_count" json:"comment_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type Comment struct {
	ID             string    `db:"id" json:"id"`
	PostID         string    `db:"post_id" json:"post_id"`
	AuthorID       string    `db:"author_id" json:"author_id"`
	AuthorUsername string    `db:"author_username" json:"author_username"`
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
