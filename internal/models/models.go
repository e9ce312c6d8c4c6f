package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	AboutMe      string    `json:"aboutMe" db:"about_me"`
	LastSeen     time.Time `json:"lastSeen" db:"last_seen"`
}

type Post struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// author fields joined for rendering, not columns of posts
	AuthorUsername string `json:"authorUsername" db:"author_username"`
	AuthorEmail    string `json:"-" db:"author_email"`

	Images []Image `json:"images" db:"-"`
}

// Follow is the directed edge follower -> followed of the follow graph
type Follow struct {
	FollowerID int64 `json:"followerId" db:"follower_id"`
	FollowedID int64 `json:"followedId" db:"followed_id"`
}

type Image struct {
	ID        int64     `json:"imageId" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
