package model

import "time"

// Post is a titled piece of content written by one author.
//
// Author never changes after creation. Comments is the ordered list of
// comment ids attached to this post; it grows when comments are created and
// the whole list disappears with the post (comments cascade on delete).
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Comments  []string  `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
