package model

import "time"

// Comment belongs to exactly one post, referenced by id. Comments have no
// update or delete operation of their own. They only go away when their
// post is deleted.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Post      string    `json:"post"`
	CreatedAt time.Time `json:"createdAt"`
}
