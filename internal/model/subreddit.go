package model

import "time"

// Subreddit is a named community holding an ordered list of post ids.
//
// Moderators and Posts are stored as ordered id lists, mirroring the
// document shape of the data: the subreddit record owns the ordering, and
// each id must be resolved with a separate lookup. The creator becomes the
// sole moderator; post ids are appended as posts are created under the
// subreddit.
type Subreddit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Moderators  []string  `json:"moderators"`
	Posts       []string  `json:"posts"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
