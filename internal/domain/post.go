package domain

import "time"

// Post is one unit of shared media. Single-image posts carry exactly one
// entry in ImageURLs, carousel posts more than one, in display order.
// A post is never constructed with zero images.
type Post struct {
	ID           string
	ImageURLs    []string
	Caption      *string
	LikeCount    *int
	CommentCount *int
	PostedAt     *time.Time
}

// IsCarousel reports whether the post holds more than one image.
func (p *Post) IsCarousel() bool {
	return len(p.ImageURLs) > 1
}
