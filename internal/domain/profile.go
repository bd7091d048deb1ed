package domain

// Profile is the result of a profile fetch. Posts is always empty when the
// account is private.
type Profile struct {
	User  User
	Posts []Post
}
