package domain

// User holds the identity and profile metadata of an Instagram account.
// ID and Username are always present; every other field may be absent in the
// remote payload and stays nil in that case.
type User struct {
	ID             string
	Username       string
	FullName       *string
	Biography      *string
	ProfilePicURL  *string
	IsPrivate      bool
	FollowerCount  *int
	FollowingCount *int
	PostCount      *int
}
