package domain

// User is the account record owned by the authentication layer.
type User struct {
	ID       int64
	Username string
	Profile  *Profile
}

// Profile holds presentation attributes of a user.
type Profile struct {
	Avatar string
}

// AvatarRef returns the stored avatar reference, or "" when the user has no
// profile or no avatar.
func (u User) AvatarRef() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Avatar
}
