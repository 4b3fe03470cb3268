package models

// User is a dashboard account. Password is never sent to clients.
type User struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// PublicUser is the client-safe view of User.
type PublicUser struct {
	User string `json:"user"`
}

func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, PublicUser{User: u.User})
	}
	return out
}
