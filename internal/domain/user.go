package domain

// User is an account that can open shifts and comment on reports.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Timezone     string
	JobTitle     string
	Admin        bool
}
