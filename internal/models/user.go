package models

// User is the account-creation input. Not persisted locally; the directory is
// the only authoritative record of provisioned accounts.
type User struct {
	DisplayName string `json:"displayName"`
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}
