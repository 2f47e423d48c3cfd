package models

// Secret is a user-owned credential entry for some external account.
// Payload always holds ciphertext at rest; it is decrypted only transiently
// for an authorized read.
type Secret struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Location string `json:"location"`
	Username string `json:"username"`
	Payload  string `json:"password"`
	IconName string `json:"icon_name,omitempty"`
}
