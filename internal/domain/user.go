package domain

// User is an authenticated staff account. The audit writer resolves actor
// display names from it.
type User struct {
	ID          string `bson:"_id" json:"id"`
	DisplayName string `bson:"displayName" json:"displayName"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	Role        string `bson:"role,omitempty" json:"role,omitempty"`
}
