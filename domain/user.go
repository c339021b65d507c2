package domain

import "time"

// User represents a hospital staff account.
type User struct {
	UserName    string    `bson:"user_name" json:"userName"`
	GroupName   string    `bson:"user_group_name" json:"userGroupName"`
	Passwd      string    `bson:"passwd" json:"-"` // bcrypt hash, never serialized out
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Deleted     bool      `bson:"deleted,omitempty" json:"deleted,omitempty"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"-"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"-"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"-"`
}
