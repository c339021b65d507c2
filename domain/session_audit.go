package domain

import "time"

// SessionAudit is one row per successful login, kept for compliance beyond
// the life of the transport session. UserName and LoginDate are immutable
// once written; LogoutDate is set when the session ends.
type SessionAudit struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	UserName   string     `bson:"user_name" json:"userName"`
	LoginDate  time.Time  `bson:"login_date" json:"loginDate"`
	LogoutDate *time.Time `bson:"logout_date,omitempty" json:"logoutDate,omitempty"`
}
