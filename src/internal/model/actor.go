package model

// Actor is the authenticated caller taken from the bearer token.
type Actor struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == "admin" || a.Role == "super_admin"
}

// CanAccess reports whether the actor owns the resource or administers it.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.UserID == ownerID || a.IsAdmin()
}

type Paging struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}
