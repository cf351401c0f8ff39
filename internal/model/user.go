package model

// User is a ticket buyer.  Accounts are provisioned data; the API only
// authenticates them, it does not create or edit them.
type User struct {
	ID        int64  // users.id
	LoginName string // users.login_name
	PassHash  string // users.pass_hash (bcrypt)
	Nickname  string // users.nickname
}

// Administrator operates the admin API: event lifecycle and sales reports.
type Administrator struct {
	ID        int64  // administrators.id
	LoginName string // administrators.login_name
	PassHash  string // administrators.pass_hash (bcrypt)
	Nickname  string // administrators.nickname
}
