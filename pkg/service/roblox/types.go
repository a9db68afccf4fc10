package roblox

// groupUsersResponse is one page of GET /v1/groups/{id}/users
type groupUsersResponse struct {
	Data           []groupUserEntry `json:"data"`
	NextPageCursor string           `json:"nextPageCursor"`
}

type groupUserEntry struct {
	User struct {
		UserID int64  `json:"userId"`
		Name   string `json:"name"`
	} `json:"user"`
	Role struct {
		Rank int    `json:"rank"`
		Name string `json:"name"`
	} `json:"role"`
}

// userResponse is GET /v1/users/{id}
type userResponse struct {
	Name string `json:"name"`
}

// legacyUserLookup is GET /users/get-by-username. The endpoint reports a
// missing user either as an error payload or as ID 0.
type legacyUserLookup struct {
	ID       int64  `json:"Id"`
	Username string `json:"Username"`
}
