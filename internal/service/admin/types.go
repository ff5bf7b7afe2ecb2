package admin

type UserStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Banned int `json:"banned"`
}

type SkillStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

type RequestStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

type PlatformStats struct {
	Users    UserStats    `json:"users"`
	Skills   SkillStats   `json:"skills"`
	Requests RequestStats `json:"swap_requests"`
}
