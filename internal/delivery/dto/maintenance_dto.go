package dto

type SeedResult struct {
	HousesCreated int  `json:"houses_created"`
	RulesCreated  int  `json:"rules_created"`
	AdminCreated  bool `json:"admin_created"`
}

type ResetResult struct {
	Scores       int64 `json:"scores"`
	Transactions int64 `json:"transactions"`
	Appointments int64 `json:"appointments"`
	Athletes     int64 `json:"athletes"`
	Patients     int64 `json:"patients"`
}
