package models

// Organisation is the top-level institution that owns departments.
type Organisation struct {
	OrganisationID int64  `json:"organisation_id"`
	Name           string `json:"name"`
}

// NewOrganisation is the payload for POST /organisation.
type NewOrganisation struct {
	Name string `json:"name"`
}

// Department is a unit within an organisation owning courses and teachers.
type Department struct {
	DepartmentID   int64  `json:"department_id"`
	Name           string `json:"name"`
	OrganisationID int64  `json:"organisation_id"`
}

// NewDepartment is the payload for POST /department.
type NewDepartment struct {
	Name           string `json:"name"`
	OrganisationID int64  `json:"organisation_id"`
}
