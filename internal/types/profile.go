package types

// ProfileFields carries a partial profile update. Nil fields are left untouched.
type ProfileFields struct {
	FirstName   *string `json:"first_name,omitempty" form:"first_name"`
	LastName    *string `json:"last_name,omitempty" form:"last_name"`
	JobTitle    *string `json:"job_title,omitempty" form:"job_title"`
	PhoneNumber *string `json:"phone_number,omitempty" form:"phone_number"`
	Age         *string `json:"age,omitempty" form:"age"`
	Address     *string `json:"address,omitempty" form:"address"`
	Description *string `json:"description,omitempty" form:"description"`
	Pseudonym   *string `json:"pseudonym,omitempty" form:"pseudonym"`
	Links       *string `json:"links,omitempty" form:"links"`
}

// Columns returns the supplied fields keyed by column name
func (f *ProfileFields) Columns() map[string]any {
	set := make(map[string]any)
	add := func(column string, v *string) {
		if v != nil {
			set[column] = *v
		}
	}
	add("first_name", f.FirstName)
	add("last_name", f.LastName)
	add("job_title", f.JobTitle)
	add("phone_number", f.PhoneNumber)
	add("age", f.Age)
	add("address", f.Address)
	add("description", f.Description)
	add("pseudonym", f.Pseudonym)
	add("links", f.Links)
	return set
}

// ProfileStatus reports which parts of a profile are still missing
type ProfileStatus struct {
	ProfileComplete bool     `json:"profile_complete"`
	MissingData     []string `json:"missing_data"`
}
