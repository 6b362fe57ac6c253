package types

// CredentialsRequest is the body of /auth/register and /login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterProfileRequest is the multipart form of /register. Every field is required.
type RegisterProfileRequest struct {
	Email       string `form:"email"`
	Password    string `form:"password"`
	FirstName   string `form:"first_name"`
	LastName    string `form:"last_name"`
	JobTitle    string `form:"job_title"`
	PhoneNumber string `form:"phone_number"`
	Age         string `form:"age"`
	Address     string `form:"address"`
	Description string `form:"description"`
	Links       string `form:"links"`
	Pseudonym   string `form:"pseudonym"`
}

// Missing reports whether any required field is empty
func (r *RegisterProfileRequest) Missing() bool {
	for _, v := range []string{
		r.Email, r.Password, r.FirstName, r.LastName, r.JobTitle, r.PhoneNumber,
		r.Age, r.Address, r.Description, r.Links, r.Pseudonym,
	} {
		if v == "" {
			return true
		}
	}
	return false
}

// CreateProfileRequest is the multipart form of /create-profile
type CreateProfileRequest struct {
	Email string `form:"email"`
	ProfileFields
}

// LinkRequest adds or removes a portfolio link
type LinkRequest struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// ItemRequest addresses one element of a portfolio field by value. New is
// only read by replace.
type ItemRequest struct {
	Value any `json:"value"`
	New   any `json:"new_value"`
}
