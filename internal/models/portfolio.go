package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Field names one of the portfolio's sequence fields
type Field string

const (
	FieldSkills         Field = "skills"
	FieldWorkExperience Field = "work_experience"
	FieldEducation      Field = "education"
	FieldLinks          Field = "links"
)

// Fields lists every portfolio sequence field in display order
var Fields = []Field{FieldSkills, FieldWorkExperience, FieldEducation, FieldLinks}

// ParseField validates a field name taken from a request
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Portfolio holds the per-user sequence documents. It is keyed by the owning
// user's email; uniqueness per email is a convention, not a constraint.
type Portfolio struct {
	ID             string         `gorm:"type:varchar(36);primarykey" json:"_id"`
	Email          string         `gorm:"index;not null" json:"email"`
	Skills         datatypes.JSON `json:"skills"`
	WorkExperience datatypes.JSON `json:"work_experience"`
	Education      datatypes.JSON `json:"education"`
	Links          datatypes.JSON `json:"links"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"-"`
}

// Link is one entry of the links sequence
type Link struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// EmptySequence is the stored form of an empty field
func EmptySequence() datatypes.JSON {
	return datatypes.JSON("[]")
}

// NewPortfolio returns the empty portfolio created at registration
func NewPortfolio(email string) *Portfolio {
	return &Portfolio{
		Email:          email,
		Skills:         EmptySequence(),
		WorkExperience: EmptySequence(),
		Education:      EmptySequence(),
		Links:          EmptySequence(),
	}
}

// BeforeCreate assigns a UUID and fills absent sequences
func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for _, f := range Fields {
		p.Set(f, p.Get(f))
	}
	return nil
}

// Get returns the raw JSON of a field, or an empty sequence when unset
func (p *Portfolio) Get(f Field) datatypes.JSON {
	var v datatypes.JSON
	switch f {
	case FieldSkills:
		v = p.Skills
	case FieldWorkExperience:
		v = p.WorkExperience
	case FieldEducation:
		v = p.Education
	case FieldLinks:
		v = p.Links
	}
	if len(v) == 0 || string(v) == "null" {
		return EmptySequence()
	}
	return v
}

// Set replaces a field in memory
func (p *Portfolio) Set(f Field, v datatypes.JSON) {
	switch f {
	case FieldSkills:
		p.Skills = v
	case FieldWorkExperience:
		p.WorkExperience = v
	case FieldEducation:
		p.Education = v
	case FieldLinks:
		p.Links = v
	}
}
