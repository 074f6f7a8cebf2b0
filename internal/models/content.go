package models

import (
	"strings"
	"time"
)

// Skill is a barista skill shown on the public site.
type Skill struct {
	Base
	Name  string `json:"name" validate:"required"`
	Order int    `json:"order" validate:"gte=0"`
	// Icon names the symbol the front-end renders next to the skill.
	Icon string `json:"icon" validate:"required"`
}

// SkillPatch holds the client-supplied skill fields.
type SkillPatch struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
	Icon  *string `json:"icon"`
}

// Apply implements Patch.
func (p SkillPatch) Apply(s *Skill) {
	setString(&s.Name, p.Name)
	if p.Order != nil {
		s.Order = *p.Order
	}
	// An empty icon keeps the current value, so the default survives "".
	if p.Icon != nil && strings.TrimSpace(*p.Icon) != "" {
		s.Icon = strings.TrimSpace(*p.Icon)
	}
}

// Course is a training course offered or completed.
type Course struct {
	Base
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// CoursePatch holds the client-supplied course fields.
type CoursePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Apply implements Patch.
func (p CoursePatch) Apply(c *Course) {
	setString(&c.Name, p.Name)
	setString(&c.Description, p.Description)
}

// Career is one position on the career timeline.
type Career struct {
	Base
	Workplace string     `json:"workplace" validate:"required"`
	Position  string     `json:"position" validate:"required"`
	StartDate time.Time  `json:"startDate" validate:"required"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsCurrent bool       `json:"isCurrent"`
}

// Normalize clears the end date of a current position.
func (c *Career) Normalize() {
	if c.IsCurrent {
		c.EndDate = nil
	}
}

// CareerPatch holds the client-supplied career fields.
type CareerPatch struct {
	Workplace *string `json:"workplace"`
	Position  *string `json:"position"`
	StartDate *Date   `json:"startDate"`
	EndDate   *Date   `json:"endDate"`
	IsCurrent *bool   `json:"isCurrent"`
}

// Apply implements Patch.
func (p CareerPatch) Apply(c *Career) {
	setString(&c.Workplace, p.Workplace)
	setString(&c.Position, p.Position)
	if p.StartDate != nil {
		c.StartDate = p.StartDate.Time
	}
	if p.EndDate != nil {
		c.EndDate = p.EndDate.Ptr()
	}
	if p.IsCurrent != nil {
		c.IsCurrent = *p.IsCurrent
	}
}

// Embed types a video can be rendered with.
const (
	EmbedTypeEmbed = "embed"
	EmbedTypeLink  = "link"
)

// Video is an embedded or linked video.
type Video struct {
	Base
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	EmbedType   string `json:"embedType" validate:"oneof=embed link"`
}

// VideoPatch holds the client-supplied video fields.
type VideoPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	EmbedType   *string `json:"embedType"`
}

// Apply implements Patch.
func (p VideoPatch) Apply(v *Video) {
	setString(&v.Title, p.Title)
	setString(&v.Description, p.Description)
	setString(&v.URL, p.URL)
	if p.EmbedType != nil && *p.EmbedType != "" {
		v.EmbedType = *p.EmbedType
	}
}

// Default values applied once when a document is created.
var (
	SkillDefaults  = Skill{Order: 0, Icon: "FaCoffee"}
	CourseDefaults = Course{}
	CareerDefaults = Career{IsCurrent: false}
	VideoDefaults  = Video{EmbedType: EmbedTypeEmbed}
)

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
