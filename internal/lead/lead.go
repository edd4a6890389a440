// Package lead owns the lead collection: the Lead record, its status
// lifecycle, validation and the in-memory store all mutations go through.
package lead

import (
	"strings"
)

// Status is the sales-pipeline state of a lead.
type Status string

// Lead statuses.
const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusClosed    Status = "Closed"
)

// Statuses returns every valid status in pipeline order.
func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusQualified, StatusClosed}
}

// Valid reports whether s is one of the four pipeline states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusClosed:
		return true
	}
	return false
}

// Category is the business category of a lead.
type Category string

// Lead categories offered by the manual entry form.
const (
	CategoryRestaurant           Category = "Restaurant"
	CategoryRetail               Category = "Retail"
	CategoryTechnology           Category = "Technology"
	CategoryHealthcare           Category = "Healthcare"
	CategoryProfessionalServices Category = "Professional Services"
	CategoryConstruction         Category = "Construction"
	CategoryRealEstate           Category = "Real Estate"
	CategoryEducation            Category = "Education"
	CategoryAutomotive           Category = "Automotive"
	CategoryBeautyWellness       Category = "Beauty & Wellness"
	CategoryEntertainment        Category = "Entertainment"
	CategoryOther                Category = "Other"
)

var categories = []Category{
	CategoryRestaurant, CategoryRetail, CategoryTechnology, CategoryHealthcare,
	CategoryProfessionalServices, CategoryConstruction, CategoryRealEstate,
	CategoryEducation, CategoryAutomotive, CategoryBeautyWellness,
	CategoryEntertainment, CategoryOther,
}

// Categories returns the enumerated category set, Other last.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is in the enumerated set.
func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// placeTypeCategories maps provider place-type labels (with underscores
// already replaced by spaces) onto lead categories.
var placeTypeCategories = map[string]Category{
	"restaurant":         CategoryRestaurant,
	"cafe":               CategoryRestaurant,
	"bakery":             CategoryRestaurant,
	"bar":                CategoryRestaurant,
	"meal takeaway":      CategoryRestaurant,
	"meal delivery":      CategoryRestaurant,
	"food":               CategoryRestaurant,
	"store":              CategoryRetail,
	"clothing store":     CategoryRetail,
	"supermarket":        CategoryRetail,
	"shoe store":         CategoryRetail,
	"furniture store":    CategoryRetail,
	"hardware store":     CategoryRetail,
	"electronics store":  CategoryRetail,
	"book store":         CategoryRetail,
	"convenience store":  CategoryRetail,
	"gas station":        CategoryAutomotive,
	"car repair":         CategoryAutomotive,
	"car dealer":         CategoryAutomotive,
	"car wash":           CategoryAutomotive,
	"doctor":             CategoryHealthcare,
	"dentist":            CategoryHealthcare,
	"hospital":           CategoryHealthcare,
	"pharmacy":           CategoryHealthcare,
	"physiotherapist":    CategoryHealthcare,
	"health":             CategoryHealthcare,
	"beauty salon":       CategoryBeautyWellness,
	"hair care":          CategoryBeautyWellness,
	"spa":                CategoryBeautyWellness,
	"gym":                CategoryBeautyWellness,
	"accounting":         CategoryProfessionalServices,
	"lawyer":             CategoryProfessionalServices,
	"insurance agency":   CategoryProfessionalServices,
	"bank":               CategoryProfessionalServices,
	"finance":            CategoryProfessionalServices,
	"general contractor": CategoryConstruction,
	"electrician":        CategoryConstruction,
	"plumber":            CategoryConstruction,
	"roofing contractor": CategoryConstruction,
	"real estate agency": CategoryRealEstate,
	"school":             CategoryEducation,
	"university":         CategoryEducation,
	"library":            CategoryEducation,
	"movie theater":      CategoryEntertainment,
	"night club":         CategoryEntertainment,
	"bowling alley":      CategoryEntertainment,
	"amusement park":     CategoryEntertainment,
	"electronics":        CategoryTechnology,
	"software company":   CategoryTechnology,
}

// CategoryFor maps a free-text label (a category name or a provider place
// type) onto the enumerated set. Unknown labels map to CategoryOther.
func CategoryFor(label string) Category {
	norm := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(label, "_", " ")), " "))
	if norm == "" {
		return CategoryOther
	}
	for _, c := range categories {
		if strings.ToLower(string(c)) == norm {
			return c
		}
	}
	if c, ok := placeTypeCategories[norm]; ok {
		return c
	}
	return CategoryOther
}

// DateLayout is the calendar-date layout of Lead.LastContact.
const DateLayout = "2006-01-02"

// Lead is a business tracked through the sales pipeline.
type Lead struct {
	ID            int64    `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name" validate:"required"`
	Category      Category `json:"category" yaml:"category" validate:"required,lead_category"`
	Address       string   `json:"address" yaml:"address" validate:"required"`
	Phone         string   `json:"phone" yaml:"phone"`
	Email         string   `json:"email" yaml:"email" validate:"omitempty,lead_email"`
	Status        Status   `json:"status" yaml:"status" validate:"required,lead_status"`
	Rating        float64  `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	LastContact   string   `json:"last_contact" yaml:"last_contact" validate:"required,datetime=2006-01-02"`
	Notes         string   `json:"notes" yaml:"notes"`
	Website       *string  `json:"website,omitempty" yaml:"website,omitempty"`
	ContactPerson *string  `json:"contact_person,omitempty" yaml:"contact_person,omitempty"`
}

// clone returns a deep copy so callers never share optional-field pointers
// with the store.
func (l Lead) clone() Lead {
	out := l
	if l.Website != nil {
		w := *l.Website
		out.Website = &w
	}
	if l.ContactPerson != nil {
		p := *l.ContactPerson
		out.ContactPerson = &p
	}
	return out
}

// normalize trims free-text fields in place.
func (l *Lead) normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Category = Category(strings.TrimSpace(string(l.Category)))
	l.Address = strings.TrimSpace(l.Address)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Email = strings.TrimSpace(l.Email)
	l.Status = Status(strings.TrimSpace(string(l.Status)))
	l.LastContact = strings.TrimSpace(l.LastContact)
	l.Website = trimOptional(l.Website)
	l.ContactPerson = trimOptional(l.ContactPerson)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	return trimOptional(&s)
}
