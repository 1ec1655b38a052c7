package content

import "time"

// Opportunity categories.
const (
	CategoryAll         = "All"
	CategoryDiscount    = "discount"
	CategoryScholarship = "scholarship"
	CategoryOpportunity = "opportunity"
)

type Opportunity struct {
	ID          int
	Title       string
	Description string
	Category    string
	Eligibility string
	Link        string
	Deadline    time.Time
}

var opportunities = []Opportunity{
	{
		ID:          1,
		Title:       "Spotify Student Discount",
		Description: "Get Spotify Premium, Hulu, and SHOWTIME for just $5.99/month with a valid student email.",
		Category:    CategoryDiscount,
		Eligibility: "Must be enrolled at a US Title IV accredited college or university",
		Link:        "https://www.spotify.com/student",
		Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          2,
		Title:       "Gates Millennium Scholars Program",
		Description: "Full scholarship covering tuition, fees, books, and living expenses for outstanding minority students.",
		Category:    CategoryScholarship,
		Eligibility: "Must be African American, American Indian/Alaska Native, Asian Pacific Islander American, or Hispanic American",
		Link:        "https://gmsp.org",
		Deadline:    time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          3,
		Title:       "Amazon Prime Student",
		Description: "6-month free trial of Prime, then 50% off the regular price. Includes free shipping, streaming, and more.",
		Category:    CategoryDiscount,
		Eligibility: "Valid .edu email address required",
		Link:        "https://www.amazon.com/primestudent",
		Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          4,
		Title:       "Google Summer Internship",
		Description: "Paid internship opportunity at Google. Great for CS and related majors.",
		Category:    CategoryOpportunity,
		Eligibility: "Currently enrolled in a degree program in Computer Science or related field",
		Link:        "https://careers.google.com/students",
		Deadline:    time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          5,
		Title:       "Dell Student Discount",
		Description: "Save up to 10% on laptops and accessories with student verification.",
		Category:    CategoryDiscount,
		Eligibility: "Valid student ID or .edu email",
		Link:        "https://www.dell.com/advantage-students",
		Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          6,
		Title:       "Fulbright U.S. Student Program",
		Description: "Grants for graduate study, research, or teaching assistantship abroad.",
		Category:    CategoryScholarship,
		Eligibility: "U.S. citizens, recent graduates or enrolled students",
		Link:        "https://us.fulbrightonline.org",
		Deadline:    time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC),
	},
}

// Opportunities returns the full directory.
func Opportunities() []Opportunity {
	return append([]Opportunity(nil), opportunities...)
}

// FilterByCategory returns the opportunities in the given category.
// CategoryAll (or empty) passes everything through.
func FilterByCategory(category string) []Opportunity {
	if category == "" || category == CategoryAll {
		return Opportunities()
	}
	var out []Opportunity
	for _, o := range opportunities {
		if o.Category == category {
			out = append(out, o)
		}
	}
	return out
}

// OpportunityCategories returns the filter categories in display order,
// starting with All.
func OpportunityCategories() []string {
	out := []string{CategoryAll}
	seen := map[string]struct{}{}
	for _, o := range opportunities {
		if _, ok := seen[o.Category]; ok {
			continue
		}
		seen[o.Category] = struct{}{}
		out = append(out, o.Category)
	}
	return out
}
