package jobs

import (
	"fmt"
	"strings"

	"github.com/amishk599/careerbot/internal/model"
)

// Format renders a listing as a markdown block. A missing link, or a link off
// linkedin.com on a listing the board did not vouch for, is replaced with a
// LinkedIn search for title and company. JSearch apply links are kept.
func Format(j model.JobListing) string {
	apply := j.URL
	if !keepApplyURL(j) {
		apply = linkedInSearchURL + "?keywords=" + strings.ReplaceAll(j.Title+" "+j.Company, " ", "+")
	}
	return fmt.Sprintf("**%s**\n**Company:** %s\n**Location:** %s\n**Description:** %s\n**Apply:** %s\n---",
		j.Title, j.Company, j.Location, j.Description, apply)
}

// FormatAll renders each listing with Format.
func FormatAll(listings []model.JobListing) []string {
	out := make([]string, 0, len(listings))
	for _, j := range listings {
		out = append(out, Format(j))
	}
	return out
}

func keepApplyURL(j model.JobListing) bool {
	if j.URL == "" || j.URL == "#" {
		return false
	}
	return j.Source == JSearchSourceName || strings.Contains(j.URL, "linkedin.com")
}
