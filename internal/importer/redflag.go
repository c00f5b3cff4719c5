package importer

import "strings"

// ContainsRedFlag reports whether any non-empty term occurs, ignoring case,
// in the offer's title, company or description.
func ContainsRedFlag(o Offer, terms []string) bool {
	var text string
	for _, term := range terms {
		if term == "" {
			continue
		}
		if text == "" {
			text = strings.ToLower(strings.Join([]string{o.Title, o.Company, o.Description}, "\n"))
		}
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
