package settings

import "golang.org/x/text/language"

// RegionFromAcceptLanguage returns the region of the most preferred language
// tag, or fallback when the header names no explicit region.
func RegionFromAcceptLanguage(header, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	region, confidence := tags[0].Region()
	if confidence != language.Exact {
		return fallback
	}
	return region.String()
}
