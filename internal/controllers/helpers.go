package controllers

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	sanitizePattern = regexp.MustCompile(`[^\w\s-]`)
	htmlTagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// sanitizeInput strips everything but word characters, whitespace and
// hyphens before a value is forwarded to the search provider.
func sanitizeInput(input string) string {
	return sanitizePattern.ReplaceAllString(input, "")
}

// stripHTML removes the provider's markup from step instructions.
func stripHTML(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// validCoordinates reports whether lat/lng form a usable WGS 84 pair.
func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// parseLatLng splits a "lat,lng" query value.
func parseLatLng(s string) (lat, lng float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || !validCoordinates(lat, lng) {
		return 0, 0, false
	}
	return lat, lng, true
}
