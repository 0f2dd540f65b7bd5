package model

// GeoResult is what the geolocation service reports about the caller's connection.
type GeoResult struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country"`
}
