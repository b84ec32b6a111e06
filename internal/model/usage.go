package model

// UsageEntry counts how many order placements referenced an app data hash.
type UsageEntry struct {
	AppData string `json:"app_data"`
	Count   int    `json:"count"`
}
