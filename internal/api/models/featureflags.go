package models

// FeatureFlag is a flag as exposed by the admin API.
type FeatureFlag struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt Timestamp   `json:"updatedAt"`
}

// FeatureFlagList is the response of GET /v1/admin/feature-flags.
type FeatureFlagList struct {
	Items []FeatureFlag `json:"items"`
}

// FeatureFlagUpsertRequest is the body of PUT /v1/admin/feature-flags.
type FeatureFlagUpsertRequest struct {
	Flags map[string]interface{} `json:"flags"`
}
