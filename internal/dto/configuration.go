package dto

// ConfigurationItem represents a system setting exposed via API.
type ConfigurationItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UpdateConfigurationRequest is the payload of PUT /settings/:key.
type UpdateConfigurationRequest struct {
	Value string `json:"value"`
}
