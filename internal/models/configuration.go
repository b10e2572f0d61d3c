package models

import (
	"strings"
	"time"
)

// ConfigurationType defines supported types for configuration values.
type ConfigurationType string

const (
	ConfigurationTypeString  ConfigurationType = "STRING"
	ConfigurationTypeBoolean ConfigurationType = "BOOLEAN"
)

// System setting keys.
const (
	SettingHODApprovalRequired = "hod_approval_required"
	SettingAllowResultEdit     = "allow_result_edit"
	SettingCurrentSession      = "current_session"
	SettingCurrentSemester     = "current_semester"
	SettingUniversityName      = "university_name"
)

// Configuration represents a persisted system setting.
type Configuration struct {
	Key         string            `db:"key" json:"key"`
	Value       string            `db:"value" json:"value"`
	Type        ConfigurationType `db:"type" json:"type"`
	Description *string           `db:"description" json:"description,omitempty"`
	UpdatedBy   *string           `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// Bool interprets the value of a BOOLEAN setting.
func (c Configuration) Bool() bool {
	return strings.EqualFold(strings.TrimSpace(c.Value), "true")
}
