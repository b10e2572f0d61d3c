package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

type settingsRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
}

type settingsSessionReader interface {
	FindByName(ctx context.Context, name string) (*models.AcademicSession, error)
}

type settingDefinition struct {
	Key             string
	Type            models.ConfigurationType
	Description     string
	Default         string
	RequiresSession bool
	Semester        bool
}

var settingKeys = []string{
	models.SettingHODApprovalRequired,
	models.SettingAllowResultEdit,
	models.SettingCurrentSession,
	models.SettingCurrentSemester,
	models.SettingUniversityName,
}

var settingDefinitions = map[string]settingDefinition{
	models.SettingHODApprovalRequired: {
		Key:         models.SettingHODApprovalRequired,
		Type:        models.ConfigurationTypeBoolean,
		Description: "Results must be approved by the HOD before they can be published",
		Default:     "false",
	},
	models.SettingAllowResultEdit: {
		Key:         models.SettingAllowResultEdit,
		Type:        models.ConfigurationTypeBoolean,
		Description: "Lecturers may correct scores they already uploaded",
		Default:     "true",
	},
	models.SettingCurrentSession: {
		Key:             models.SettingCurrentSession,
		Type:            models.ConfigurationTypeString,
		Description:     "Academic session shown by default",
		RequiresSession: true,
	},
	models.SettingCurrentSemester: {
		Key:         models.SettingCurrentSemester,
		Type:        models.ConfigurationTypeString,
		Description: "Semester shown by default",
		Default:     string(models.SemesterFirst),
		Semester:    true,
	},
	models.SettingUniversityName: {
		Key:         models.SettingUniversityName,
		Type:        models.ConfigurationTypeString,
		Description: "Institution name printed on result listings",
	},
}

// SettingsService manages config-as-data system settings.
type SettingsService struct {
	repo     settingsRepository
	sessions settingsSessionReader
	audit    auditLogger
	logger   *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, sessions settingsSessionReader, audit auditLogger, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, sessions: sessions, audit: audit, logger: logger}
}

// List returns every known setting, filling unset ones with their defaults.
func (s *SettingsService) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	rows, err := s.repo.ListByKeys(ctx, settingKeys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settings")
	}
	existing := make(map[string]models.Configuration, len(rows))
	for _, row := range rows {
		existing[row.Key] = row
	}

	items := make([]dto.ConfigurationItem, 0, len(settingKeys))
	for _, key := range settingKeys {
		def := settingDefinitions[key]
		item := dto.ConfigurationItem{Key: key, Type: string(def.Type), Description: def.Description, Value: def.Default}
		if row, ok := existing[key]; ok {
			item.Value = row.Value
		}
		items = append(items, item)
	}
	return items, nil
}

// Get returns one setting or its default.
func (s *SettingsService) Get(ctx context.Context, key string) (*dto.ConfigurationItem, error) {
	def, err := requireSetting(key)
	if err != nil {
		return nil, err
	}
	value, err := s.value(ctx, def)
	if err != nil {
		return nil, err
	}
	return &dto.ConfigurationItem{Key: key, Value: value, Type: string(def.Type), Description: def.Description}, nil
}

// Update validates and stores a setting.
func (s *SettingsService) Update(ctx context.Context, key, value string, actor models.Actor) (*dto.ConfigurationItem, error) {
	def, err := requireSetting(key)
	if err != nil {
		return nil, err
	}
	value, err = s.validateValue(ctx, def, value)
	if err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch setting")
	}

	cfg := &models.Configuration{
		Key:         key,
		Value:       value,
		Type:        def.Type,
		Description: strPtr(def.Description),
		UpdatedBy:   actorIDPtr(actor),
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update setting")
	}

	var oldValue string
	if prev != nil {
		oldValue = prev.Value
	}
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionConfigUpdate,
		Resource:    "setting",
		ResourceID:  &key,
		Description: fmt.Sprintf("%s set to %q", key, value),
		OldValues:   auditPayload(map[string]string{"key": key, "value": oldValue}),
		NewValues:   auditPayload(map[string]string{"key": key, "value": value}),
	})

	return &dto.ConfigurationItem{Key: key, Value: value, Type: string(def.Type), Description: def.Description}, nil
}

// HODApprovalRequired reports whether publication needs a prior HOD approval.
func (s *SettingsService) HODApprovalRequired(ctx context.Context) (bool, error) {
	return s.boolValue(ctx, models.SettingHODApprovalRequired)
}

// AllowResultEdit reports whether existing scores may be corrected through the upload path.
func (s *SettingsService) AllowResultEdit(ctx context.Context) (bool, error) {
	return s.boolValue(ctx, models.SettingAllowResultEdit)
}

func (s *SettingsService) boolValue(ctx context.Context, key string) (bool, error) {
	value, err := s.value(ctx, settingDefinitions[key])
	if err != nil {
		return false, err
	}
	return strings.EqualFold(value, "true"), nil
}

func (s *SettingsService) value(ctx context.Context, def settingDefinition) (string, error) {
	cfg, err := s.repo.Get(ctx, def.Key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def.Default, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get setting")
	}
	return cfg.Value, nil
}

func requireSetting(key string) (settingDefinition, error) {
	def, ok := settingDefinitions[key]
	if !ok {
		return settingDefinition{}, appErrors.Clone(appErrors.ErrValidation, "unsupported setting key")
	}
	return def, nil
}

func (s *SettingsService) validateValue(ctx context.Context, def settingDefinition, value string) (string, error) {
	switch def.Type {
	case models.ConfigurationTypeBoolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			return "true", nil
		case "false":
			return "false", nil
		default:
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s expects boolean value", def.Key))
		}
	case models.ConfigurationTypeString:
		value = strings.TrimSpace(value)
		switch {
		case def.Semester:
			if !models.Semester(value).Valid() {
				return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be First or Second", def.Key))
			}
		case def.RequiresSession:
			if value == "" {
				return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s requires a session name", def.Key))
			}
			if err := s.ensureSessionExists(ctx, value); err != nil {
				return "", err
			}
		}
		return value, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported setting type")
	}
}

func (s *SettingsService) ensureSessionExists(ctx context.Context, name string) error {
	if s.sessions == nil {
		return nil
	}
	if _, err := s.sessions.FindByName(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify session")
	}
	return nil
}
