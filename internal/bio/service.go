package bio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"github.com/sheltersync/sheltersync-backend/pkg/genai"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
	"gorm.io/gorm"
)

// guardTTL bounds how long the per-resident enhancement lock can linger if a
// process dies mid-request.
const guardTTL = time.Minute

const promptTemplate = "You are a social worker at a shelter. Improve the following resident profile bio to be professional, empathetic, and concise.\n Resident Name: %s\n Current Bio: %s\n Return only the improved bio text."

// EnhanceResult reports the bio after enhancement. Enhanced is false when
// the generator is disabled or failed and the original text was kept.
type EnhanceResult struct {
	Bio      string `json:"bio"`
	Enhanced bool   `json:"enhanced"`
}

// Service rewrites resident bios with the configured text generator. Any
// generator failure falls back to the original bio so the profile editor
// never breaks.
type Service interface {
	EnhanceBio(ctx context.Context, residentID uuid.UUID) (*EnhanceResult, error)
}

type residentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resident, error)
	Update(ctx context.Context, resident *models.Resident) error
}

type enhanceGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	BioEnhanceKey(residentID string) string
}

type service struct {
	residents residentStore
	guard     enhanceGuard
	generator genai.TextGenerator
	log       *logger.Logger
}

// ServiceParams bundles the dependencies required to build a bio service.
// Generator may be nil, which disables enhancement entirely.
type ServiceParams struct {
	Residents residentStore
	Guard     enhanceGuard
	Generator genai.TextGenerator
	Logger    *logger.Logger
}

// NewService wires bio dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Residents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "residents store required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "enhance guard required")
	}
	return &service{
		residents: params.Residents,
		guard:     params.Guard,
		generator: params.Generator,
		log:       params.Logger,
	}, nil
}

func (s *service) EnhanceBio(ctx context.Context, residentID uuid.UUID) (*EnhanceResult, error) {
	resident, err := s.residents.GetByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resident not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get resident")
	}

	currentBio := ""
	if resident.Bio != nil {
		currentBio = *resident.Bio
	}
	if s.generator == nil {
		return &EnhanceResult{Bio: currentBio, Enhanced: false}, nil
	}

	key := s.guard.BioEnhanceKey(residentID.String())
	acquired, err := s.guard.SetNX(ctx, key, "1", guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire enhance guard")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "an enhancement is already running for this resident")
	}
	defer func() {
		if err := s.guard.Del(context.WithoutCancel(ctx), key); err != nil && s.log != nil {
			s.log.Warn(ctx, "failed to release bio enhance guard")
		}
	}()

	prompt := fmt.Sprintf(promptTemplate, resident.Name, currentBio)
	improved, err := s.generator.GenerateText(ctx, prompt)
	if err != nil || strings.TrimSpace(improved) == "" {
		if s.log != nil {
			s.log.Warn(s.log.WithResidentID(ctx, residentID.String()), "bio enhancement failed, keeping original bio")
		}
		return &EnhanceResult{Bio: currentBio, Enhanced: false}, nil
	}

	improved = strings.TrimSpace(improved)
	resident.Bio = &improved
	if err := s.residents.Update(ctx, resident); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save enhanced bio")
	}
	return &EnhanceResult{Bio: improved, Enhanced: true}, nil
}
