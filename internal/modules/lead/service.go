package lead

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"consultly/internal/domain"
)

type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
}

type AuditRepository interface {
	Append(ctx context.Context, e *domain.AuditLogEntry) error
}

type Service struct {
	leads  LeadRepository
	audit  AuditRepository
	logger zerolog.Logger
}

func NewService(leads LeadRepository, audit AuditRepository, logger zerolog.Logger) *Service {
	return &Service{leads: leads, audit: audit, logger: logger}
}

// Submit stores a contact-form lead from the marketing pages.
func (s *Service) Submit(ctx context.Context, req SubmitLeadRequest, ip string) (*domain.Lead, error) {
	l := &domain.Lead{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Source:    req.Source,
		Status:    domain.LeadNew,
		IPAddress: ip,
	}
	if err := s.leads.Create(ctx, l); err != nil {
		return nil, err
	}

	meta, _ := json.Marshal(map[string]any{"email": l.Email, "source": l.Source})
	if err := s.audit.Append(ctx, &domain.AuditLogEntry{
		Action:   domain.AuditCreate,
		Entity:   "lead",
		EntityID: l.ID,
		Metadata: string(meta),
	}); err != nil {
		s.logger.Error().Err(err).Int64("lead_id", l.ID).Msg("append audit log")
	}

	return l, nil
}
