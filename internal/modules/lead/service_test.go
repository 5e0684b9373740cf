package lead

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"consultly/internal/domain"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	args := m.Called(ctx, l)
	if l != nil && args.Error(0) == nil {
		l.ID = 5
	}
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e *domain.AuditLogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func TestSubmit(t *testing.T) {
	leads := new(MockLeadRepository)
	audit := new(MockAuditRepository)

	leads.On("Create", mock.Anything, mock.Anything).Return(nil)
	audit.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditLogEntry) bool {
		return e.Entity == "lead" && e.EntityID == 5 && e.Action == domain.AuditCreate
	})).Return(nil)

	svc := NewService(leads, audit, zerolog.Nop())
	l, err := svc.Submit(context.Background(), SubmitLeadRequest{
		Name:    "Lee Okafor",
		Email:   "lee@example.com",
		Message: "Interested in a strategy session",
		Source:  "contact_form",
	}, "203.0.113.9")
	require.NoError(t, err)

	assert.Equal(t, int64(5), l.ID)
	assert.Equal(t, domain.LeadNew, l.Status)
	assert.Equal(t, "203.0.113.9", l.IPAddress)
	audit.AssertExpectations(t)
}

func TestSubmit_CreateFails(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(leads, new(MockAuditRepository), zerolog.Nop())
	_, err := svc.Submit(context.Background(), SubmitLeadRequest{Name: "Lee"}, "")
	assert.Error(t, err)
}
