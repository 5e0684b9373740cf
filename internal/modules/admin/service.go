package admin

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"consultly/internal/domain"
	"consultly/internal/repository"
)

type Service struct {
	bookings BookingManager
	audit    AuditReader
	leads    LeadRepository
}

func NewService(bookings BookingManager, audit AuditReader, leads LeadRepository) *Service {
	return &Service{
		bookings: bookings,
		audit:    audit,
		leads:    leads,
	}
}

func (s *Service) ListBookings(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, f)
}

// ExportBookings renders the current booking list as an xlsx workbook.
func (s *Service) ExportBookings(ctx context.Context, f repository.BookingFilter) (*excelize.File, error) {
	bookings, err := s.bookings.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := "Bookings"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Reference", "Name", "Email", "Phone", "Status", "Slot ID", "Calendar Event", "CRM Appointment", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, b := range bookings {
		values := []any{
			b.ID,
			b.Reference,
			b.FullName,
			b.Email,
			b.Phone,
			string(b.Status),
			b.SlotID,
			deref(b.CalendarEventID),
			deref(b.CrmAppointmentID),
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return file, nil
}

func (s *Service) ListAudit(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	return s.audit.ListRecent(ctx, limit)
}

func (s *Service) ListLeads(ctx context.Context, status string, limit, offset int) ([]domain.Lead, error) {
	return s.leads.List(ctx, status, limit, offset)
}

func (s *Service) UpdateLeadStatus(ctx context.Context, id int64, status string) error {
	switch domain.LeadStatus(status) {
	case domain.LeadNew, domain.LeadContacted, domain.LeadClosed:
	default:
		return fmt.Errorf("unknown lead status %q", status)
	}
	return s.leads.UpdateStatus(ctx, id, domain.LeadStatus(status))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
