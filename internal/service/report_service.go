package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// ReportInput carries the fields for filing a report.
type ReportInput struct {
	TargetType model.ReportTarget `json:"target_type" validate:"required,oneof=user post comment"`
	TargetID   uuid.UUID          `json:"target_id" validate:"required"`
	Reason     string             `json:"reason" validate:"required,max=100"`
	Details    string             `json:"details" validate:"max=2000"`
}

// ReportService covers filing and moderating reports.
type ReportService interface {
	Create(ctx context.Context, reporterID uuid.UUID, input ReportInput) (*model.Report, error)
	List(ctx context.Context, status model.ReportStatus, page repository.Page) ([]model.Report, *repository.PageInfo, error)
	Resolve(ctx context.Context, moderatorID, reportID uuid.UUID) error
	Dismiss(ctx context.Context, moderatorID, reportID uuid.UUID) error
}

type reportService struct {
	repos repository.Repos
	audit *AuditWriter
}

// NewReportService creates a new report service.
func NewReportService(repos repository.Repos, audit *AuditWriter) ReportService {
	return &reportService{repos: repos, audit: audit}
}

// Create files a report after checking that the target exists. Reporting
// yourself is rejected.
func (s *reportService) Create(ctx context.Context, reporterID uuid.UUID, input ReportInput) (*model.Report, error) {
	if err := s.checkTarget(ctx, reporterID, input.TargetType, input.TargetID); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		Reason:     input.Reason,
		Details:    input.Details,
		Status:     model.ReportOpen,
	}
	if err := s.repos.Reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, status model.ReportStatus, page repository.Page) ([]model.Report, *repository.PageInfo, error) {
	reports, total, err := s.repos.Reports.List(ctx, status, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, repository.NewPageInfo(total, page), nil
}

func (s *reportService) Resolve(ctx context.Context, moderatorID, reportID uuid.UUID) error {
	return s.close(ctx, moderatorID, reportID, model.ReportResolved)
}

func (s *reportService) Dismiss(ctx context.Context, moderatorID, reportID uuid.UUID) error {
	return s.close(ctx, moderatorID, reportID, model.ReportDismissed)
}

func (s *reportService) close(ctx context.Context, moderatorID, reportID uuid.UUID, status model.ReportStatus) error {
	report, err := s.repos.Reports.FindByID(ctx, reportID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrReportNotFound
		}
		return fmt.Errorf("find report: %w", err)
	}
	if report.Status != model.ReportOpen {
		return apperrors.ErrDuplicateAction
	}

	now := time.Now()
	report.Status = status
	report.ResolvedBy = &moderatorID
	report.ResolvedAt = &now
	if err := s.repos.Reports.Update(ctx, report); err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	s.audit.Record(moderatorID, "report_"+string(status), string(report.TargetType), report.TargetID.String(),
		fmt.Sprintf("report %s %s", reportID, status))
	return nil
}

func (s *reportService) checkTarget(ctx context.Context, reporterID uuid.UUID, targetType model.ReportTarget, targetID uuid.UUID) error {
	switch targetType {
	case model.ReportTargetUser:
		if targetID == reporterID {
			return apperrors.ErrSelfAction
		}
		if _, err := s.repos.Users.FindByID(ctx, targetID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}
	case model.ReportTargetPost:
		post, err := s.repos.Posts.FindByID(ctx, targetID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("find post: %w", err)
		}
		if post.Deleted {
			return apperrors.ErrPostNotFound
		}
	case model.ReportTargetComment:
		if _, err := s.repos.Comments.FindByID(ctx, targetID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrCommentNotFound
			}
			return fmt.Errorf("find comment: %w", err)
		}
	default:
		return apperrors.ErrValidation
	}
	return nil
}
