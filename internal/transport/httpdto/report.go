package httpdto

import (
	"time"

	"classifieds-core/internal/domain/report"
	"classifieds-core/internal/services"
)

type CreateReportRequest struct {
	ListingID   string `json:"listingId" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
}

type CreateReportResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ResolveReportRequest struct {
	Status         string  `json:"status" binding:"required"`
	ResolutionNote *string `json:"resolutionNote"`
	RemoveListing  bool    `json:"removeListing"`
}

type ResolveReportResponse struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	ResolutionNote *string `json:"resolutionNote"`
	ReviewerID     string  `json:"reviewerId"`
	ListingRemoved bool    `json:"listingRemoved"`
}

type ReportDTO struct {
	ID             string    `json:"id"`
	ListingID      string    `json:"listingId"`
	ReporterID     string    `json:"reporterId"`
	ReporterName   string    `json:"reporterName,omitempty"`
	OwnerID        string    `json:"ownerId"`
	Reason         string    `json:"reason"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	ResolutionNote *string   `json:"resolutionNote"`
	ReviewerID     *string   `json:"reviewerId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type HistoryEntryDTO struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	ActorID    *string   `json:"actorId"`
	Action     string    `json:"action"`
	FromStatus *string   `json:"fromStatus"`
	ToStatus   *string   `json:"toStatus"`
	Note       *string   `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReportDetailDTO struct {
	ReportDTO
	History []HistoryEntryDTO `json:"history"`
}

type ListReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

func FromCreatedReport(r services.CreatedReport) CreateReportResponse {
	return CreateReportResponse{ID: r.ID, Status: string(r.Status), CreatedAt: r.CreatedAt}
}

func FromResolvedReport(r services.ResolvedReport) ResolveReportResponse {
	return ResolveReportResponse{
		ID:             r.ID,
		Status:         string(r.Status),
		ResolutionNote: r.ResolutionNote,
		ReviewerID:     r.ReviewerID,
		ListingRemoved: r.ListingRemoved,
	}
}

func FromReport(r report.Report) ReportDTO {
	return ReportDTO{
		ID:             r.ID,
		ListingID:      r.ListingID,
		ReporterID:     r.ReporterID,
		ReporterName:   r.ReporterName,
		OwnerID:        r.OwnerID,
		Reason:         string(r.Reason),
		Description:    r.Description,
		Status:         string(r.Status),
		ResolutionNote: r.ResolutionNote,
		ReviewerID:     r.ReviewerID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func FromReportDetail(d report.Detail) ReportDetailDTO {
	out := ReportDetailDTO{ReportDTO: FromReport(d.Report), History: make([]HistoryEntryDTO, 0, len(d.History))}
	for _, h := range d.History {
		out.History = append(out.History, HistoryEntryDTO{
			ID:         h.ID,
			Seq:        h.Seq,
			ActorID:    h.ActorID,
			Action:     string(h.Action),
			FromStatus: statusString(h.FromStatus),
			ToStatus:   statusString(h.ToStatus),
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return out
}

func FromReportPage(p services.OffsetPage[report.Report]) ListReportsResponse {
	out := ListReportsResponse{Reports: make([]ReportDTO, 0, len(p.Items)), Total: p.Total, Page: p.Page, Limit: p.Limit}
	for _, r := range p.Items {
		out.Reports = append(out.Reports, FromReport(r))
	}
	return out
}

func statusString(s *report.Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
