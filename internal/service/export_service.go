package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/export"
	"github.com/dafibh/tally/tally-backend/internal/repository/storage"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// DefaultExportURLTTL is how long archived report links stay valid
const DefaultExportURLTTL = 15 * time.Minute

// ExportService renders reports to files and archives them
type ExportService struct {
	reports *ReportService
	store   storage.ReportStore
	urlTTL  time.Duration
	now     func() time.Time
}

// NewExportService creates a new ExportService. Archiving stays disabled
// until a store is set.
func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{
		reports: reports,
		urlTTL:  DefaultExportURLTTL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetReportStore enables archiving to the given store
func (s *ExportService) SetReportStore(store storage.ReportStore, urlTTL time.Duration) {
	s.store = store
	if urlTTL > 0 {
		s.urlTTL = urlTTL
	}
}

// ArchiveEnabled reports whether a report store is configured
func (s *ExportService) ArchiveEnabled() bool {
	return s != nil && s.store != nil
}

// ExportFile is a rendered report
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArchivedReport describes a report stored in object storage
type ArchivedReport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Size      int       `json:"size"`
}

// Document builds the printable layout of a report from current balances
func (s *ExportService) Document(kind domain.ReportKind) (export.Document, error) {
	switch kind {
	case domain.ReportAccountBalances:
		report, err := s.reports.GetAccountBalances()
		if err != nil {
			return export.Document{}, err
		}
		return export.AccountBalancesDocument(report), nil
	case domain.ReportBalanceSheet:
		sheet, err := s.reports.GetBalanceSheet()
		if err != nil {
			return export.Document{}, err
		}
		return export.BalanceSheetDocument(sheet), nil
	case domain.ReportIncomeStatement:
		statement, err := s.reports.GetIncomeStatement()
		if err != nil {
			return export.Document{}, err
		}
		return export.IncomeStatementDocument(statement), nil
	}
	return export.Document{}, domain.ErrUnknownReport
}

// Export renders a report in the requested format
func (s *ExportService) Export(kind domain.ReportKind, format export.Format) (*ExportFile, error) {
	doc, err := s.Document(kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Render(&buf, doc, format); err != nil {
		return nil, fmt.Errorf("rendering %s as %s: %w", kind, format, err)
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", kind, doc.GeneratedAt.Format("20060102"), format.Extension()),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// Archive renders a report, uploads it and returns a presigned download link
func (s *ExportService) Archive(ctx context.Context, kind domain.ReportKind, format export.Format) (*ArchivedReport, error) {
	if !s.ArchiveEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	file, err := s.Export(kind, format)
	if err != nil {
		return nil, err
	}

	// The ULID suffix keeps archives made within the same second apart
	now := s.now()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	key := fmt.Sprintf("reports/%s/%s-%s-%s.%s", kind, kind, now.UTC().Format("20060102T150405Z"), id, format.Extension())
	if err := s.store.Upload(ctx, key, file.Data, file.ContentType); err != nil {
		return nil, err
	}

	url, err := s.store.PresignURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("report", string(kind)).
		Str("format", string(format)).
		Str("key", key).
		Int("size", len(file.Data)).
		Msg("Report archived")

	return &ArchivedReport{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.urlTTL),
		Size:      len(file.Data),
	}, nil
}
