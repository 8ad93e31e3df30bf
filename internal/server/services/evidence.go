package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/evidence"
	"github.com/dmitrijs2005/geoledger/internal/server/metrics"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
)

// AllowedEvidenceTypes lists the media types accepted for uploads.
var AllowedEvidenceTypes = []string{"image/jpeg", "image/png", "image/gif", "application/pdf"}

// ErrInvalidCID is returned for identifiers too short to be a content id.
var ErrInvalidCID = errors.New("invalid cid")

// minCIDLength is the shortest accepted content identifier.
const minCIDLength = 40

// EvidenceStore is where evidence bytes are pinned. evidence.S3Store is the
// production implementation.
type EvidenceStore interface {
	Put(ctx context.Context, key, filename, contentType string, body []byte) error
	Ping(ctx context.Context) error
	URLs(key string) []string
	PresignPut(ctx context.Context, key string) (string, error)
}

var _ EvidenceStore = (*evidence.S3Store)(nil)

type UploadResult struct {
	Success   bool      `json:"success"`
	CID       string    `json:"cid"`
	Filename  string    `json:"filename"`
	Mimetype  string    `json:"mimetype"`
	Size      int       `json:"size"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

type PinResult struct {
	CID      string           `json:"cid"`
	URL      string           `json:"url"`
	Donation *models.Donation `json:"donation"`
}

type RetrieveResult struct {
	Success   bool      `json:"success"`
	CID       string    `json:"cid"`
	Gateways  []string  `json:"gateways"`
	Timestamp time.Time `json:"timestamp"`
}

type StorageStatus struct {
	Configured bool   `json:"configured"`
	Status     string `json:"status"`
}

type HealthReport struct {
	Success      bool          `json:"success"`
	Service      string        `json:"service"`
	Storage      StorageStatus `json:"storage"`
	MaxFileSize  string        `json:"max_file_size"`
	AllowedTypes []string      `json:"allowed_types"`
}

type PresignResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// EvidenceService pins evidence and links it to donations. A nil store
// means object storage is not configured; every pinning operation then
// fails with common.ErrStorageNotConfigured.
type EvidenceService struct {
	store       EvidenceStore
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewEvidenceService(store EvidenceStore, m repomanager.RepositoryManager, now func() time.Time) *EvidenceService {
	return &EvidenceService{store: store, repomanager: m, now: now}
}

// Upload validates and pins a file under its content id.
func (s *EvidenceService) Upload(ctx context.Context, filename, mimetype string, body []byte) (*UploadResult, error) {
	if s.store == nil {
		return nil, common.ErrStorageNotConfigured
	}
	if len(body) > common.MaxEvidenceFileSize {
		return nil, common.ErrFileTooLarge
	}
	if !slices.Contains(AllowedEvidenceTypes, mimetype) {
		return nil, common.ErrUnsupportedMediaType
	}

	cid := common.ContentID(body)
	if err := s.store.Put(ctx, cid, filename, mimetype, body); err != nil {
		return nil, fmt.Errorf("error pinning evidence: %w", err)
	}
	metrics.EvidenceBytes.Add(float64(len(body)))

	return &UploadResult{
		Success:   true,
		CID:       cid,
		Filename:  filename,
		Mimetype:  mimetype,
		Size:      len(body),
		URL:       s.store.URLs(cid)[0],
		Timestamp: s.now().UTC(),
	}, nil
}

// PinContent stores text evidence for a donation and attaches its URL as
// the donation's evidence_url.
func (s *EvidenceService) PinContent(ctx context.Context, donationID int64, content string) (*PinResult, error) {
	if s.store == nil {
		return nil, common.ErrStorageNotConfigured
	}

	donations := s.repomanager.Donations()
	if _, err := donations.Find(ctx, donationID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading donation %d: %w", donationID, err)
	}

	body := []byte(content)
	cid := common.ContentID(body)
	filename := fmt.Sprintf("donation-%d.txt", donationID)
	if err := s.store.Put(ctx, cid, filename, "text/plain; charset=utf-8", body); err != nil {
		return nil, fmt.Errorf("error pinning evidence: %w", err)
	}
	metrics.EvidenceBytes.Add(float64(len(body)))

	url := s.store.URLs(cid)[0]
	d, err := donations.Update(ctx, donationID, models.DonationPatch{EvidenceURL: &url})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error attaching evidence to donation %d: %w", donationID, err)
	}

	return &PinResult{CID: cid, URL: url, Donation: d}, nil
}

// Retrieve lists the gateway URLs serving cid.
func (s *EvidenceService) Retrieve(cid string) (*RetrieveResult, error) {
	if len(cid) < minCIDLength {
		return nil, ErrInvalidCID
	}
	if s.store == nil {
		return nil, common.ErrStorageNotConfigured
	}
	return &RetrieveResult{
		Success:   true,
		CID:       cid,
		Gateways:  s.store.URLs(cid),
		Timestamp: s.now().UTC(),
	}, nil
}

// Health reports whether storage is configured and reachable.
func (s *EvidenceService) Health(ctx context.Context) *HealthReport {
	status := StorageStatus{Status: "not_configured"}
	if s.store != nil {
		status.Configured = true
		status.Status = "connected"
		if err := s.store.Ping(ctx); err != nil {
			status.Status = "error"
		}
	}
	return &HealthReport{
		Success:      true,
		Service:      "evidence",
		Storage:      status,
		MaxFileSize:  "10MB",
		AllowedTypes: AllowedEvidenceTypes,
	}
}

// Presign hands out a fresh key and a URL to upload it to directly.
func (s *EvidenceService) Presign(ctx context.Context) (*PresignResult, error) {
	if s.store == nil {
		return nil, common.ErrStorageNotConfigured
	}
	key := evidence.RandomUploadKey(s.now())
	url, err := s.store.PresignPut(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}
	return &PresignResult{Key: key, URL: url}, nil
}
