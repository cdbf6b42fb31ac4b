package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/common"
	"github.com/compose-report/reportsync/internal/filex"
	"github.com/compose-report/reportsync/internal/identity"
	"github.com/compose-report/reportsync/internal/logging"
	"github.com/compose-report/reportsync/internal/remote/blob"
	"github.com/compose-report/reportsync/internal/remote/records"
	"github.com/compose-report/reportsync/internal/storagepath"
)

// ReportService synchronizes report records against the document database
// and decides which images must be uploaded or deleted as a consequence.
//
// The record's image list is written optimistically: a path may appear on
// the record before the blob fully exists, because the path is
// deterministic and the pending-upload queue guarantees convergence. The
// per-image Confirmed flag tells readers apart "definitely present" from
// "eventually present".
//
// Record writes themselves are not queued locally; a document-database
// failure surfaces as common.ErrRecord immediately.
type ReportService struct {
	records  records.Repository
	uploader *UploadReconciler
	deleter  *DeleteReconciler
	identity identity.Provider
	store    blob.Store
	log      logging.Logger

	now func() time.Time
}

// NewReportService wires a ReportService to its collaborators.
func NewReportService(
	repo records.Repository,
	uploader *UploadReconciler,
	deleter *DeleteReconciler,
	provider identity.Provider,
	store blob.Store,
	log logging.Logger,
) *ReportService {
	return &ReportService{
		records:  repo,
		uploader: uploader,
		deleter:  deleter,
		identity: provider,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// AttachImage derives the canonical remote path for a local image file and
// adds it to the gallery. The path embeds the owner id, the file name, and
// the current instant, so it is globally unique and never reused.
func (s *ReportService) AttachImage(ctx context.Context, gallery *models.GalleryState, localURI string) (models.GalleryImage, error) {
	owner, err := s.identity.OwnerID(ctx)
	if err != nil {
		return models.GalleryImage{}, err
	}

	name, ext := filex.SplitName(localURI)
	img := models.GalleryImage{
		LocalURI:   localURI,
		RemotePath: storagepath.Derive(owner, name, ext, s.now()),
	}
	gallery.Add(img)
	return img, nil
}

// Save creates the document record for a new report with the gallery's
// image set, then uploads every image. The record write happens first and
// is never blocked on upload completion; interrupted uploads land in the
// pending queue, and upload-start failures are reported after the record
// is already durable.
func (s *ReportService) Save(ctx context.Context, report *models.Report, gallery *models.GalleryState) error {
	owner, err := s.identity.OwnerID(ctx)
	if err != nil {
		return err
	}
	report.OwnerID = owner
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	report.Images = make([]models.ImageRef, 0, len(gallery.Images))
	for _, img := range gallery.Images {
		report.Images = append(report.Images, models.ImageRef{Path: img.RemotePath})
	}

	if err := s.records.Create(ctx, report); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecord, err)
	}

	return s.uploadImages(ctx, report, gallery.Images)
}

// Update overwrites the record's fields and image list. Images present
// before but absent from the new desired set are handed to the delete
// reconciler; images newly present are uploaded. The previous record is
// read first so already-confirmed images keep their flag.
func (s *ReportService) Update(ctx context.Context, report *models.Report, gallery *models.GalleryState) error {
	owner, err := s.identity.OwnerID(ctx)
	if err != nil {
		return err
	}
	report.OwnerID = owner

	prev, err := s.records.GetByID(ctx, report.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: report %s: %v", common.ErrRecord, report.ID, err)
		}
		return fmt.Errorf("%w: %v", common.ErrRecord, err)
	}

	confirmed := make(map[string]bool, len(prev.Images))
	for _, img := range prev.Images {
		confirmed[img.Path] = img.Confirmed
	}

	var added []models.GalleryImage
	report.Images = make([]models.ImageRef, 0, len(gallery.Images))
	for _, img := range gallery.Images {
		was, known := confirmed[img.RemotePath]
		report.Images = append(report.Images, models.ImageRef{Path: img.RemotePath, Confirmed: known && was})
		if !known {
			added = append(added, img)
		}
	}

	if err := s.records.Update(ctx, report); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecord, err)
	}

	var errs error
	if err := s.uploadImages(ctx, report, added); err != nil {
		errs = errors.Join(errs, err)
	}
	for _, path := range s.removedPaths(prev, report) {
		if err := s.deleter.Delete(ctx, path); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// removedPaths returns the previous record's paths that are absent from
// the new desired set.
func (s *ReportService) removedPaths(prev, next *models.Report) []string {
	keep := make(map[string]struct{}, len(next.Images))
	for _, img := range next.Images {
		keep[img.Path] = struct{}{}
	}

	var removed []string
	for _, img := range prev.Images {
		if _, ok := keep[img.Path]; !ok {
			removed = append(removed, img.Path)
		}
	}
	return removed
}

// Delete removes the document record first; only after that succeeds are
// the report's blobs handed to the delete reconciler. If record removal
// fails no blob deletions are attempted; deleting blobs for a record that
// still exists would dangle its references.
func (s *ReportService) Delete(ctx context.Context, report *models.Report) error {
	if err := s.records.Delete(ctx, report.ID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecord, err)
	}

	return s.deleter.DeleteAll(ctx, report.ImagePaths())
}

// Load fetches a record and rebuilds its gallery: every stored path is
// resolved to a download URL, and the canonical path is recovered from
// that URL so the two representations are known to agree.
func (s *ReportService) Load(ctx context.Context, id string) (*models.Report, *models.GalleryState, error) {
	report, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrRecord, err)
	}

	gallery := &models.GalleryState{}
	for _, img := range report.Images {
		url, err := s.store.FetchURL(ctx, img.Path)
		if err != nil {
			s.log.Warn(ctx, "failed to fetch image url, skipping", "path", img.Path, "error", err)
			continue
		}
		path, err := storagepath.Recover(url)
		if err != nil {
			return nil, nil, err
		}
		gallery.Add(models.GalleryImage{LocalURI: url, RemotePath: path})
	}
	return report, gallery, nil
}

// ListByOwner returns the current owner's reports, newest first.
func (s *ReportService) ListByOwner(ctx context.Context) ([]models.Report, error) {
	owner, err := s.identity.OwnerID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.records.GetAllByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRecord, err)
	}
	return result, nil
}

// uploadImages runs the upload reconciler for each image and flips the
// Confirmed flag on the record for uploads that completed synchronously.
// Start failures are collected and returned after all images were tried.
func (s *ReportService) uploadImages(ctx context.Context, report *models.Report, images []models.GalleryImage) error {
	if len(images) == 0 {
		return nil
	}

	done := make(map[string]bool, len(images))
	var errs error
	for _, img := range images {
		status, err := s.uploader.Upload(ctx, img)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if status == UploadDone {
			done[img.RemotePath] = true
		}
	}

	if len(done) > 0 {
		changed := false
		for i := range report.Images {
			if done[report.Images[i].Path] && !report.Images[i].Confirmed {
				report.Images[i].Confirmed = true
				changed = true
			}
		}
		if changed {
			if err := s.records.Update(ctx, report); err != nil {
				// The record content is already correct; an unconfirmed flag
				// is merely conservative.
				s.log.Warn(ctx, "failed to confirm uploaded images on record",
					"report", report.ID, "error", err)
			}
		}
	}
	return errs
}
