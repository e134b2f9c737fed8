package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/config"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

// FileInput is a file handle received from Telegram, before staging.
type FileInput struct {
	Name           string
	MimeType       string
	Size           int64
	TelegramFileID string
}

// StageResult reports what happened to each input: staged PDFs, names
// skipped for not being PDFs, and names rejected for exceeding the size
// limit.
type StageResult struct {
	Staged   []domain.StagedFile
	Skipped  []string
	TooLarge []string
}

// IngestService owns the per-user staged file list and runs the simulated
// upload/analysis pipeline. Staged files move strictly forward: ready →
// uploading → completed.
type IngestService struct {
	analyzer *Analyzer
	tick     time.Duration

	mu      sync.Mutex
	batches map[int64]*fileBatch
}

type fileBatch struct {
	mu        sync.Mutex
	files     []*domain.StagedFile
	analyses  map[string]*domain.AnalysisResult
	uploading bool
}

func NewIngestService(analyzer *Analyzer, tick time.Duration) *IngestService {
	return &IngestService{
		analyzer: analyzer,
		tick:     tick,
		batches:  make(map[int64]*fileBatch),
	}
}

func (s *IngestService) batch(userID int64) *fileBatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[userID]
	if !ok {
		b = &fileBatch{analyses: make(map[string]*domain.AnalysisResult)}
		s.batches[userID] = b
	}
	return b
}

func isPDF(in FileInput) bool {
	return in.MimeType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(in.Name), ".pdf")
}

// Stage appends one ready entry per qualifying input to the user's staged
// list. Non-PDF inputs produce no entry; their names are reported back so
// the caller can tell the user instead of dropping them silently.
func (s *IngestService) Stage(userID int64, inputs []FileInput) StageResult {
	b := s.batch(userID)

	var res StageResult
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, in := range inputs {
		if !isPDF(in) {
			res.Skipped = append(res.Skipped, in.Name)
			continue
		}
		if in.Size > config.MaxPDFSize {
			res.TooLarge = append(res.TooLarge, in.Name)
			continue
		}
		f := &domain.StagedFile{
			ID:             uuid.NewString(),
			Name:           in.Name,
			MimeType:       in.MimeType,
			Size:           in.Size,
			TelegramFileID: in.TelegramFileID,
			Status:         domain.FileReady,
			StagedAt:       time.Now(),
		}
		b.files = append(b.files, f)
		res.Staged = append(res.Staged, *f)
	}
	return res
}

// Remove discards a staged file at any status along with its analysis
// result. Removing an unknown id is a no-op.
func (s *IngestService) Remove(userID int64, fileID string) bool {
	b := s.batch(userID)
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, f := range b.files {
		if f.ID == fileID {
			b.files = append(b.files[:i], b.files[i+1:]...)
			delete(b.analyses, fileID)
			return true
		}
	}
	return false
}

// Files returns a snapshot of the user's staged list in staging order.
func (s *IngestService) Files(userID int64) []domain.StagedFile {
	b := s.batch(userID)
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.StagedFile, len(b.files))
	for i, f := range b.files {
		out[i] = *f
	}
	return out
}

// Analysis returns the result for a completed file, or nil.
func (s *IngestService) Analysis(userID int64, fileID string) *domain.AnalysisResult {
	b := s.batch(userID)
	b.mu.Lock()
	defer b.mu.Unlock()

	res, ok := b.analyses[fileID]
	if !ok {
		return nil
	}
	cp := *res
	return &cp
}

// UploadAll processes every ready file sequentially in staging order,
// advancing progress 0,10,…,100 with a fixed tick and generating one
// analysis result per completed file. Only one batch runs per user at a
// time; a concurrent call returns ErrUploadInProgress. There is no
// cancellation: a started batch runs to completion.
func (s *IngestService) UploadAll(user *domain.User, onProgress func(domain.StagedFile)) ([]domain.AnalysisResult, error) {
	b := s.batch(user.ID)

	b.mu.Lock()
	if b.uploading {
		b.mu.Unlock()
		return nil, domain.ErrUploadInProgress
	}
	var ready []*domain.StagedFile
	for _, f := range b.files {
		if f.Status == domain.FileReady {
			ready = append(ready, f)
		}
	}
	if len(ready) == 0 {
		b.mu.Unlock()
		return nil, nil
	}
	b.uploading = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.uploading = false
		b.mu.Unlock()
	}()

	grade := user.GradeOrDefault()
	var results []domain.AnalysisResult

	for _, f := range ready {
		if snap, ok := b.transition(f, domain.FileUploading, 0); ok {
			emit(onProgress, snap)
		} else {
			continue // removed while the batch was queued
		}

		removed := false
		for p := config.UploadProgressStep; p <= 100; p += config.UploadProgressStep {
			time.Sleep(s.tick)
			snap, ok := b.transition(f, domain.FileUploading, p)
			if !ok {
				removed = true
				break
			}
			emit(onProgress, snap)
		}
		if removed {
			continue
		}

		b.mu.Lock()
		if b.contains(f.ID) {
			f.Status = domain.FileCompleted
			res := s.analyzer.Analyze(f, grade)
			b.analyses[f.ID] = res
			results = append(results, *res)
			snap := *f
			b.mu.Unlock()
			emit(onProgress, snap)
			continue
		}
		b.mu.Unlock()
	}

	return results, nil
}

func (b *fileBatch) transition(f *domain.StagedFile, status domain.FileStatus, progress int) (domain.StagedFile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.contains(f.ID) {
		return domain.StagedFile{}, false
	}
	f.Status = status
	f.Progress = progress
	return *f, true
}

func (b *fileBatch) contains(fileID string) bool {
	for _, f := range b.files {
		if f.ID == fileID {
			return true
		}
	}
	return false
}

func emit(onProgress func(domain.StagedFile), f domain.StagedFile) {
	if onProgress != nil {
		onProgress(f)
	}
}

// Clear drops the user's staged files and analyses (used on /sair).
func (s *IngestService) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, userID)
}
