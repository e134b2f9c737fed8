package service

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/config"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIngest(tick time.Duration) *IngestService {
	return NewIngestService(NewAnalyzer(rand.New(rand.NewSource(1))), tick)
}

func pdfInput(name string) FileInput {
	return FileInput{Name: name, MimeType: "application/pdf", Size: 1 << 20, TelegramFileID: "tg-" + name}
}

func TestStageFiltersNonPDF(t *testing.T) {
	s := newTestIngest(0)

	res := s.Stage(1, []FileInput{
		{Name: "a.pdf", MimeType: "application/pdf", Size: 100},
		{Name: "b.txt", MimeType: "text/plain", Size: 100},
		{Name: "c.PDF", MimeType: "application/octet-stream", Size: 100},
	})

	require.Len(t, res.Staged, 2)
	assert.Equal(t, "a.pdf", res.Staged[0].Name)
	assert.Equal(t, "c.PDF", res.Staged[1].Name)
	assert.Equal(t, []string{"b.txt"}, res.Skipped)
	assert.Empty(t, res.TooLarge)

	files := s.Files(1)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, domain.FileReady, f.Status)
		assert.Zero(t, f.Progress)
	}
}

func TestStageRejectsOversized(t *testing.T) {
	s := newTestIngest(0)

	res := s.Stage(1, []FileInput{
		{Name: "grande.pdf", MimeType: "application/pdf", Size: config.MaxPDFSize + 1},
	})

	assert.Empty(t, res.Staged)
	assert.Equal(t, []string{"grande.pdf"}, res.TooLarge)
	assert.Empty(t, s.Files(1))
}

func TestStageAppendsToExistingQueue(t *testing.T) {
	s := newTestIngest(0)

	s.Stage(1, []FileInput{pdfInput("um.pdf")})
	s.Stage(1, []FileInput{pdfInput("dois.pdf")})

	files := s.Files(1)
	require.Len(t, files, 2)
	assert.Equal(t, "um.pdf", files[0].Name)
	assert.Equal(t, "dois.pdf", files[1].Name)
}

func TestUploadAllProcessesInOrder(t *testing.T) {
	s := newTestIngest(0)
	user := &domain.User{ID: 1, Grade: domain.Grade7}

	s.Stage(1, []FileInput{pdfInput("a.pdf"), pdfInput("b.pdf"), pdfInput("c.pdf")})

	type step struct {
		name     string
		status   domain.FileStatus
		progress int
	}
	var steps []step
	results, err := s.UploadAll(user, func(f domain.StagedFile) {
		steps = append(steps, step{f.Name, f.Status, f.Progress})
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Every file ends completed with one analysis referencing it
	files := s.Files(1)
	require.Len(t, files, 3)
	for i, f := range files {
		assert.Equal(t, domain.FileCompleted, f.Status)
		assert.Equal(t, f.ID, results[i].FileID)
		res := s.Analysis(1, f.ID)
		require.NotNil(t, res)
		assert.Equal(t, f.ID, res.FileID)
	}

	// Progress runs 0,10,…,100 per file, strictly in staging order, with
	// no interleaving between files
	require.Len(t, steps, 3*12) // 11 progress ticks + completed event each
	idx := 0
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		for p := 0; p <= 100; p += config.UploadProgressStep {
			assert.Equal(t, name, steps[idx].name)
			assert.Equal(t, domain.FileUploading, steps[idx].status)
			assert.Equal(t, p, steps[idx].progress)
			idx++
		}
		assert.Equal(t, name, steps[idx].name)
		assert.Equal(t, domain.FileCompleted, steps[idx].status)
		idx++
	}
}

func TestUploadAllNoReadyFilesIsNoop(t *testing.T) {
	s := newTestIngest(0)
	user := &domain.User{ID: 1}

	results, err := s.UploadAll(user, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUploadAllAlreadyCompletedNotReprocessed(t *testing.T) {
	s := newTestIngest(0)
	user := &domain.User{ID: 1}

	s.Stage(1, []FileInput{pdfInput("a.pdf")})
	_, err := s.UploadAll(user, nil)
	require.NoError(t, err)

	results, err := s.UploadAll(user, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUploadAllConcurrentRejected(t *testing.T) {
	s := newTestIngest(5 * time.Millisecond)
	user := &domain.User{ID: 1}

	s.Stage(1, []FileInput{pdfInput("a.pdf")})

	started := make(chan struct{})
	var once sync.Once
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.UploadAll(user, func(domain.StagedFile) {
			once.Do(func() { close(started) })
		})
		assert.NoError(t, err)
	}()

	<-started
	_, err := s.UploadAll(user, nil)
	assert.ErrorIs(t, err, domain.ErrUploadInProgress)

	<-done

	// Once the batch finished a new one may start
	s.Stage(1, []FileInput{pdfInput("b.pdf")})
	results, err := s.UploadAll(user, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRemoveCascadesAnalysis(t *testing.T) {
	s := newTestIngest(0)
	user := &domain.User{ID: 1}

	s.Stage(1, []FileInput{pdfInput("a.pdf")})
	results, err := s.UploadAll(user, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	fileID := results[0].FileID
	require.NotNil(t, s.Analysis(1, fileID))

	assert.True(t, s.Remove(1, fileID))
	assert.Empty(t, s.Files(1))
	assert.Nil(t, s.Analysis(1, fileID))
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s := newTestIngest(0)

	assert.False(t, s.Remove(1, "nope"))

	s.Stage(1, []FileInput{pdfInput("a.pdf")})
	assert.False(t, s.Remove(1, "nope"))
	assert.Len(t, s.Files(1), 1)
}

func TestRemoveAtReadyStatus(t *testing.T) {
	s := newTestIngest(0)

	res := s.Stage(1, []FileInput{pdfInput("a.pdf"), pdfInput("b.pdf")})
	require.Len(t, res.Staged, 2)

	assert.True(t, s.Remove(1, res.Staged[0].ID))
	files := s.Files(1)
	require.Len(t, files, 1)
	assert.Equal(t, "b.pdf", files[0].Name)
}

func TestBatchesAreIsolatedPerUser(t *testing.T) {
	s := newTestIngest(0)

	s.Stage(1, []FileInput{pdfInput("a.pdf")})
	s.Stage(2, []FileInput{pdfInput("b.pdf")})

	assert.Len(t, s.Files(1), 1)
	assert.Len(t, s.Files(2), 1)

	s.Clear(1)
	assert.Empty(t, s.Files(1))
	assert.Len(t, s.Files(2), 1)
}
