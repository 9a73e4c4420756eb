package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"imagesim/internal/config"
	"imagesim/internal/domain/embedding"
	"imagesim/utils/apperrors"
)

type fakeRepo struct {
	images  map[uint]Image
	nextID  uint
	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{images: map[uint]Image{}, nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, img *Image) error {
	r.creates++
	img.ID = r.nextID
	r.nextID++
	r.images[img.ID] = *img
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uint) (*Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, apperrors.NewError(ctx, apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "image not found", nil, "test")
	}
	return &img, nil
}

func (r *fakeRepo) List(_ context.Context) ([]Image, error) {
	out := make([]Image, 0, len(r.images))
	for id := uint(1); id < r.nextID; id++ {
		if img, ok := r.images[id]; ok {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListExcept(ctx context.Context, id uint) ([]Image, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, img := range all {
		if img.ID != id {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.images[id]; !ok {
		return apperrors.NewError(ctx, apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "image not found", nil, "test")
	}
	delete(r.images, id)
	return nil
}

type fakeStorage struct {
	objects   map[string][]byte
	deleteErr error
	deletes   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, "", apperrors.NewError(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeNotFound, "object not found", nil, "test")
	}
	return io.NopCloser(bytes.NewReader(data)), "image/png", nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

type fakeResolver struct {
	vectors     map[string][]float32
	err         error
	invalidated []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{vectors: map[string][]float32{}}
}

func (r *fakeResolver) Resolve(_ context.Context, _, cacheKey string) ([]float32, error) {
	if r.err != nil {
		return nil, r.err
	}
	if vector, ok := r.vectors[cacheKey]; ok {
		return vector, nil
	}
	return []float32{1, 0}, nil
}

func (r *fakeResolver) Invalidate(_ context.Context, cacheKey string) {
	r.invalidated = append(r.invalidated, cacheKey)
}

type fakeQueue struct {
	jobs []embedding.Job
}

func (q *fakeQueue) Enqueue(job embedding.Job) {
	q.jobs = append(q.jobs, job)
}

type serviceFixture struct {
	service  *Service
	repo     *fakeRepo
	storage  *fakeStorage
	resolver *fakeResolver
	queue    *fakeQueue
}

func newServiceFixture() *serviceFixture {
	cfg := &config.Config{
		MaxImageBytes:    1 << 20,
		SimilarLimit:     10,
		SimilarThreshold: 0.8,
	}
	f := &serviceFixture{
		repo:     newFakeRepo(),
		storage:  newFakeStorage(),
		resolver: newFakeResolver(),
		queue:    &fakeQueue{},
	}
	f.service = NewService(cfg, f.repo, f.storage, f.resolver, f.queue, zerolog.Nop())
	return f
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoresRecordPayloadAndJob(t *testing.T) {
	f := newServiceFixture()
	data := testPNG(t)

	img, err := f.service.Upload(context.Background(), 7, "cat.png", "image/png", data)
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if img.ID == 0 {
		t.Error("expected record with assigned id")
	}
	if img.UserID != 7 {
		t.Errorf("user id = %d, want 7", img.UserID)
	}
	if !strings.HasPrefix(img.FilePath, "image/cat-") {
		t.Errorf("storage key %q does not keep the original stem", img.FilePath)
	}
	if !strings.HasSuffix(img.FilePath, ".png") {
		t.Errorf("storage key %q does not keep the extension", img.FilePath)
	}
	if _, ok := f.storage.objects[img.FilePath]; !ok {
		t.Error("payload was not written to storage")
	}
	if len(f.queue.jobs) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(f.queue.jobs))
	}
	job := f.queue.jobs[0]
	if job.ImageID != img.ID {
		t.Errorf("job image id = %d, want %d", job.ImageID, img.ID)
	}
	if job.CacheKey != img.CacheKey() {
		t.Errorf("job cache key = %q, want %q", job.CacheKey, img.CacheKey())
	}
	if !bytes.Equal(job.Data, data) {
		t.Error("job does not carry the uploaded bytes")
	}
}

func TestUploadRejectsDisallowedContentType(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Upload(context.Background(), 1, "notes.txt", "text/plain", []byte("hello"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("got error %v, want VALIDATION", err)
	}
	if f.repo.creates != 0 {
		t.Error("record was created for a rejected upload")
	}
	if len(f.storage.objects) != 0 {
		t.Error("payload was stored for a rejected upload")
	}
	if len(f.queue.jobs) != 0 {
		t.Error("job was enqueued for a rejected upload")
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Upload(context.Background(), 1, "a.png", "image/png", nil)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("got error %v, want VALIDATION", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	f := newServiceFixture()
	f.service.cfg.MaxImageBytes = 10

	_, err := f.service.Upload(context.Background(), 1, "a.png", "image/png", testPNG(t))
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("got error %v, want VALIDATION", err)
	}
}

func TestUploadRejectsMismatchedContent(t *testing.T) {
	f := newServiceFixture()

	// Declared PNG but the payload is plain text.
	_, err := f.service.Upload(context.Background(), 1, "a.png", "image/png", []byte("plain text pretending"))
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("got error %v, want VALIDATION", err)
	}
	if f.repo.creates != 0 {
		t.Error("record was created for a mismatched upload")
	}
}

func TestDownloadMissingBytesIsDependencyMissing(t *testing.T) {
	f := newServiceFixture()
	img, err := f.service.Upload(context.Background(), 1, "a.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	// Simulate the object vanishing from storage.
	delete(f.storage.objects, img.FilePath)

	_, _, _, err = f.service.Download(context.Background(), img.ID)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeDependencyMissing) {
		t.Errorf("got error %v, want DEPENDENCY_MISSING", err)
	}
}

func TestDownloadUnknownImageIsNotFound(t *testing.T) {
	f := newServiceFixture()

	_, _, _, err := f.service.Download(context.Background(), 99)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("got error %v, want NOT_FOUND", err)
	}
}

func TestDeleteCleansUpStorageAndCache(t *testing.T) {
	f := newServiceFixture()
	img, err := f.service.Upload(context.Background(), 1, "a.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if err := f.service.Delete(context.Background(), img.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, ok := f.repo.images[img.ID]; ok {
		t.Error("record still present after delete")
	}
	if len(f.storage.deletes) != 1 || f.storage.deletes[0] != img.FilePath {
		t.Errorf("storage deletes = %v, want [%s]", f.storage.deletes, img.FilePath)
	}
	if len(f.resolver.invalidated) != 1 || f.resolver.invalidated[0] != img.CacheKey() {
		t.Errorf("invalidated = %v, want [%s]", f.resolver.invalidated, img.CacheKey())
	}
}

func TestDeleteSucceedsWhenStorageCleanupFails(t *testing.T) {
	f := newServiceFixture()
	img, err := f.service.Upload(context.Background(), 1, "a.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	f.storage.deleteErr = errors.New("storage down")
	if err := f.service.Delete(context.Background(), img.ID); err != nil {
		t.Fatalf("Delete() should tolerate storage failure, got: %v", err)
	}
	if _, ok := f.repo.images[img.ID]; ok {
		t.Error("record still present after delete")
	}
}

func TestFindSimilarExcludesQueryImage(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		img, err := f.service.Upload(ctx, 1, name, "image/png", testPNG(t))
		if err != nil {
			t.Fatalf("Upload(%s) error: %v", name, err)
		}
		ids = append(ids, img.ID)
	}

	img, matches, err := f.service.FindSimilar(ctx, ids[0], 10, nil)
	if err != nil {
		t.Fatalf("FindSimilar() error: %v", err)
	}
	if img.ID != ids[0] {
		t.Errorf("query image id = %d, want %d", img.ID, ids[0])
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, match := range matches {
		if match.ImageID == ids[0] {
			t.Error("query image appears in its own results")
		}
	}
}

func TestFindSimilarPropagatesResolverFailure(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	img, err := f.service.Upload(ctx, 1, "a.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	f.resolver.err = apperrors.NewError(ctx, apperrors.LayerDomain, apperrors.ErrorTypeDependencyMissing, "bytes gone", nil, "test")

	_, _, err = f.service.FindSimilar(ctx, img.ID, 10, nil)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeDependencyMissing) {
		t.Errorf("got error %v, want DEPENDENCY_MISSING", err)
	}
}

func TestFindSimilarAppliesThreshold(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	query, err := f.service.Upload(ctx, 1, "q.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	near, err := f.service.Upload(ctx, 1, "near.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	far, err := f.service.Upload(ctx, 1, "far.png", "image/png", testPNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	f.resolver.vectors[query.CacheKey()] = []float32{1, 0}
	f.resolver.vectors[near.CacheKey()] = []float32{1, 0.1}
	f.resolver.vectors[far.CacheKey()] = []float32{0, 1}

	threshold := 0.9
	_, matches, err := f.service.FindSimilar(ctx, query.ID, 10, &threshold)
	if err != nil {
		t.Fatalf("FindSimilar() error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].ImageID != near.ID {
		t.Errorf("got image %d, want %d", matches[0].ImageID, near.ID)
	}
}
