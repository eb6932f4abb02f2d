package services

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/storage"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// memRepo is an in-memory database.Repository. Image positions are unique per product,
// like the product_images constraint.
type memRepo struct {
	settings map[string]tables.SiteSetting
	products map[uuid.UUID]tables.Product
	images   map[uuid.UUID]tables.ProductImage
	artists  map[uuid.UUID]tables.Artist
	profiles map[uuid.UUID]tables.PaymentProfile
	users    map[uuid.UUID]tables.User
	seq      int

	// artistWriteErr, when set, fails CreateArtist and UpdateArtist.
	artistWriteErr error
	// imageWriteErrs fail the next CreateImage calls, one error per call. A nil entry lets the call through.
	imageWriteErrs []error
	// txRetries is how often a failed transaction is run again.
	txRetries int
}

var _ database.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		settings: map[string]tables.SiteSetting{},
		products: map[uuid.UUID]tables.Product{},
		images:   map[uuid.UUID]tables.ProductImage{},
		artists:  map[uuid.UUID]tables.Artist{},
		profiles: map[uuid.UUID]tables.PaymentProfile{},
		users:    map[uuid.UUID]tables.User{},
	}
}

// tick hands out strictly increasing timestamps so ordering by created_at is stable.
func (m *memRepo) tick() time.Time {
	m.seq++
	return time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func (m *memRepo) GetSetting(_ context.Context, key string) (*tables.SiteSetting, error) {
	s, ok := m.settings[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memRepo) PutSetting(_ context.Context, setting *tables.SiteSetting) error {
	setting.UpdatedAt = m.tick()
	m.settings[setting.Key] = *setting
	return nil
}

func (m *memRepo) DeleteSetting(_ context.Context, key string) error {
	delete(m.settings, key)
	return nil
}

func (m *memRepo) ListProducts(_ context.Context, limit int) ([]tables.Product, error) {
	out := []tables.Product{}
	for _, p := range m.products {
		if p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPublished() != out[j].IsPublished() {
			return out[i].IsPublished()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) FindProduct(_ context.Context, id uuid.UUID) (*tables.Product, error) {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, lib.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) CreateProduct(_ context.Context, product *tables.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = m.tick()
	product.UpdatedAt = product.CreatedAt
	m.products[product.ID] = *product
	return nil
}

func (m *memRepo) UpdateProduct(_ context.Context, product *tables.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return lib.ErrNotFound
	}
	product.UpdatedAt = m.tick()
	m.products[product.ID] = *product
	return nil
}

func (m *memRepo) SoftDeleteProduct(_ context.Context, id uuid.UUID) error {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return lib.ErrNotFound
	}
	now := m.tick()
	p.DeletedAt = &now
	m.products[id] = p
	return nil
}

func (m *memRepo) ListImages(_ context.Context, productID uuid.UUID) ([]tables.ProductImage, error) {
	out := []tables.ProductImage{}
	for _, img := range m.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memRepo) positionTaken(productID uuid.UUID, position int, except uuid.UUID) bool {
	for _, img := range m.images {
		if img.ProductID == productID && img.Position == position && img.ID != except {
			return true
		}
	}
	return false
}

func (m *memRepo) CreateImage(_ context.Context, image *tables.ProductImage) error {
	if len(m.imageWriteErrs) > 0 {
		err := m.imageWriteErrs[0]
		m.imageWriteErrs = m.imageWriteErrs[1:]
		if err != nil {
			return err
		}
	}
	if image.Position < 1 || image.Position > tables.MaxProductImages {
		return fmt.Errorf("position %d out of range", image.Position)
	}
	if m.positionTaken(image.ProductID, image.Position, image.ID) {
		return lib.ErrConflict
	}
	image.CreatedAt = m.tick()
	m.images[image.ID] = *image
	return nil
}

func (m *memRepo) UpdateImageAlt(_ context.Context, productID, imageID uuid.UUID, altText string) error {
	img, ok := m.images[imageID]
	if !ok || img.ProductID != productID {
		return lib.ErrNotFound
	}
	img.AltText = altText
	m.images[imageID] = img
	return nil
}

func (m *memRepo) UpdateImagePosition(_ context.Context, imageID uuid.UUID, position int) error {
	img, ok := m.images[imageID]
	if !ok {
		return lib.ErrNotFound
	}
	if m.positionTaken(img.ProductID, position, imageID) {
		return lib.ErrConflict
	}
	img.Position = position
	m.images[imageID] = img
	return nil
}

func (m *memRepo) DeleteImage(_ context.Context, productID, imageID uuid.UUID) error {
	img, ok := m.images[imageID]
	if !ok || img.ProductID != productID {
		return lib.ErrNotFound
	}
	delete(m.images, imageID)
	return nil
}

func (m *memRepo) ListArtists(_ context.Context, visibleOnly bool, limit int) ([]tables.Artist, error) {
	out := []tables.Artist{}
	for _, a := range m.artists {
		if visibleOnly && !a.IsVisible {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := out[i].DisplayOrder, out[j].DisplayOrder
		switch {
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) FindArtist(_ context.Context, id uuid.UUID) (*tables.Artist, error) {
	a, ok := m.artists[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &a, nil
}

func (m *memRepo) CreateArtist(_ context.Context, artist *tables.Artist) error {
	if m.artistWriteErr != nil {
		return m.artistWriteErr
	}
	if artist.ID == uuid.Nil {
		artist.ID = uuid.New()
	}
	artist.CreatedAt = m.tick()
	m.artists[artist.ID] = *artist
	return nil
}

func (m *memRepo) UpdateArtist(_ context.Context, artist *tables.Artist) error {
	if m.artistWriteErr != nil {
		return m.artistWriteErr
	}
	if _, ok := m.artists[artist.ID]; !ok {
		return lib.ErrNotFound
	}
	m.artists[artist.ID] = *artist
	return nil
}

func (m *memRepo) DeleteArtist(_ context.Context, id uuid.UUID) error {
	if _, ok := m.artists[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.artists, id)
	return nil
}

func (m *memRepo) FindPaymentProfile(_ context.Context, userID uuid.UUID) (*tables.PaymentProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRepo) UpsertPaymentProfile(_ context.Context, profile *tables.PaymentProfile) error {
	if existing, ok := m.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	m.profiles[profile.UserID] = *profile
	return nil
}

func (m *memRepo) FindUserByEmail(_ context.Context, email string) (*tables.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *memRepo) FindUserByID(_ context.Context, id uuid.UUID) (*tables.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &u, nil
}

func (m *memRepo) CreateUser(_ context.Context, user *tables.User) error {
	user.Email = strings.ToLower(user.Email)
	m.users[user.Id] = *user
	return nil
}

func (m *memRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return lib.ErrNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func (m *memRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return lib.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

// Transaction restores every table when fn fails, like a rolled back database transaction,
// and runs fn again up to txRetries times.
func (m *memRepo) Transaction(ctx context.Context, fn func(ctx context.Context, tx database.Repository) error) error {
	var err error
	for attempt := 0; attempt <= m.txRetries; attempt++ {
		settings, products, images := maps.Clone(m.settings), maps.Clone(m.products), maps.Clone(m.images)
		artists, profiles, users := maps.Clone(m.artists), maps.Clone(m.profiles), maps.Clone(m.users)

		if err = fn(ctx, m); err == nil {
			return nil
		}
		m.settings, m.products, m.images = settings, products, images
		m.artists, m.profiles, m.users = artists, profiles, users
	}
	return err
}

// memSessions is a SessionStore that round-trips values through JSON like the Redis one.
type memSessions struct {
	records map[string][]byte
}

var _ SessionStore = (*memSessions)(nil)

func newMemSessions() *memSessions {
	return &memSessions{records: map[string][]byte{}}
}

func memSessionKey(userID uuid.UUID, name string) string {
	return userID.String() + ":" + name
}

func (s *memSessions) Load(_ context.Context, userID uuid.UUID, name string, dest any) (bool, error) {
	data, ok := s.records[memSessionKey(userID, name)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (s *memSessions) Save(_ context.Context, userID uuid.UUID, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.records[memSessionKey(userID, name)] = data
	return nil
}

func (s *memSessions) Forget(_ context.Context, userID uuid.UUID, name string) error {
	delete(s.records, memSessionKey(userID, name))
	return nil
}

type testEnv struct {
	repo     *memRepo
	sessions *memSessions
	disk     *storage.Disk
	settings *SettingService
	products *ProductService
	artists  *ArtistService
	home     *HomeService
	payments *PaymentService
	notifier *recordingNotifier
}

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) SendPaymentProfileSaved(_ context.Context, to string, _ *tables.PaymentProfile) error {
	n.sent = append(n.sent, to)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{Storage: &structs.StorageConfig{MaxUploadSize: 1 << 20}}

	env := &testEnv{
		repo:     newMemRepo(),
		sessions: newMemSessions(),
		disk:     storage.NewDisk(afero.NewMemMapFs(), "/storage"),
		notifier: &recordingNotifier{},
	}
	env.settings = NewSettingService(logger, env.repo)
	env.products = NewProductService(logger, cfg, env.repo, env.settings, env.sessions, env.disk)
	env.artists = NewArtistService(logger, cfg, env.repo, env.sessions, env.disk)
	env.home = NewHomeService(logger, env.repo, env.settings, env.disk)
	env.payments = NewPaymentService(logger, env.repo, env.settings, env.sessions, env.notifier)
	return env
}

func (e *testEnv) writeFile(t *testing.T, path string) {
	t.Helper()
	if err := e.disk.Write(path, pngBytes); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func pngUploads(n int) []storage.Upload {
	uploads := make([]storage.Upload, n)
	for i := range uploads {
		uploads[i] = storage.Upload{Name: fmt.Sprintf("photo-%d.png", i), Data: pngBytes}
	}
	return uploads
}

func intPtr(v int) *int { return &v }
