package controllers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/ai"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) Create(user *models.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByActivationToken(token string) (*models.User, error) {
	for _, u := range f.users {
		if u.ActivationToken == token && token != "" {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error) {
	return nil, nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count() (int64, error) {
	return int64(len(f.users)), nil
}

type fakeSubscriptionRepo struct {
	tier     entitlements.Tier
	err      error
	upserted *models.Subscription
}

func (f *fakeSubscriptionRepo) GetByUserID(userID uint) (*models.Subscription, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubscriptionRepo) Upsert(sub *models.Subscription) error {
	f.upserted = sub
	return nil
}

func (f *fakeSubscriptionRepo) EnsureDefault(userID uint) (*models.Subscription, error) {
	return &models.Subscription{UserID: userID, Tier: string(entitlements.TierFree)}, nil
}

func (f *fakeSubscriptionRepo) EffectiveTier(userID uint) (entitlements.Tier, error) {
	if f.err != nil {
		return entitlements.TierFree, f.err
	}
	return f.tier, nil
}

type usageKey struct {
	userID  uint
	feature entitlements.FeatureKey
	period  time.Time
}

type fakeUsageRepo struct {
	mu           sync.Mutex
	counts       map[usageKey]int64
	incrementErr error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{counts: make(map[usageKey]int64)}
}

func (f *fakeUsageRepo) CountFor(userID uint, feature entitlements.FeatureKey, periodStart time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[usageKey{userID, feature, periodStart}], nil
}

func (f *fakeUsageRepo) Increment(userID uint, feature entitlements.FeatureKey, periodStart time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	k := usageKey{userID, feature, periodStart}
	f.counts[k]++
	return f.counts[k], nil
}

func (f *fakeUsageRepo) CountsFor(userID uint, periodStart time.Time) (map[entitlements.FeatureKey]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[entitlements.FeatureKey]int64)
	for k, v := range f.counts {
		if k.userID == userID && k.period.Equal(periodStart) {
			out[k.feature] = v
		}
	}
	return out, nil
}

func (f *fakeUsageRepo) ListByUser(userID uint) ([]models.UsageRecord, error) {
	return nil, nil
}

func (f *fakeUsageRepo) total(userID uint, feature entitlements.FeatureKey) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for k, v := range f.counts {
		if k.userID == userID && k.feature == feature {
			sum += v
		}
	}
	return sum
}

type fakeAnalysisRepo struct {
	mu        sync.Mutex
	documents []*models.DocumentAnalysis
	dna       []*models.DNAAnalysis
	photos    []*models.PhotoAnalysis
	research  []*models.ResearchQuery
	createErr error
}

func (f *fakeAnalysisRepo) CreateDocumentAnalysis(a *models.DocumentAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.documents = append(f.documents, a)
	return nil
}

func (f *fakeAnalysisRepo) GetDocumentAnalysisByUUID(uuid string) (*models.DocumentAnalysis, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnalysisRepo) ListDocumentAnalyses(userID uint, offset, limit int) ([]models.DocumentAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DocumentAnalysis
	for _, a := range f.documents {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnalysisRepo) CreateDNAAnalysis(a *models.DNAAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.dna = append(f.dna, a)
	return nil
}

func (f *fakeAnalysisRepo) GetDNAAnalysisByUUID(uuid string) (*models.DNAAnalysis, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnalysisRepo) ListDNAAnalyses(userID uint, offset, limit int) ([]models.DNAAnalysis, error) {
	return nil, nil
}

func (f *fakeAnalysisRepo) CreatePhotoAnalysis(a *models.PhotoAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.photos = append(f.photos, a)
	return nil
}

func (f *fakeAnalysisRepo) GetPhotoAnalysisByUUID(uuid string) (*models.PhotoAnalysis, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnalysisRepo) ListPhotoAnalyses(userID uint, offset, limit int) ([]models.PhotoAnalysis, error) {
	return nil, nil
}

func (f *fakeAnalysisRepo) CreateResearchQuery(q *models.ResearchQuery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.research = append(f.research, q)
	return nil
}

func (f *fakeAnalysisRepo) GetResearchQueryByUUID(uuid string) (*models.ResearchQuery, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnalysisRepo) ListResearchQueries(userID uint, offset, limit int) ([]models.ResearchQuery, error) {
	return nil, nil
}

type fakeTreeRepo struct {
	mu      sync.Mutex
	nextID  uint
	trees   map[uint]*models.FamilyTree
	persons map[uint]*models.Person
}

func newFakeTreeRepo() *fakeTreeRepo {
	return &fakeTreeRepo{trees: make(map[uint]*models.FamilyTree), persons: make(map[uint]*models.Person)}
}

func (f *fakeTreeRepo) Create(tree *models.FamilyTree) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	tree.ID = f.nextID
	f.trees[tree.ID] = tree
	return nil
}

func (f *fakeTreeRepo) GetByID(id uint) (*models.FamilyTree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.trees[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTreeRepo) GetByUUID(uuid string) (*models.FamilyTree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trees {
		if t.UUID == uuid {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTreeRepo) ListByUser(userID uint) ([]models.FamilyTree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FamilyTree
	for _, t := range f.trees {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTreeRepo) Update(tree *models.FamilyTree) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trees[tree.ID] = tree
	return nil
}

func (f *fakeTreeRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.trees, id)
	for pid, p := range f.persons {
		if p.TreeID == id {
			delete(f.persons, pid)
		}
	}
	return nil
}

func (f *fakeTreeRepo) CountByUserID(userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.trees {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTreeRepo) CreatePerson(person *models.Person) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	person.ID = f.nextID
	f.persons[person.ID] = person
	return nil
}

func (f *fakeTreeRepo) GetPerson(id uint) (*models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.persons[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTreeRepo) ListPersons(treeID uint) ([]models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Person
	for _, p := range f.persons {
		if p.TreeID == treeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeTreeRepo) UpdatePerson(person *models.Person) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persons[person.ID] = person
	return nil
}

func (f *fakeTreeRepo) DeletePerson(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.persons, id)
	return nil
}

// toolTestEnv wires fakes into the global repositories and the tool
// controller dependencies for one test.
type toolTestEnv struct {
	users    *fakeUserRepo
	subs     *fakeSubscriptionRepo
	usage    *fakeUsageRepo
	analysis *fakeAnalysisRepo
	trees    *fakeTreeRepo
	aiServer *httptest.Server
}

func newToolTestEnv(t *testing.T, tier entitlements.Tier, aiHandler http.HandlerFunc) *toolTestEnv {
	t.Helper()

	if aiHandler == nil {
		aiHandler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"content": [{"type": "text", "text": "analysis result"}],
				"model": "test-model",
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 12, "output_tokens": 34}
			}`))
		}
	}
	srv := httptest.NewServer(aiHandler)
	t.Cleanup(srv.Close)

	env := &toolTestEnv{
		users:    &fakeUserRepo{users: make(map[uint]*models.User)},
		subs:     &fakeSubscriptionRepo{tier: tier},
		usage:    newFakeUsageRepo(),
		analysis: &fakeAnalysisRepo{},
		trees:    newFakeTreeRepo(),
		aiServer: srv,
	}

	repository.SetGlobalRepositories(&repository.Repositories{
		User:         env.users,
		Subscription: env.subs,
		Usage:        env.usage,
		Analysis:     env.analysis,
		Tree:         env.trees,
	})
	client := &ai.Client{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "test-model",
		MaxTokens:  256,
		HTTPClient: srv.Client(),
	}
	SetToolDependencies(client, entitlements.NewService(env.subs, env.usage))
	return env
}

// withUser injects a logged-in user context the way the session middleware
// would before invoking the handler.
func withUser(userID uint, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usercontext.Set(c, usercontext.UserContext{
			UserID:     userID,
			Username:   "tester",
			IsLoggedIn: userID != 0,
		})
		return handler(c)
	}
}

func newDocumentUploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

var errStoreDown = errors.New("store down")
