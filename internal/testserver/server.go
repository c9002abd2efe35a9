// ABOUTME: In-memory fake of the Mythic Companions API for tests
// ABOUTME: Serves the real routes over httptest with seeded users, companions and items

package testserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

// Seeded fixtures
const (
	Username  = "ash"
	Password  = "pikachu"
	Email     = "ash@example.com"
	UserID    = int64(1)
	Role      = "USER"
	Companion = int64(10)
	Apple     = int64(100)
	Sword     = int64(101)
)

// Server is a fake API. All fields are guarded by mu; use the accessor
// methods from tests.
type Server struct {
	*httptest.Server

	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time

	mu         sync.Mutex
	users      map[string]*user
	companions map[int64]*client.Companion
	owners     map[int64]int64
	inventory  map[int64][]client.InventoryItem
	species    []client.Species
	questions  []client.Question
	reward     client.GameResult
	nextID     int64
	issued     map[string]struct{}
	failures   map[string]failure
	calls      map[string]int
	uploads    []string
}

type user struct {
	id           int64
	passwordHash []byte
	profile      client.UserProfile
}

type failure struct {
	status int
	body   string
}

// Option adjusts a Server before it starts
type Option func(*Server)

// WithTokenTTL sets the lifetime of issued tokens (default one hour)
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithQuestions replaces the seeded quiz questions
func WithQuestions(q []client.Question) Option {
	return func(s *Server) { s.questions = q }
}

// New starts a seeded server that shuts down when the test ends
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte("test-signing-secret"),
		tokenTTL: time.Hour,
		now:      time.Now,
		failures: make(map[string]failure),
		calls:    make(map[string]int),
		issued:   make(map[string]struct{}),
	}
	s.seed()
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) seed() {
	s.users = map[string]*user{
		Username: {
			id:           UserID,
			passwordHash: mustHash(Password),
			profile:      client.UserProfile{ID: UserID, Username: Username, Email: Email},
		},
	}
	s.species = []client.Species{
		{ID: 1, Name: "Pikachu", Universe: "Pokemon"},
		{ID: 2, Name: "Charmander", Universe: "Pokemon"},
		{ID: 3, Name: "Grogu", Universe: "Star Wars"},
	}
	s.companions = map[int64]*client.Companion{
		Companion: {
			ID: Companion, Name: "Sparky", SpeciesName: "Pikachu", Universe: "Pokemon",
			Health: 90, Hunger: 50, Energy: 60, Happiness: 70, Hygiene: 80, Skill: 5,
			SpeciesAssets: map[string]string{
				"image_default":                   "pikachu.png",
				"image_weapon_Master_Sword":       "pikachu_sword.png",
				"video_action_feed":               "pikachu_feed.mp4",
				"video_action_train_Master_Sword": "pikachu_train_sword.mp4",
			},
		},
	}
	s.owners = map[int64]int64{Companion: UserID}
	s.inventory = map[int64][]client.InventoryItem{
		UserID: {
			{InventoryItemID: Apple, Quantity: 3, Item: client.Item{ID: 1, Name: "Apple", ItemType: client.ItemConsumable, Rarity: "COMMON", HungerBonus: 20}},
			{InventoryItemID: Sword, Quantity: 1, Item: client.Item{ID: 2, Name: "Master Sword", ItemType: client.ItemWeapon, Rarity: "LEGENDARY"}},
		},
	}
	s.questions = []client.Question{
		{QuestionText: "What type is Pikachu?", Options: []string{"Fire", "Electric", "Water", "Grass"}, CorrectAnswer: "Electric", Universe: "Pokemon"},
		{QuestionText: "Who is Ash's first Pokemon?", Options: []string{"Pikachu", "Eevee", "Bulbasaur", "Squirtle"}, CorrectAnswer: "Pikachu", Universe: "Pokemon"},
	}
	s.reward = client.GameResult{
		Message: "Great job! Your companion earned a reward.",
		ItemsAwarded: []client.InventoryItem{
			{InventoryItemID: Apple, Quantity: 1, Item: client.Item{ID: 1, Name: "Apple", ItemType: client.ItemConsumable}},
		},
	}
	s.nextID = 1000
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.inject)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/users/me", s.handleProfile)
		r.Put("/api/users/me", s.handleUpdateEmail)
		r.Post("/api/users/me/upload-picture", s.handleUpload)
		r.Delete("/api/users/me/profile-picture", s.handleRemovePicture)
		r.Post("/api/users/change-password", s.handleChangePassword)

		r.Get("/api/species", s.handleSpecies)
		r.Post("/api/companions", s.handleCreateCompanion)
		r.Get("/api/companions/owner/{userId}", s.handleCompanionsByOwner)
		r.Route("/api/companions/{id}", func(r chi.Router) {
			r.Get("/", s.handleCompanion)
			r.Delete("/", s.handleDeleteCompanion)
			r.Put("/interact", s.handleInteract)
			r.Post("/equip/{inventoryItemId}", s.handleEquip)
		})

		r.Get("/api/inventory", s.handleInventory)
		r.Post("/api/inventory/use/{inventoryItemId}", s.handleUseItem)

		r.Get("/api/game/quiz/questions/{companionId}", s.handleQuestions)
		r.Post("/api/game/complete-minigame", s.handleCompleteMinigame)
	})
	return r
}

// Fail makes the next matching request return status with body as a plain
// text message. The failure is consumed by the first match.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Calls returns how many requests were made to method and path
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// RevokeTokens invalidates every token issued so far
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = make(map[string]struct{})
}

// CompanionState returns a copy of a stored companion
func (s *Server) CompanionState(id int64) (client.Companion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companions[id]
	if !ok {
		return client.Companion{}, false
	}
	return *c, true
}

// UpdateCompanion mutates a stored companion
func (s *Server) UpdateCompanion(id int64, fn func(*client.Companion)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.companions[id]; ok {
		fn(c)
	}
}

// UserProfile returns the stored profile for username
func (s *Server) UserProfile(username string) (client.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return client.UserProfile{}, false
	}
	return u.profile, true
}

// Uploads returns the file names received as profile pictures
func (s *Server) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		f, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()
		if ok {
			writeError(w, f.body, f.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}
