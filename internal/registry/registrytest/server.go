// Package registrytest provides an in-memory Pick Me Up API for tests.
package registrytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/five82/pickup/internal/registry"
)

// Patch records one availability PATCH received by the server.
type Patch struct {
	ItemID       int64
	UserID       int64
	Availability bool
	RequestID    string
}

type account struct {
	user     registry.User
	password string
}

// Server is a fake registry backed by maps. The zero value is not usable; use
// New.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	items       map[int64]registry.Item
	accounts    map[int64]account
	comments    map[int64][]registry.Comment
	patches     []Patch
	patchStatus int
	patchDelay  time.Duration
	failStatus  map[string]int
	listGate    *gate
	nextID      int64
	now         func() time.Time
}

// New starts a fake registry and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		items:      make(map[int64]registry.Item),
		accounts:   make(map[int64]account),
		comments:   make(map[int64][]registry.Comment),
		failStatus: make(map[string]int),
		nextID:     100,
		now:        time.Now,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", s.handleGetUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", s.handleUpdateUser).Methods(http.MethodPatch)
	r.HandleFunc("/items", s.handleListItems).Methods(http.MethodGet)
	r.HandleFunc("/items", s.handleCreateItem).Methods(http.MethodPost)
	r.HandleFunc("/items/user/{id:[0-9]+}", s.handleUserItems).Methods(http.MethodGet)
	r.HandleFunc("/items/{id:[0-9]+}", s.handlePatchItem).Methods(http.MethodPatch)
	r.HandleFunc("/comments", s.handleListComments).Methods(http.MethodGet)
	r.HandleFunc("/comments", s.handlePostComment).Methods(http.MethodPost)
	r.Use(s.failureMiddleware)
	return r
}

// AddItem seeds an item. A zero ID is assigned by the server.
func (s *Server) AddItem(item registry.Item) registry.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.allocID()
	}
	if item.CreatedAt == "" {
		item.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	s.items[item.ID] = item
	return item
}

// AddUser seeds an account and returns its id.
func (s *Server) AddUser(email, username, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.accounts[id] = account{
		user:     registry.User{ID: id, Email: email, Username: username},
		password: password,
	}
	return id
}

// Item returns the stored copy of an item.
func (s *Server) Item(id int64) (registry.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

// Patches returns the availability PATCH requests received so far.
func (s *Server) Patches() []Patch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Patch, len(s.patches))
	copy(out, s.patches)
	return out
}

// FailPatches makes every availability PATCH answer with status. Zero
// restores normal behaviour.
func (s *Server) FailPatches(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchStatus = status
}

// DelayPatches holds every availability PATCH for d before answering.
func (s *Server) DelayPatches(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchDelay = d
}

// FailPath makes every request whose path starts with prefix answer with
// status. Zero clears the rule.
func (s *Server) FailPath(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failStatus, prefix)
		return
	}
	s.failStatus[prefix] = status
}

type gate struct {
	taken   chan struct{}
	release chan struct{}
	once    sync.Once
}

// GateListing makes the next GET /items take its snapshot, close taken, and
// hold the response until release is called. release is safe to call more
// than once.
func (s *Server) GateListing() (taken <-chan struct{}, release func()) {
	g := &gate{taken: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.listGate = g
	s.mu.Unlock()
	return g.taken, func() { g.once.Do(func() { close(g.release) }) }
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := 0
		for prefix, code := range s.failStatus {
			if strings.HasPrefix(r.URL.Path, prefix) {
				status = code
			}
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, acct := range s.accounts {
		if acct.user.Email == req.Email && acct.password == req.Password {
			writeJSON(w, http.StatusOK, map[string]int64{"user_id": id})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invalid email or password"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.Email == req.Email {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`pq: duplicate key value violates unique constraint "users_email_key"`))
			return
		}
	}
	id := s.allocID()
	s.accounts[id] = account{
		user:     registry.User{ID: id, Email: req.Email, Username: req.Username},
		password: req.Password,
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"user_id": id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	acct, ok := s.accounts[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]registry.User{"user": acct.user})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if queryID(r, "user_id") != id {
		writeError(w, http.StatusForbidden, "not your account")
		return
	}
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	acct.user.Email = req.Email
	acct.user.Username = req.Username
	s.accounts[id] = acct
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items := s.collect(func(registry.Item) bool { return true })

	s.mu.Lock()
	g := s.listGate
	s.listGate = nil
	s.mu.Unlock()
	if g != nil {
		close(g.taken)
		select {
		case <-g.release:
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUserItems(w http.ResponseWriter, r *http.Request) {
	owner := pathID(r)
	items := s.collect(func(item registry.Item) bool { return item.OwnerID == owner })
	writeJSON(w, http.StatusOK, map[string][]registry.Item{"items": items})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req registry.NewItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Details == "" {
		writeError(w, http.StatusBadRequest, "title and details required")
		return
	}
	item := s.AddItem(registry.Item{
		OwnerID:      req.OwnerID,
		Title:        req.Title,
		Details:      req.Details,
		ImageURL:     req.ImageURL,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		IsGeneral:    req.IsGeneral,
		Availability: req.Availability,
	})
	writeJSON(w, http.StatusCreated, map[string]registry.Item{"item": item})
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	userID := queryID(r, "user_id")
	var req struct {
		Availability *bool `json:"availability"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Availability == nil {
		writeError(w, http.StatusBadRequest, "availability required")
		return
	}

	s.mu.Lock()
	s.patches = append(s.patches, Patch{
		ItemID:       id,
		UserID:       userID,
		Availability: *req.Availability,
		RequestID:    r.Header.Get("X-Request-ID"),
	})
	delay := s.patchDelay
	status := s.patchStatus
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		writeError(w, status, "patch rejected")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.OwnerID != userID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}
	item.Availability = *req.Availability
	s.items[id] = item
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	itemID := queryID(r, "item_id")
	s.mu.Lock()
	comments := append([]registry.Comment{}, s.comments[itemID]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string][]registry.Comment{"comment": comments})
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   string `json:"comment_text"`
		UserID int64  `json:"user_id"`
		ItemID int64  `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "comment_text required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	comment := registry.Comment{
		ID:        s.allocID(),
		ItemID:    req.ItemID,
		UserID:    req.UserID,
		Username:  s.accounts[req.UserID].user.Username,
		Text:      req.Text,
		CreatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	s.comments[req.ItemID] = append(s.comments[req.ItemID], comment)
	writeJSON(w, http.StatusCreated, map[string]registry.Comment{"comment": comment})
}

func (s *Server) collect(keep func(registry.Item) bool) []registry.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]registry.Item, 0, len(s.items))
	for _, item := range s.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
