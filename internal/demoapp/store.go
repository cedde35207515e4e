package demoapp

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Deal is one roaming agreement in the repository.
type Deal struct {
	ID       int
	Partner  string
	Operator string
	Status   string
	Notes    string
	SavedAt  time.Time
}

// Account is a user listed in the admin panel.
type Account struct {
	Username    string
	Name        string
	Permissions []string
}

// Permission is an assignable admin permission.
type Permission struct {
	Value string
	Label string
}

var permissions = []Permission{
	{Value: "40", Label: "Repository viewer"},
	{Value: "41", Label: "Deal approver"},
	{Value: "42", Label: "Budget viewer"},
	{Value: "43", Label: "Repository admin"},
}

func permissionLabel(value string) string {
	for _, p := range permissions {
		if p.Value == value {
			return p.Label
		}
	}
	return ""
}

// store is the in-memory state behind the demo application.
type store struct {
	mu        sync.Mutex
	passwords map[string]string
	sessions  map[string]string
	accounts  map[string]*Account
	deals     map[int]*Deal
	nextDeal  int
}

func newStore(users map[string]string) *store {
	s := &store{
		passwords: make(map[string]string, len(users)),
		sessions:  make(map[string]string),
		accounts:  make(map[string]*Account),
		deals:     make(map[int]*Deal),
		nextDeal:  700,
	}
	for u, p := range users {
		s.passwords[u] = p
	}
	for _, a := range []Account{
		{Username: "shikder", Name: "Shikder Rahman"},
		{Username: "alice", Name: "Alice Moreau"},
		{Username: "bob", Name: "Bob Okafor", Permissions: []string{"40"}},
	} {
		a := a
		s.accounts[a.Username] = &a
	}
	for _, d := range []Deal{
		{ID: 680, Partner: "Orange", Operator: "Orange Caraibe", Status: "active"},
		{ID: 681, Partner: "Vodafone", Operator: "Vodafone UK", Status: "active"},
		{ID: 682, Partner: "Digicel Limited", Operator: "Digicel Jamaica", Status: "draft",
			Notes: "**Renewal** pending review.\n\n- IOT rates attached\n- Awaiting signature"},
	} {
		d := d
		s.deals[d.ID] = &d
	}
	return s
}

// login checks credentials and opens a session.
func (s *store) login(username, password string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want, ok := s.passwords[username]
	if !ok || want != password {
		return "", false
	}
	id := uuid.NewString()
	s.sessions[id] = username
	return id, true
}

func (s *store) sessionUser(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.sessions[id]
	return u, ok
}

func (s *store) searchAccounts(q string) []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	q = strings.ToLower(strings.TrimSpace(q))
	var out []Account
	for _, a := range s.accounts {
		if q == "" || strings.Contains(strings.ToLower(a.Username), q) || strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *store) account(username string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		return Account{}, false
	}
	cp := *a
	cp.Permissions = slices.Clone(a.Permissions)
	return cp, true
}

// grant adds perm to username; granting twice is a no-op.
func (s *store) grant(username, perm string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok || permissionLabel(perm) == "" {
		return false
	}
	if !slices.Contains(a.Permissions, perm) {
		a.Permissions = append(a.Permissions, perm)
	}
	return true
}

func (s *store) listDeals(status string) []Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Deal
	for _, d := range s.deals {
		if status == "" || d.Status == status {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) deal(id int) (Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok {
		return Deal{}, false
	}
	return *d, true
}

func (s *store) createDeal(partner, operator string, now time.Time) Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &Deal{ID: s.nextDeal, Partner: partner, Operator: operator, Status: "draft", SavedAt: now}
	s.deals[d.ID] = d
	s.nextDeal++
	return *d
}

func (s *store) saveDeal(id int, now time.Time) (Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok {
		return Deal{}, false
	}
	d.SavedAt = now
	return *d, true
}
