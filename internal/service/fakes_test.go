package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fyntrix/otpauth/internal/models"
)

type fixedCodes struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (f *fixedCodes) Generate() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codes) == 0 {
		return "", errors.New("no codes left")
	}
	code := f.codes[f.next%len(f.codes)]
	f.next++
	return code, nil
}

type sentMessage struct {
	destination string
	message     string
	deadline    time.Time
}

type recordingGateway struct {
	mu     sync.Mutex
	sent   []sentMessage
	err    error
	panic  bool
	onSend func()
}

func (g *recordingGateway) Send(ctx context.Context, destination, message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	deadline, _ := ctx.Deadline()
	g.sent = append(g.sent, sentMessage{destination: destination, message: message, deadline: deadline})
	if g.onSend != nil {
		g.onSend()
	}
	if g.panic {
		panic("gateway exploded")
	}
	return g.err
}

// memorySessions mimics the Redis store: Update reads a snapshot, runs fn
// without holding the lock and commits only if the session was not written
// in between, retrying otherwise.
type memorySessions struct {
	mu        sync.Mutex
	sessions  map[string]models.LoginSession
	versions  map[string]int
	saveErr   error
	conflicts int
	now       func() time.Time
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		sessions: map[string]models.LoginSession{},
		versions: map[string]int{},
		now:      time.Now,
	}
}

func copySession(s models.LoginSession) models.LoginSession {
	s.History = append([]models.ChallengeRecord(nil), s.History...)
	return s
}

func (m *memorySessions) Save(_ context.Context, s *models.LoginSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.ID] = copySession(*s)
	m.versions[s.ID]++
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*models.LoginSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := copySession(s)
	return &cp, nil
}

func (m *memorySessions) Update(_ context.Context, id string, fn func(*models.LoginSession) (bool, error)) error {
	for {
		m.mu.Lock()
		version := m.versions[id]
		var session *models.LoginSession
		if s, ok := m.sessions[id]; ok {
			cp := copySession(s)
			session = &cp
		}
		m.mu.Unlock()

		keep, err := fn(session)
		if err != nil {
			return err
		}

		m.mu.Lock()
		if m.versions[id] != version {
			m.conflicts++
			m.mu.Unlock()
			continue
		}
		if keep && session != nil {
			if !session.ExpiresAt.After(m.now()) {
				m.mu.Unlock()
				return fmt.Errorf("%w: %s", models.ErrSessionExpired, id)
			}
			m.sessions[id] = copySession(*session)
		} else {
			delete(m.sessions, id)
		}
		m.versions[id]++
		m.mu.Unlock()
		return nil
	}
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	m.versions[id]++
	return nil
}

type memoryUsers struct {
	users   map[string]*models.User
	created int
}

func newMemoryUsers(phones ...string) *memoryUsers {
	m := &memoryUsers{users: map[string]*models.User{}}
	for _, p := range phones {
		m.users[p] = &models.User{PhoneNumber: p}
	}
	return m
}

func (m *memoryUsers) GetByPhoneNumber(_ context.Context, phoneNumber string) (*models.User, error) {
	return m.users[phoneNumber], nil
}

func (m *memoryUsers) GetOrCreate(ctx context.Context, phoneNumber string) (*models.User, error) {
	if u := m.users[phoneNumber]; u != nil {
		return u, nil
	}
	m.created++
	m.users[phoneNumber] = &models.User{PhoneNumber: phoneNumber}
	return m.users[phoneNumber], nil
}

type stubTokens struct {
	mu        sync.Mutex
	issuedFor []string
}

func (s *stubTokens) IssueTokens(phoneNumber string) (*models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuedFor = append(s.issuedFor, phoneNumber)
	return &models.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}, nil
}
