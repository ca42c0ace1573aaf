// Package memory holds what is known about a user across runs: profile, analysed documents and past questions.
package memory

import (
	"strings"
	"sync"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
)

// maxHistory bounds the number of recent documents and stored queries kept per user.
const maxHistory = 10

// Profile identifies a user.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserData is the memory context of a user.
type UserData struct {
	UserID          string                 `json:"userId"`
	Profile         Profile                `json:"profile"`
	RecentDocuments []string               `json:"recentDocuments"`
	StoredQueries   []string               `json:"storedQueries"`
	Preferences     map[string]interface{} `json:"preferences"`
}

// Fetcher retrieves the memory context of a user.
type Fetcher interface {
	Fetch(ctx context.Context, userID string) (UserData, error)
}

// Recorder appends to the memory context of a user.
type Recorder interface {
	RecordDocument(ctx context.Context, userID string, title string) error
	RecordQuery(ctx context.Context, userID string, query string) error
}

// Memory is a Fetcher and Recorder.
type Memory interface {
	Fetcher
	Recorder
}

type inMemory struct {
	mutex sync.RWMutex
	users map[string]UserData
}

// NewInMemory returns a Memory holding the given users.
// Unknown users have an empty memory context.
func NewInMemory(users ...UserData) Memory {
	m := &inMemory{users: make(map[string]UserData)}
	for _, u := range users {
		m.users[u.UserID] = u
	}
	return m
}

func (m *inMemory) Fetch(ctx context.Context, userID string) (UserData, error) {
	if userID == "" {
		return UserData{}, errors.New("user id is required")
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	u, exists := m.users[userID]
	if !exists {
		ctx.Logger().Debugf("no memory for user %s", userID)
		return UserData{
			UserID:          userID,
			RecentDocuments: []string{},
			StoredQueries:   []string{},
			Preferences:     map[string]interface{}{},
		}, nil
	}
	return u.copy(), nil
}

func (m *inMemory) RecordDocument(ctx context.Context, userID string, title string) error {
	return m.update(userID, func(u *UserData) {
		u.RecentDocuments = push(u.RecentDocuments, title)
	})
}

func (m *inMemory) RecordQuery(ctx context.Context, userID string, query string) error {
	return m.update(userID, func(u *UserData) {
		u.StoredQueries = push(u.StoredQueries, query)
	})
}

func (m *inMemory) update(userID string, f func(u *UserData)) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	u, exists := m.users[userID]
	if !exists {
		u = UserData{UserID: userID}
	}
	f(&u)
	m.users[userID] = u
	return nil
}

func (u UserData) copy() UserData {
	res := u
	res.RecentDocuments = append([]string{}, u.RecentDocuments...)
	res.StoredQueries = append([]string{}, u.StoredQueries...)
	res.Preferences = make(map[string]interface{}, len(u.Preferences))
	for k, v := range u.Preferences {
		res.Preferences[k] = v
	}
	return res
}

// push prepends v to the list, most recent first, and drops the oldest entries beyond maxHistory.
func push(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	res := append([]string{v}, list...)
	if len(res) > maxHistory {
		res = res[:maxHistory]
	}
	return res
}

// Title returns a short title for a document: its first non empty line, truncated.
func Title(document string) string {
	for _, line := range strings.Split(document, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > 80 {
			return string(r[:80]) + "..."
		}
		return line
	}
	return "untitled"
}
