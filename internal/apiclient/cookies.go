package apiclient

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
)

// CookieStore persists session cookies between process runs
type CookieStore interface {
	Load() ([]*http.Cookie, error)
	Save(cookies []*http.Cookie) error
}

// FileCookieStore keeps cookies as JSON in a file readable only by the owner
type FileCookieStore struct {
	Path string
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewFileCookieStore creates a FileCookieStore at path
func NewFileCookieStore(path string) *FileCookieStore {
	return &FileCookieStore{Path: path}
}

// Load reads saved cookies; a missing file yields none
func (s *FileCookieStore) Load() ([]*http.Cookie, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}
	return cookies, nil
}

// Save overwrites the file with the given cookies
func (s *FileCookieStore) Save(cookies []*http.Cookie) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0600)
}
