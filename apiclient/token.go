package apiclient

import (
	"log/slog"
	"net/http"
	"sync"
)

// CookieNames are the cookie names credentials travel under.
type CookieNames struct {
	Access  string
	Refresh string
}

// DefaultCookieNames is used when a carrier is built with zero CookieNames.
var DefaultCookieNames = CookieNames{
	Access:  "access_token",
	Refresh: "refresh_token",
}

func (n CookieNames) orDefault() CookieNames {
	if n.Access == "" && n.Refresh == "" {
		return DefaultCookieNames
	}
	return n
}

// TokenCarrier supplies request credentials and may refresh them from responses.
type TokenCarrier interface {
	// Cookies returns the credential cookies attached to an outgoing request.
	Cookies() []*http.Cookie
	// Observe is called once per response, before the status is interpreted.
	Observe(header http.Header)
}

// Credentials is an immutable credential pair. It ignores refreshed cookies.
type Credentials struct {
	Access  string
	Refresh string
	Names   CookieNames
}

// AccessToken returns credentials carrying only an access token.
func AccessToken(access string) Credentials {
	return Credentials{Access: access}
}

// TokenPair returns credentials carrying both tokens.
func TokenPair(access, refresh string) Credentials {
	return Credentials{Access: access, Refresh: refresh}
}

func (c Credentials) Cookies() []*http.Cookie {
	return pairCookies(c.Names.orDefault(), c.Access, c.Refresh)
}

func (Credentials) Observe(http.Header) {}

// Store is a mutable credential pair shared by a client and all of its
// in-flight requests. Reads take the shared lock; refreshes take the
// exclusive lock.
type Store struct {
	names CookieNames

	mu      sync.RWMutex
	access  string
	refresh string
}

// NewStore returns an empty store using the given cookie names.
func NewStore(names CookieNames) *Store {
	return &Store{names: names.orDefault()}
}

// Set replaces the stored pair.
func (s *Store) Set(access, refresh string) {
	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()
}

// Pair returns the stored pair.
func (s *Store) Pair() (access, refresh string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

func (s *Store) Cookies() []*http.Cookie {
	access, refresh := s.Pair()
	return pairCookies(s.names.orDefault(), access, refresh)
}

// Observe stores a refreshed pair when both cookies are present in Set-Cookie.
func (s *Store) Observe(header http.Header) {
	names := s.names.orDefault()

	var access, refresh string
	var hasAccess, hasRefresh bool
	for _, line := range header.Values("Set-Cookie") {
		c, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		switch c.Name {
		case names.Access:
			access, hasAccess = c.Value, true
		case names.Refresh:
			refresh, hasRefresh = c.Value, true
		}
	}

	if !hasAccess || !hasRefresh {
		slog.Debug("token updated", "updated", false)
		return
	}

	s.Set(access, refresh)
	slog.Debug("token updated", "updated", true)
}

func pairCookies(names CookieNames, access, refresh string) []*http.Cookie {
	var cookies []*http.Cookie
	if access != "" {
		cookies = append(cookies, &http.Cookie{Name: names.Access, Value: access})
	}
	if refresh != "" {
		cookies = append(cookies, &http.Cookie{Name: names.Refresh, Value: refresh})
	}
	return cookies
}
