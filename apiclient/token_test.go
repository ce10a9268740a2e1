package apiclient

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func cookieMap(cookies []*http.Cookie) map[string]string {
	m := make(map[string]string, len(cookies))
	for _, c := range cookies {
		m[c.Name] = c.Value
	}
	return m
}

func TestCredentials(t *testing.T) {
	t.Run("pair uses default names", func(t *testing.T) {
		c := TokenPair("acc", "ref")
		require.Equal(t, map[string]string{
			"access_token":  "acc",
			"refresh_token": "ref",
		}, cookieMap(c.Cookies()))
	})

	t.Run("access only omits refresh", func(t *testing.T) {
		c := AccessToken("acc")
		require.Equal(t, map[string]string{"access_token": "acc"}, cookieMap(c.Cookies()))
	})

	t.Run("custom names", func(t *testing.T) {
		c := Credentials{Access: "a", Refresh: "r", Names: CookieNames{Access: "madome_access_token", Refresh: "madome_refresh_token"}}
		require.Equal(t, map[string]string{
			"madome_access_token":  "a",
			"madome_refresh_token": "r",
		}, cookieMap(c.Cookies()))
	})

	t.Run("observe is ignored", func(t *testing.T) {
		c := TokenPair("acc", "ref")
		h := http.Header{}
		h.Add("Set-Cookie", "access_token=new; Path=/")
		h.Add("Set-Cookie", "refresh_token=new; Path=/")
		c.Observe(h)
		require.Equal(t, "acc", cookieMap(c.Cookies())["access_token"])
	})
}

func TestStoreObserve(t *testing.T) {
	tests := []struct {
		name        string
		setCookies  []string
		wantAccess  string
		wantRefresh string
	}{
		{
			name:        "both cookies refresh the pair",
			setCookies:  []string{"access_token=a2; Path=/; HttpOnly", "refresh_token=r2; Path=/"},
			wantAccess:  "a2",
			wantRefresh: "r2",
		},
		{
			name:        "access alone is ignored",
			setCookies:  []string{"access_token=a2; Path=/"},
			wantAccess:  "a1",
			wantRefresh: "r1",
		},
		{
			name:        "unrelated cookies are ignored",
			setCookies:  []string{"session=x", "theme=dark"},
			wantAccess:  "a1",
			wantRefresh: "r1",
		},
		{
			name:        "malformed lines are skipped",
			setCookies:  []string{"=", "access_token=a3", "refresh_token=r3"},
			wantAccess:  "a3",
			wantRefresh: "r3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(CookieNames{})
			s.Set("a1", "r1")

			h := http.Header{}
			for _, line := range tt.setCookies {
				h.Add("Set-Cookie", line)
			}
			s.Observe(h)

			access, refresh := s.Pair()
			require.Equal(t, tt.wantAccess, access)
			require.Equal(t, tt.wantRefresh, refresh)
		})
	}
}

func TestStoreConcurrentUse(t *testing.T) {
	s := NewStore(DefaultCookieNames)
	s.Set("a", "r")

	h := http.Header{}
	h.Add("Set-Cookie", "access_token=a2")
	h.Add("Set-Cookie", "refresh_token=r2")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Cookies()
		}()
		go func() {
			defer wg.Done()
			s.Observe(h)
		}()
	}
	wg.Wait()

	access, refresh := s.Pair()
	require.Equal(t, "a2", access)
	require.Equal(t, "r2", refresh)
}
