package redis

import "testing"

func TestSessionKey(t *testing.T) {
	if got := sessionKey("abc-123"); got != "session:abc-123" {
		t.Fatalf("unexpected session key: %q", got)
	}
}

func TestRecentViewsKey(t *testing.T) {
	if got := recentViewsKey("u1"); got != "recent_views:u1" {
		t.Fatalf("unexpected recent views key: %q", got)
	}
}
