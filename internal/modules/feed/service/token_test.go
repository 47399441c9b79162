package service

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"testing"
	"time"
)

func TestToken(t *testing.T) {
	sum := md5.Sum([]byte("BlackBots|0|1700000000secret"))
	want := hex.EncodeToString(sum[:])

	if got := Token("BlackBots", "0", 1700000000, "secret"); got != want {
		t.Fatalf("Token = %s, want %s", got, want)
	}
}

func TestEndpoint(t *testing.T) {
	c := newTestClient(t, "https://feed.example/results")
	now := time.Unix(1700000000, 0)

	u, err := url.Parse(c.Endpoint(now))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()

	expiry := now.Add(72 * time.Hour).Unix()
	if q.Get("expire") != strconv.FormatInt(expiry, 10) {
		t.Fatalf("expire = %s", q.Get("expire"))
	}
	if q.Get("token") != Token("BlackBots", "0", expiry, "secret") {
		t.Fatalf("token mismatch")
	}
	if q.Get("account_type") != "LIVE" || q.Get("broker_id") != "958" || q.Get("locale") != "pt-BR" {
		t.Fatalf("query = %v", q)
	}

	withOff, err := withOffset(c.Endpoint(now), 40)
	if err != nil {
		t.Fatalf("withOffset: %v", err)
	}
	u2, _ := url.Parse(withOff)
	if u2.Query().Get("page_offset") != "40" || u2.Query().Get("token") != q.Get("token") {
		t.Fatalf("offset url = %s", withOff)
	}
}
