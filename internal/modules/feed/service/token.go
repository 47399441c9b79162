package service

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// Token подпись запроса к фиду: md5("user|account|expiry" + secret).
func Token(user, account string, expiry int64, secret string) string {
	sum := md5.Sum([]byte(user + "|" + account + "|" + strconv.FormatInt(expiry, 10) + secret))
	return hex.EncodeToString(sum[:])
}

// Endpoint адрес первой страницы с токеном, живущим tokenTTL от now.
func (c *Client) Endpoint(now time.Time) string {
	expiry := now.Add(c.tokenTTL).Unix()

	q := url.Values{}
	q.Set("account_type", c.accountType)
	q.Set("broker_id", c.brokerID)
	q.Set("token", Token(c.user, c.tokenAccount, expiry, c.secretKey))
	q.Set("expire", strconv.FormatInt(expiry, 10))
	q.Set("user", c.user)
	q.Set("locale", c.locale)

	return c.baseURL + "?" + q.Encode()
}

func withOffset(endpoint string, offset int) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page_offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
