package http

import (
	"net"
	"net/http"
	"time"
)

// UserAgent is sent with every request made by clients from NewHTTPClient.
const UserAgent = "usergraph-client/1.0"

// NewHTTPClient は GraphQL エンドポイント呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - MaxIdleConnsPerHost: 単一エンドポイントへの接続を再利用するため
//   - User-Agent / Accept: 呼び出し側が指定していなければ付与
//   - Client.Timeout: リクエスト全体のタイムアウト（0以下なら10秒）
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &defaultHeaders{
			base: t,
			header: http.Header{
				"User-Agent": {UserAgent},
				"Accept":     {"application/json"},
			},
		},
	}
}

// defaultHeaders fills in headers the request does not already carry.
type defaultHeaders struct {
	base   http.RoundTripper
	header http.Header
}

func (d *defaultHeaders) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range d.header {
		if req.Header.Get(k) == "" {
			req.Header[k] = v
		}
	}
	return d.base.RoundTrip(req)
}
