package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API（S3・Rekognition・Gemini）呼び出し用のHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTPS_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConns / MaxIdleConnsPerHost: リクエスト間で接続を再利用するための上限
//   - TLSHandshakeTimeout / ResponseHeaderTimeout: 応答しない相手で詰まらないための上限
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 起動時に1回だけ生成し、全リクエストで共有します（読み取り専用）。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
