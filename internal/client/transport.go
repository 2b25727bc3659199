package client

import (
	"net/http"
	"time"

	"github.com/siliconvoice/voice-upload/internal/config"
)

// NewHTTPClient builds the outbound HTTP client for the SiliconFlow API.
// With BypassProxy set the transport ignores HTTP(S)_PROXY entirely, so the
// process environment never needs to be touched.
func NewHTTPClient(cfg *config.SiliconFlowConfig) *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	if cfg.BypassProxy {
		tr.Proxy = nil
	}

	return &http.Client{
		Transport: tr,
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
	}
}
