package client

import "fmt"

// TransportError 网络失败或非 2xx 响应
type TransportError struct {
	Op         string // 如 "fetch snapshot"
	StatusCode int    // 0 表示网络层失败
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError 响应缺少预期字段
type MalformedResponseError struct {
	Op    string
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response for %s: missing %s", e.Op, e.Field)
}
