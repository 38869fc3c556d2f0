package netutil

import (
	"errors"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"timeout", timeoutErr{}, true},
		{"dial failure", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"read failure", &net.OpError{Op: "read", Err: errors.New("reset")}, false},
		{"wrapped timeout", &url.Error{Op: "Post", URL: "https://slack.com/api", Err: timeoutErr{}}, true},
		{"wrapped plain", &url.Error{Op: "Post", URL: "https://slack.com/api", Err: errors.New("boom")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRetry(tc.err); got != tc.want {
				t.Fatalf("ShouldRetry(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
