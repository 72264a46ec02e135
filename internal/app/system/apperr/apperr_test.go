package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct apperr",
			err:  New(NotFound, "league not found"),
			want: NotFound,
		},
		{
			name: "wrapped apperr",
			err:  fmt.Errorf("accept invite: %w", New(FailedPrecondition, "invite no longer pending")),
			want: FailedPrecondition,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidArgument, http.StatusBadRequest},
		{Unauthenticated, http.StatusUnauthorized},
		{PermissionDenied, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{AlreadyExists, http.StatusConflict},
		{FailedPrecondition, http.StatusPreconditionFailed},
		{ResourceExhausted, http.StatusTooManyRequests},
		{Internal, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := HTTPStatus(tt.kind); got != tt.want {
				t.Errorf("HTTPStatus(%q) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}
