package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfAndIs(t *testing.T) {
	cause := errors.New("upstream said 500: secret body")
	err := fmt.Errorf("refine: %w", AIUnavailable(cause))

	if KindOf(err) != KindAIUnavailable {
		t.Fatalf("expected AI_UNAVAILABLE, got %s", KindOf(err))
	}
	if !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected errors.Is to match AI_UNAVAILABLE")
	}
	if errors.Is(err, ErrAIMisconfigured) {
		t.Fatalf("kinds must not cross-match")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must stay reachable for server-side logging")
	}

	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("foreign errors must be INTERNAL")
	}
}

func TestStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindAIUnavailable:   http.StatusServiceUnavailable,
		KindAIMisconfigured: http.StatusServiceUnavailable,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := Status(kind); got != want {
			t.Fatalf("Status(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	if got := PublicMessage(AIUnavailable(errors.New("provider stack trace"))); got != "AI analysis is temporarily unavailable" {
		t.Fatalf("unexpected public message: %q", got)
	}
	if got := PublicMessage(Internal(errors.New("sql: connection refused"))); got != "internal error" {
		t.Fatalf("internal details leaked: %q", got)
	}
	if got := PublicMessage(errors.New("raw")); got != "internal error" {
		t.Fatalf("foreign error leaked: %q", got)
	}
	if got := PublicMessage(Validation("resume is required")); got != "resume is required" {
		t.Fatalf("validation message lost: %q", got)
	}
}
