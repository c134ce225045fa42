package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromPassesThroughAPIErrors(t *testing.T) {
	orig := Validation("bad input: %s", "field")
	got := From(fmt.Errorf("handler: %w", orig))
	if got.Status != http.StatusBadRequest || got.Code != CodeValidation {
		t.Fatalf("From wrapped: got status=%d code=%q", got.Status, got.Code)
	}
}

func TestFromDefaultsToInternal(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
		t.Fatalf("From plain error: got status=%d code=%q", got.Status, got.Code)
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}

func TestNotFoundShape(t *testing.T) {
	err := NotFound("ticket %s not found", "TKT-1")
	if err.Status != http.StatusNotFound || err.Code != CodeNotFound {
		t.Fatalf("got status=%d code=%q", err.Status, err.Code)
	}
	if err.Error() != "ticket TKT-1 not found" {
		t.Fatalf("message: got %q", err.Error())
	}
}
