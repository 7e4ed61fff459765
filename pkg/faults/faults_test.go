package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := Unavailable(errors.New("connection refused"))
	wrapped := fmt.Errorf("resolve P1: %w", err)

	if KindOf(wrapped) != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", KindOf(wrapped))
	}
}

func TestAtStepPreservesKind(t *testing.T) {
	err := AtStep("enrich", NotFound("product P9 not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", KindOf(err))
	}
	if StepOf(err) != "enrich" {
		t.Fatalf("expected step enrich, got %q", StepOf(err))
	}
}

func TestAtStepDefaultsToUnavailable(t *testing.T) {
	err := AtStep("persist", errors.New("write timeout"))
	if KindOf(err) != KindUnavailable {
		t.Fatalf("untyped cause should classify as unavailable, got %v", KindOf(err))
	}
}

func TestPartialAtStepEscalates(t *testing.T) {
	err := PartialAtStep("publish", Unavailable(errors.New("broker down")))
	if KindOf(err) != KindPartial {
		t.Fatalf("expected partial_completion, got %v", KindOf(err))
	}
	if StepOf(err) != "publish" {
		t.Fatalf("expected step publish, got %q", StepOf(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("missing items"), http.StatusBadRequest},
		{NotFound("no such record"), http.StatusNotFound},
		{Rejected(errors.New("out of stock")), http.StatusConflict},
		{Unavailable(errors.New("down")), http.StatusBadGateway},
		{PartialAtStep("archive", errors.New("down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
