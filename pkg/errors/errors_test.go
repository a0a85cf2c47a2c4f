package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("code %s: status = %d, want %d", tc.code, meta.HTTPStatus, tc.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row missing")
	err := Wrap(CodeNotFound, cause, "order not found")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Error() != "NOT_FOUND: order not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeStateConflict, "order is not pending")
	outer := fmt.Errorf("pay order: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("code = %s, want %s", typed.Code(), CodeStateConflict)
	}
	if !IsCode(outer, CodeStateConflict) {
		t.Fatal("IsCode should match through wrapping")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"field": "extraHours"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["field"] != "extraHours" {
		t.Fatalf("unexpected details: %#v", err.Details())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("connection reset"), "load order")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("dump code = %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(dump.Chain))
	}
}
