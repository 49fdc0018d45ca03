package pkgerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewServerWrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewServer(cause)

	var structured *Error
	if !errors.As(err, &structured) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped")
	}
	if structured.Type() != TypeServer {
		t.Fatalf("expected server type, got %v", structured.Type())
	}
	if structured.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", structured.StatusCode())
	}
}

func TestNewBusinessStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTimeout, http.StatusRequestTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		err := NewBusiness("nope", tc.code)
		var structured *Error
		if !errors.As(err, &structured) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if got := structured.StatusCode(); got != tc.want {
			t.Fatalf("code %v: expected status %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput(errors.New("run_id is required"))

	var structured *Error
	if !errors.As(err, &structured) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if structured.Type() != TypeValidation {
		t.Fatalf("expected validation type, got %v", structured.Type())
	}
	if structured.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", structured.StatusCode())
	}
}
