package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeConflict:        http.StatusConflict,
		ErrorCodeDuplicateKey:    http.StatusConflict,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeTooLarge:        http.StatusRequestEntityTooLarge,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Errorf("code %d: got %d want %d", code, got, want)
		}
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := stderrs.New("connection reset")
	err := Wrapf(cause, ErrorCodeDB, "load exercise %d", 7)

	if err.Error() != "load exercise 7: connection reset" {
		t.Fatalf("msg = %q", err.Error())
	}
	if !stderrs.Is(err, cause) || Root(err) != cause {
		t.Fatalf("cause lost")
	}
	if CodeOf(fmt.Errorf("outer: %w", err)) != ErrorCodeDB {
		t.Fatalf("code lost through fmt wrap")
	}
}

func TestWithField_CopiesOnWrite(t *testing.T) {
	base := InvalidArgf("bad row")
	withField := WithField(base, "row")

	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("base mutated")
	}
	if w := WireFrom(withField); w.Field != "row" || w.Code != ErrorCodeInvalidArgument || w.Message != "bad row" {
		t.Fatalf("wire = %+v", w)
	}

	foreign := stderrs.New("plain")
	if WithField(foreign, "x") != foreign {
		t.Fatalf("foreign errors pass through")
	}
}

func TestWireFrom_Foreign(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil = %+v", w)
	}
	w := WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("wire = %+v", w)
	}
	if HTTPStatus(stderrs.New("boom")) != http.StatusInternalServerError {
		t.Fatalf("foreign should be 500")
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(ErrNotFound, ErrorCodeNotFound) || IsCode(nil, ErrorCodeNotFound) {
		t.Fatalf("IsCode mismatch")
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil receiver")
	}
}
