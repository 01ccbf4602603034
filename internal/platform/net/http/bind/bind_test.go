package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "codeeditor/internal/platform/errors"
)

type payload struct {
	Name string `json:"name" validate:"required,min=2"`
	Age  int    `json:"age" validate:"min=1"`
}

func req(method, body string) *http.Request {
	return httptest.NewRequest(method, "/", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	got, err := ParseJSON[payload](req(http.MethodPost, `{"name":"ada","age":36}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "ada" || got.Age != 36 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		opts  []JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{name: "empty", body: "  ", code: perr.ErrorCodeJSON},
		{name: "malformed", body: `{"name":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"name":"ada","age":1,"x":1}`, code: perr.ErrorCodeJSON},
		{name: "trailing", body: `{"name":"ada","age":1}{}`, code: perr.ErrorCodeJSON},
		{name: "validation", body: `{"name":"a","age":1}`, code: perr.ErrorCodeValidation, field: "name"},
		{name: "too large", body: `{"name":"ada","age":1}`, opts: []JSONOptions{{MaxBytes: 8}}, code: perr.ErrorCodeTooLarge},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[payload](req(http.MethodPost, c.body), c.opts...)
			if perr.CodeOf(err) != c.code {
				t.Fatalf("code = %d (%v), want %d", perr.CodeOf(err), err, c.code)
			}
			if c.field != "" {
				if e, _ := perr.As(err); e.Field() != c.field {
					t.Fatalf("field = %q", e.Field())
				}
			}
		})
	}
}

func TestParseJSON_Options(t *testing.T) {
	if _, err := ParseJSON[payload](req(http.MethodPost, `{"name":"ada","age":2,"extra":true}`), JSONOptions{AllowUnknown: true}); err != nil {
		t.Fatalf("unknown allowed: %v", err)
	}
	got, err := ParseJSON[payload](req(http.MethodPut, ""), JSONOptions{AllowEmptyBody: true})
	if err != nil || got != (payload{}) {
		t.Fatalf("empty allowed: %+v %v", got, err)
	}
	if _, err := ParseJSON[payload](req(http.MethodDelete, "")); err != nil {
		t.Fatalf("delete with empty body: %v", err)
	}
	big := `{"name":"` + strings.Repeat("a", 2<<20) + `","age":1}`
	if _, err := ParseJSON[payload](req(http.MethodPost, big), JSONOptions{MaxBytes: -1}); err != nil {
		t.Fatalf("unlimited: %v", err)
	}
}

func TestTranslations(t *testing.T) {
	type s struct {
		Count int    `json:"count" validate:"max=5"`
		Kind  string `json:"kind" validate:"repo_kind"`
	}

	_, msg := FieldAndMessage(get().v.Struct(s{Count: 6, Kind: "TEST"}))
	if msg != "count must be at most 5" {
		t.Fatalf("max: %q", msg)
	}

	field, msg := FieldAndMessage(get().v.Struct(s{Count: 1, Kind: "template"}))
	if field != "kind" || msg != "kind must be one of TEMPLATE SOLUTION ASSIGNMENT TEST" {
		t.Fatalf("repo_kind: %q %q", field, msg)
	}

	if err := get().v.Struct(s{Count: 1, Kind: "ASSIGNMENT"}); err != nil {
		t.Fatalf("valid kind rejected: %v", err)
	}
}

func TestStruct(t *testing.T) {
	type in struct {
		ExerciseID int64 `json:"exerciseId" validate:"required,gt=0"`
	}
	err := Struct(in{})
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "exerciseId" {
		t.Fatalf("err = %#v", err)
	}
	if err := Struct(&in{ExerciseID: 3}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := Struct([]int{1}); err != nil {
		t.Fatalf("non struct: %v", err)
	}
}
