// Package bind decodes request bodies and validates them with go-playground/validator
// failures come back as platform errors carrying the offending json field
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultMaxBytes caps bodies when JSONOptions leaves MaxBytes at zero
const DefaultMaxBytes = 1 << 20

// JSONOptions tunes ParseJSON
type JSONOptions struct {
	// MaxBytes caps the body, zero means DefaultMaxBytes, negative means unlimited
	MaxBytes int64
	// AllowUnknown accepts fields T does not declare
	AllowUnknown bool
	// AllowEmptyBody yields the zero T for an empty body on any method
	AllowEmptyBody bool
}

type validation struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	vOnce sync.Once
	vInst *validation
)

func get() *validation {
	vOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")
		registerRepoKind(v, trans)

		vInst = &validation{v: v, trans: trans}
	})
	return vInst
}

// jsonName reports fields by their json name so messages match the wire
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// ParseJSON decodes one JSON value from the body into T and validates it
// GET and DELETE tolerate an empty body
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var o JSONOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	var dst T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("request body close")
		}
	}()

	body := r.Body
	switch {
	case o.MaxBytes == 0:
		body = http.MaxBytesReader(nil, body, DefaultMaxBytes)
	case o.MaxBytes > 0:
		body = http.MaxBytesReader(nil, body, o.MaxBytes)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return dst, perr.Newf(perr.ErrorCodeTooLarge, "body exceeds %d bytes", tooBig.Limit)
		}
		return dst, perr.JSONErrf("read body: %v", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if o.AllowEmptyBody || r.Method == http.MethodGet || r.Method == http.MethodDelete {
			return dst, nil
		}
		return dst, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

// Struct validates v, non struct values pass
func Struct(v any) error {
	if k := reflect.Indirect(reflect.ValueOf(v)).Kind(); k != reflect.Struct {
		return nil
	}
	err := get().v.Struct(v)
	if err == nil {
		return nil
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldAndMessage returns the first failing field with its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(get().trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// repoKinds are the accepted values of the repo_kind tag
var repoKinds = map[string]bool{"TEMPLATE": true, "SOLUTION": true, "ASSIGNMENT": true, "TEST": true}

func registerRepoKind(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("repo_kind", func(fl validator.FieldLevel) bool {
		return repoKinds[fl.Field().String()]
	})
	short(v, trans, "repo_kind", "{0} must be one of TEMPLATE SOLUTION ASSIGNMENT TEST")
}
