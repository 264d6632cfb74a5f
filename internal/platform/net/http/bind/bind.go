// Package bind provides JSON bind and validation helpers for handlers and event decoders
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
	"unicode/utf8"

	perr "csvprep/internal/platform/errors"
	"csvprep/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *ValidatorSvc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// MaxObjectKeyBytes is the S3 and GCS limit on object name length
const MaxObjectKeyBytes = 1024

const (
	maxBucket       = 63
	maxDottedBucket = 222
)

// Init initializes the singleton validator with english translations and json tag names
func Init() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerBucket(v, trans)
		registerObjectKey(v, trans)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *ValidatorSvc { return Init() }

// Struct validates v and maps the first failure to a Validation error carrying the field name
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Validationf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.Validationf("%s", msg), field)
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	body, err := ReadBody(r, o.MaxBytes)
	if err != nil {
		return zero, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// ReadBody reads the whole request body; empty and oversized bodies are rejected.
// maxBytes <= 0 disables the cap
func ReadBody(r *http.Request, maxBytes int64) ([]byte, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	var rd io.Reader = r.Body
	if maxBytes > 0 {
		// one extra byte tells an exact fit from an overflow
		rd = io.LimitReader(r.Body, maxBytes+1)
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "read body")
	}
	if maxBytes > 0 && int64(len(b)) > maxBytes {
		return nil, perr.Validationf("body exceeds %d bytes", maxBytes)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, perr.JSONErrf("empty body")
	}
	return b, nil
}

// ValidationFieldAndMessage returns the first field and translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().Translator)
		}
	}
	return "", err.Error()
}

// validBucket accepts S3 and GCS bucket names: lowercase letters, digits, dot, hyphen and
// underscore, starting and ending with a letter or digit. Names are 3-63 chars; dotted GCS names
// may reach 222 chars as long as no dot-separated component exceeds 63
func validBucket(s string) bool {
	if len(s) < 3 || len(s) > maxDottedBucket {
		return false
	}
	if len(s) > maxBucket {
		for _, part := range strings.Split(s, ".") {
			if len(part) > maxBucket {
				return false
			}
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		alnum := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		if i == 0 || i == len(s)-1 {
			if !alnum {
				return false
			}
			continue
		}
		if !alnum && c != '.' && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

func validObjectKey(s string) bool {
	return s != "" && len(s) <= MaxObjectKeyBytes && utf8.ValidString(s)
}

func registerBucket(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("bucket", func(fl validator.FieldLevel) bool {
		return validBucket(fl.Field().String())
	})
	_ = v.RegisterTranslation("bucket", trans,
		func(ut ut.Translator) error {
			return ut.Add("bucket", "{0} must be a valid bucket name", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("bucket", fe.Field())
			return msg
		},
	)
}

func registerObjectKey(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("objkey", func(fl validator.FieldLevel) bool {
		return validObjectKey(fl.Field().String())
	})
	_ = v.RegisterTranslation("objkey", trans,
		func(ut ut.Translator) error {
			return ut.Add("objkey", "{0} must be a UTF-8 object key of at most 1024 bytes", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("objkey", fe.Field())
			return msg
		},
	)
}
