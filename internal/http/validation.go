package http

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator engine the custom rules used by
// request DTOs and makes it report JSON field names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("collectiondate", func(fl validator.FieldLevel) bool {
			_, err := parseCollectionDate(fl.Field().String())
			return err == nil
		})
	})
}

var collectionDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseCollectionDate accepts RFC 3339 timestamps as well as bare dates and
// zone-less timestamps, which are read as UTC.
func parseCollectionDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range collectionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised collection_date %q", value)
}
