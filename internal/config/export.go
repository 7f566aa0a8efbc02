package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

const redacted = "********"

// Setting is one resolved environment variable.
type Setting struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Secret bool   `json:"secret,omitempty" yaml:"secret,omitempty"`
}

var secretSettings = map[string]bool{
	"CREDENTIALS_ENCRYPTION_KEY":  true,
	"UPLOAD_S3_ACCESS_KEY_ID":     true,
	"UPLOAD_S3_SECRET_ACCESS_KEY": true,
}

// Export lists every setting in declaration order with secrets redacted.
// The database password is masked inside DATABASE_URL instead of hiding the whole URL.
func (c *Config) Export() []Setting {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	settings := make([]Setting, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("env"), ",")
		if name == "" {
			continue
		}
		s := Setting{Name: name, Value: formatValue(v.Field(i))}
		switch {
		case secretSettings[name]:
			s.Secret = true
			if s.Value != "" {
				s.Value = redacted
			}
		case name == "DATABASE_URL":
			s.Value = redactDSN(s.Value)
		}
		settings = append(settings, s)
	}
	return settings
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v.Interface())
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	return u.Redacted()
}
