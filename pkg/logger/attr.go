package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// OrgID records the organization identifier under the key "org_id".
// If id is nil, it returns an empty Attr.
func OrgID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("org_id", id)
}

// IntegrationID records the integration identifier under the key "integration_id".
func IntegrationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("integration_id", id)
}

// FeatureKey records a feature key under the key "feature_key".
func FeatureKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("feature_key", key)
}
