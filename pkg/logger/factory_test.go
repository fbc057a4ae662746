package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shiftops/authcore/pkg/gate"
	"github.com/shiftops/authcore/pkg/logger"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("hello")
	record := decodeRecord(t, &buf)
	require.Equal(t, "hello", record["msg"])
	require.Equal(t, "INFO", record["level"])

	// Debug is below the default level.
	buf.Reset()
	log.Debug("quiet")
	require.Zero(t, buf.Len())
}

func TestNewTextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

	log.Info("hello")
	require.True(t, strings.Contains(buf.String(), "msg=hello"))
}

func TestWithFormatPanicsOnInvalid(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestWithServiceAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithService("authcore-test"),
		logger.WithAttr(slog.String("region", "eu-west-1")),
	)

	log.Info("hello")
	record := decodeRecord(t, &buf)
	require.Equal(t, "authcore-test", record["service"])
	require.Equal(t, "eu-west-1", record["region"])
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewFromConfig(logger.Config{
		Level:  slog.LevelDebug,
		Format: logger.FormatJSON,
		Name:   "svc",
	}, logger.WithOutput(&buf))

	log.Debug("visible")
	record := decodeRecord(t, &buf)
	require.Equal(t, "visible", record["msg"])
	require.Equal(t, "svc", record["service"])
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(gate.LoggerExtractor(), nil),
	)

	p := gate.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: gate.RoleAdmin}
	log.InfoContext(gate.WithPrincipal(context.Background(), p), "gated action")

	record := decodeRecord(t, &buf)
	principal, ok := record["principal"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, p.UserID.String(), principal["user_id"])
	require.Equal(t, p.OrgID.String(), principal["org_id"])
	require.Equal(t, "admin", principal["role"])

	// Without a principal in context the group is omitted.
	buf.Reset()
	log.InfoContext(context.Background(), "anonymous action")
	record = decodeRecord(t, &buf)
	require.NotContains(t, record, "principal")
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.Attr{}, logger.Error(nil))
	require.Equal(t, "error", logger.Error(errors.New("boom")).Key)

	require.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	require.Equal(t, "errors", logger.Errors(errors.New("a"), nil, errors.New("b")).Key)

	require.Equal(t, slog.Attr{}, logger.UserID(nil))
	require.Equal(t, "user_id", logger.UserID(uuid.New()).Key)

	require.Equal(t, slog.Attr{}, logger.IntegrationID(""))
	require.Equal(t, "integration_id", logger.IntegrationID("gmail").Key)

	require.Equal(t, slog.Attr{}, logger.FeatureKey(""))
	require.Equal(t, "feature_key", logger.FeatureKey("time_tracking").Key)
}
