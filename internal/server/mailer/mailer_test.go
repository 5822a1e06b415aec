package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer_SendOTP(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logging.NewJSONLogger(&buf, slog.LevelInfo))

	require.NoError(t, m.SendOTP(context.Background(), "resident@x.io", "123456", 5*time.Minute))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "otp issued", line["msg"])
	assert.Equal(t, "mailer", line["module"])
	assert.Equal(t, "resident@x.io", line["email"])
	assert.Equal(t, "123456", line["code"])
	assert.Equal(t, "5m0s", line["valid_for"])
}
