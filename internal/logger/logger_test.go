package logger

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Error("marking failed", errors.New("boom"), map[string]interface{}{"user_id": "u1", "question_type": "gp_essay"})
	assert.Equal(t, "ERROR marking failed err=\"boom\" question_type=gp_essay user_id=u1\n", buf.String())

	buf.Reset()
	l.Warn("no api key")
	assert.Equal(t, "WARN no api key\n", buf.String())
}

func TestNew_WithoutTokenReturnsNext(t *testing.T) {
	next := Discard()
	assert.Same(t, next, New(next, RollbarConfig{}))
}
