package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTransactionRunner_Timeout(t *testing.T) {
	assert.Equal(t, defaultTransactionTimeout, NewTransactionRunner(nil, 0).Timeout())
	assert.Equal(t, 3*time.Second, NewTransactionRunner(nil, 3*time.Second).Timeout())
}
