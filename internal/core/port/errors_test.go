package port

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{ErrUnauthenticated, KindUnauthenticated},
		{ErrNotAnInfluencer, KindUnauthorized},
		{ErrCampaignNotFound, KindNotFound},
		{fmt.Errorf("wrap: %w", ErrDuplicateApplication), KindInvalidState},
		{ErrCounterDecreased, KindInvalidState},
		{fmt.Errorf("%w: timeout", ErrUpstreamUnavailable), KindUpstreamUnavailable},
		{Persistence("insert", errors.New("boom")), KindPersistence},
		{context.Canceled, KindPersistence},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Persistence("update status", cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Persistence("noop", nil))
}
