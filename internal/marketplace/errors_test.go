// internal/marketplace/errors_test.go
package marketplace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodesAreStable(t *testing.T) {
	assert.EqualValues(t, 1, ErrUnauthorizedAccess.Code)
	assert.EqualValues(t, 2, ErrInnovationNotFound.Code)
	assert.EqualValues(t, 3, ErrInvalidListing.Code)
	assert.EqualValues(t, 4, ErrBidTooLow.Code)
	assert.EqualValues(t, 5, ErrListingClosed.Code)
	assert.EqualValues(t, 6, ErrEscrowFailed.Code)
}

func TestEscrowFailedWrapsCause(t *testing.T) {
	cause := errors.New("card declined")
	err := escrowFailed(cause)

	assert.ErrorIs(t, err, ErrEscrowFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "card declined")
}

func TestErrorsDoNotMatchEachOther(t *testing.T) {
	assert.NotErrorIs(t, ErrBidTooLow, ErrListingClosed)
	assert.NotErrorIs(t, ErrInnovationNotFound, ErrUnauthorizedAccess)
}
