package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

func Test_Error_MatchesItsCategory(t *testing.T) {
	testCases := []struct {
		err      error
		category error
		code     core.ErrorCode
	}{
		{err: core.ErrZeroPrice, category: core.ErrValidation, code: core.CodeZeroPrice},
		{err: core.ErrExceedsMaxPeriod, category: core.ErrValidation, code: core.CodeExceedsMaxPeriod},
		{err: core.ErrOwnerCannotRent, category: core.ErrAuthorization, code: core.CodeOwnerCannotRent},
		{err: core.ErrNotRenter, category: core.ErrAuthorization, code: core.CodeNotRenter},
		{err: core.ErrNotFound, category: core.ErrState, code: core.CodeNotFound},
		{err: core.ErrAlreadyRented, category: core.ErrState, code: core.CodeAlreadyRented},
		{err: core.ErrWrongPayment, category: core.ErrPayment, code: core.CodeWrongPayment},
		{err: core.ErrTransferFailure, category: core.ErrTransfer, code: core.CodeTransferFailure},
	}

	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			wrapped := fmt.Errorf("handling command: %w", tc.err)

			assert.ErrorIs(t, wrapped, tc.category)
			assert.ErrorIs(t, wrapped, tc.err)
			assert.Equal(t, tc.code, core.CodeOf(wrapped))
		})
	}
}

func Test_TransferFailed_KeepsCauseAndMatchesTransferFailure(t *testing.T) {
	// arrange
	cause := errors.New("recipient account frozen")

	// act
	err := core.TransferFailed(cause)

	// assert
	assert.ErrorIs(t, err, core.ErrTransferFailure)
	assert.ErrorIs(t, err, core.ErrTransfer)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, core.ErrWrongPayment)
	assert.Equal(t, "transfer failed: recipient account frozen", err.Error())
}

func Test_CodeOf_ReturnsEmptyForForeignErrors(t *testing.T) {
	assert.Equal(t, core.ErrorCode(""), core.CodeOf(errors.New("boom")))
	assert.Equal(t, core.ErrorCode(""), core.CodeOf(nil))
}

func Test_ValidateTerms_ReportsInOrder(t *testing.T) {
	zero := core.Money{}

	testCases := []struct {
		name     string
		price    string
		lateFee  string
		deposit  string
		expected error
	}{
		{name: "all zero reports price first", price: "0", lateFee: "0", deposit: "0", expected: core.ErrZeroPrice},
		{name: "zero late fee before zero deposit", price: "1", lateFee: "0", deposit: "0", expected: core.ErrZeroLateFee},
		{name: "zero deposit", price: "1", lateFee: "1", deposit: "0", expected: core.ErrZeroDeposit},
		{name: "deposit below late fee", price: "1", lateFee: "2", deposit: "1", expected: core.ErrInsufficientDeposit},
		{name: "negative price", price: "-1", lateFee: "1", deposit: "1", expected: core.ErrZeroPrice},
		{name: "deposit equal to late fee", price: "1", lateFee: "2", deposit: "2", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := core.ValidateTerms(money(tc.price), money(tc.lateFee), money(tc.deposit))

			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}

	assert.ErrorIs(t, core.ValidateTerms(zero, zero, zero), core.ErrZeroPrice)
}

func Test_ValidateRentalPeriod(t *testing.T) {
	assert.ErrorIs(t, core.ValidateRentalPeriod(0), core.ErrInvalidPeriod)
	assert.ErrorIs(t, core.ValidateRentalPeriod(-3), core.ErrInvalidPeriod)
	assert.NoError(t, core.ValidateRentalPeriod(1))
	assert.NoError(t, core.ValidateRentalPeriod(core.MaxRentalDays))
	assert.ErrorIs(t, core.ValidateRentalPeriod(core.MaxRentalDays+1), core.ErrExceedsMaxPeriod)
}

func Test_ValidatePrincipal_RejectsNullPrincipal(t *testing.T) {
	assert.ErrorIs(t, core.ValidatePrincipal(""), core.ErrAnonymousCaller)
	assert.NoError(t, core.ValidatePrincipal("alice"))
}
