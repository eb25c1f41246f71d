package core

// ValidateTerms checks the listing terms in the order the errors are reported:
// price, late fee, deposit, then that the deposit covers one day of late fees.
func ValidateTerms(pricePerDay, lateFeePerDay, deposit Money) error {
	switch {
	case !pricePerDay.IsPositive():
		return ErrZeroPrice
	case !lateFeePerDay.IsPositive():
		return ErrZeroLateFee
	case !deposit.IsPositive():
		return ErrZeroDeposit
	case deposit.LessThan(lateFeePerDay):
		return ErrInsufficientDeposit
	}

	return nil
}

// ValidateRentalPeriod accepts 1..MaxRentalDays days.
func ValidateRentalPeriod(days int) error {
	switch {
	case days < 1:
		return ErrInvalidPeriod
	case days > MaxRentalDays:
		return ErrExceedsMaxPeriod
	}

	return nil
}

// ValidatePrincipal rejects the null principal.
func ValidatePrincipal(principal PrincipalString) error {
	if principal == "" {
		return ErrAnonymousCaller
	}

	return nil
}
