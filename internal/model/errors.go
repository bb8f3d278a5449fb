package model

import (
	"fmt"
	"time"
)

// InvalidDateError reports a transaction date or a date parameter that is
// missing or unparseable. Param is set for parameters, TransactionID otherwise.
type InvalidDateError struct {
	TransactionID string
	Param         string
	Value         string
	Err           error
}

func (e *InvalidDateError) Error() string {
	subject := fmt.Sprintf("transaction %q", e.TransactionID)
	if e.Param != "" {
		subject = e.Param
	}
	if e.Value == "" {
		return subject + ": missing date"
	}
	return fmt.Sprintf("%s: invalid date %q (want YYYY-MM-DD)", subject, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// InvalidAmountError reports a numeric field that could not be parsed.
type InvalidAmountError struct {
	TransactionID string
	Field         string
	Value         string
	Err           error
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("transaction %q: invalid %s %q", e.TransactionID, e.Field, e.Value)
}

func (e *InvalidAmountError) Unwrap() error {
	return e.Err
}

// ParseDate parses a YYYY-MM-DD date for the given transaction.
func ParseDate(transactionID, value string) (time.Time, error) {
	d, err := parseDate(value)
	if err != nil {
		err.TransactionID = transactionID
		return time.Time{}, err
	}
	return d, nil
}

// ParseParamDate parses a YYYY-MM-DD date supplied as a named parameter
// such as a query argument or a flag.
func ParseParamDate(param, value string) (time.Time, error) {
	d, err := parseDate(value)
	if err != nil {
		err.Param = param
		return time.Time{}, err
	}
	return d, nil
}

func parseDate(value string) (time.Time, *InvalidDateError) {
	if value == "" {
		return time.Time{}, &InvalidDateError{}
	}
	d, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: value, Err: err}
	}
	return d, nil
}
