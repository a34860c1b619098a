package errors

import "fmt"

type ErrorCode int

const (
	InternalError = iota
	InvalidConfiguration
	KeyFilterMismatch
	PlannerStateViolation
	UnsupportedPredicate
	PartitionDiscoveryFailed
)

func NewInvalidConfigurationError(msg string) PlanError {
	return NewPlanErrorf(InvalidConfiguration, "Invalid configuration: %s", msg)
}

func NewKeyFilterMismatchError(schemaName string, tableName string, numFilters int, numKeyCols int) PlanError {
	return NewPlanErrorf(KeyFilterMismatch, "Table %s.%s has %d clustering columns but %d key filters were provided",
		schemaName, tableName, numKeyCols, numFilters)
}

func NewPlannerStateError(tableName string, msg string) PlanError {
	return NewPlanErrorf(PlannerStateViolation, "Scan of table %s: %s", tableName, msg)
}

func NewTooManyConjunctsError(columnName string, numConjuncts int) PlanError {
	return NewPlanErrorf(UnsupportedPredicate,
		"Partition filter on column %s cannot contain more than 2 conjuncts, got %d", columnName, numConjuncts)
}

func NewUnsupportedPredicateError(columnName string, msg string) PlanError {
	return NewPlanErrorf(UnsupportedPredicate, "Partition filter on column %s is not supported: %s", columnName, msg)
}

func NewPartitionDiscoveryError(schemaName string, tableName string, msg string) PlanError {
	return NewPlanErrorf(PartitionDiscoveryFailed, "Partition discovery failed for table %s.%s: %s",
		schemaName, tableName, msg)
}

func NewPlanErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) PlanError {
	msg := fmt.Sprintf(fmt.Sprintf("RPL%04d - %s", errorCode, msgFormat), args...)
	return PlanError{Code: errorCode, Msg: msg}
}

func NewPlanError(errorCode ErrorCode, msg string) PlanError {
	return PlanError{Code: errorCode, Msg: msg}
}

func Error(msg string) error {
	return New(msg)
}

// PlanError is any kind of error that is exposed to the user via external interfaces like the CLI.
// The code is stable across releases so callers can match on it; the message always names the
// offending table or column.
type PlanError struct {
	Code ErrorCode
	Msg  string
}

func (u PlanError) Error() string {
	return u.Msg
}
